package resources

import (
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

/**
 * @brief A typed vertex or index buffer. Data is kept host side and
 * uploaded on Realize whenever NeedsUpdate is set.
 */
type Attribute struct {
	ItemSize   int32
	Stride     int32
	Offset     int
	Normalized bool
	Dynamic    bool
	// Default is loaded as a constant when a program reads the attribute
	// but the geometry does not provide it.
	Default     [4]float32
	NeedsUpdate bool

	elementType metadata.ElementType
	floats      []float32
	uint16s     []uint16
	uint32s     []uint32
	buffer      gpu.Buffer
}

func NewFloatAttribute(data []float32, itemSize int32) *Attribute {
	return &Attribute{ItemSize: itemSize, elementType: metadata.ElementTypeFloat, floats: data, NeedsUpdate: true}
}

func NewUint16Attribute(data []uint16, itemSize int32) *Attribute {
	return &Attribute{ItemSize: itemSize, elementType: metadata.ElementTypeUnsignedShort, uint16s: data, NeedsUpdate: true}
}

func NewUint32Attribute(data []uint32, itemSize int32) *Attribute {
	return &Attribute{ItemSize: itemSize, elementType: metadata.ElementTypeUnsignedInt, uint32s: data, NeedsUpdate: true}
}

func (a *Attribute) Type() metadata.ElementType { return a.elementType }

func (a *Attribute) Buffer() gpu.Buffer { return a.buffer }

// Len is the number of scalars.
func (a *Attribute) Len() int {
	switch a.elementType {
	case metadata.ElementTypeUnsignedShort:
		return len(a.uint16s)
	case metadata.ElementTypeUnsignedInt:
		return len(a.uint32s)
	default:
		return len(a.floats)
	}
}

// Count is the number of items of ItemSize scalars.
func (a *Attribute) Count() int {
	if a.ItemSize <= 0 {
		return 0
	}
	return a.Len() / int(a.ItemSize)
}

func (a *Attribute) Floats() []float32 { return a.floats }

func (a *Attribute) SetFloats(data []float32) {
	a.floats = data
	a.NeedsUpdate = true
}

// Index returns scalar i as an index value.
func (a *Attribute) Index(i int) uint32 {
	switch a.elementType {
	case metadata.ElementTypeUnsignedShort:
		return uint32(a.uint16s[i])
	case metadata.ElementTypeUnsignedInt:
		return a.uint32s[i]
	default:
		return uint32(a.floats[i])
	}
}

// Realize creates the buffer on first use and uploads pending data.
func (a *Attribute) Realize(dev gpu.Device, target metadata.BufferTarget) gpu.Buffer {
	if a.buffer == 0 {
		a.buffer = dev.CreateBuffer()
		a.NeedsUpdate = true
	}
	dev.BindBuffer(target, a.buffer)
	if a.NeedsUpdate {
		switch a.elementType {
		case metadata.ElementTypeUnsignedShort:
			dev.BufferData(target, a.uint16s, a.Dynamic)
		case metadata.ElementTypeUnsignedInt:
			dev.BufferData(target, a.uint32s, a.Dynamic)
		default:
			dev.BufferData(target, a.floats, a.Dynamic)
		}
		a.NeedsUpdate = false
	}
	return a.buffer
}

// Release deletes the buffer right away.
func (a *Attribute) Release(dev gpu.Device) {
	if a.buffer == 0 {
		return
	}
	dev.DeleteBuffer(a.buffer)
	a.buffer = 0
}

// Dispose queues the buffer for deletion on ctx.
func (a *Attribute) Dispose(ctx gpu.Context) {
	if a.buffer == 0 {
		return
	}
	buffer := a.buffer
	a.buffer = 0
	LazyDelete(ctx, func(dev gpu.Device) { dev.DeleteBuffer(buffer) })
}
