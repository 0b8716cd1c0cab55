package resources

import (
	"sort"

	"github.com/google/uuid"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

// Attribute names the renderer knows about.
const (
	AttributePosition = "position"
	AttributeNormal   = "normal"
	AttributeUV       = "uv"
	AttributeColor    = "color"
	AttributeSkinIdx  = "skinIndex"
	AttributeSkinWgt  = "skinWeight"
)

// DrawRange is a [Start, Start+Count) span, Count -1 meaning unbounded.
type DrawRange struct {
	Start int
	Count int
}

// Group is a sub-range drawn with the material at MaterialIndex.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

/** @brief Vertex data of a drawable: index, attributes, morph sets and ranges. */
type Geometry struct {
	Name string

	index           *Attribute
	attributes      map[string]*Attribute
	morphAttributes map[string][]*Attribute
	groups          []Group
	drawRange       DrawRange

	wireframe      *Attribute
	boundingSphere *math.Sphere
	// retired wireframe indices whose buffers go on the next upload.
	retired []*Attribute
}

func NewGeometry() *Geometry {
	return &Geometry{
		Name:            uuid.NewString(),
		attributes:      make(map[string]*Attribute),
		morphAttributes: make(map[string][]*Attribute),
		drawRange:       DrawRange{Start: 0, Count: -1},
	}
}

func (g *Geometry) Index() *Attribute { return g.index }

func (g *Geometry) SetIndex(index *Attribute) {
	g.index = index
	g.retireWireframe()
}

func (g *Geometry) retireWireframe() {
	if g.wireframe != nil {
		g.retired = append(g.retired, g.wireframe)
		g.wireframe = nil
	}
}

func (g *Geometry) Attribute(name string) *Attribute { return g.attributes[name] }

func (g *Geometry) SetAttribute(name string, a *Attribute) {
	g.attributes[name] = a
	if name == AttributePosition {
		g.retireWireframe()
		g.boundingSphere = nil
	}
}

func (g *Geometry) RemoveAttribute(name string) {
	delete(g.attributes, name)
}

// AttributeNames returns attribute names sorted.
func (g *Geometry) AttributeNames() []string {
	names := make([]string, 0, len(g.attributes))
	for name := range g.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetMorphAttributes sets the morph set for position or normal.
func (g *Geometry) SetMorphAttributes(name string, set []*Attribute) {
	g.morphAttributes[name] = set
}

func (g *Geometry) MorphAttributes(name string) []*Attribute {
	return g.morphAttributes[name]
}

func (g *Geometry) AddGroup(start, count, materialIndex int) {
	g.groups = append(g.groups, Group{Start: start, Count: count, MaterialIndex: materialIndex})
}

func (g *Geometry) Groups() []Group { return g.groups }

func (g *Geometry) ClearGroups() { g.groups = nil }

func (g *Geometry) DrawRange() DrawRange { return g.drawRange }

func (g *Geometry) SetDrawRange(start, count int) {
	g.drawRange = DrawRange{Start: start, Count: count}
}

// WireframeIndex expands triangles into line pairs, built on first use.
func (g *Geometry) WireframeIndex() *Attribute {
	if g.wireframe != nil {
		return g.wireframe
	}
	var indices []uint32
	if g.index != nil {
		n := g.index.Len()
		for i := 0; i+2 < n; i += 3 {
			a, b, c := g.index.Index(i), g.index.Index(i+1), g.index.Index(i+2)
			indices = append(indices, a, b, b, c, c, a)
		}
	} else if pos := g.attributes[AttributePosition]; pos != nil {
		n := uint32(pos.Count())
		for i := uint32(0); i+2 < n; i += 3 {
			indices = append(indices, i, i+1, i+1, i+2, i+2, i)
		}
	}
	g.wireframe = NewUint32Attribute(indices, 1)
	return g.wireframe
}

// BoundingSphere is computed from positions on first use.
func (g *Geometry) BoundingSphere() math.Sphere {
	if g.boundingSphere == nil {
		g.ComputeBoundingSphere()
	}
	return *g.boundingSphere
}

func (g *Geometry) ComputeBoundingSphere() {
	var s math.Sphere
	if pos := g.attributes[AttributePosition]; pos != nil {
		s = math.SphereFromPositions(pos.Floats())
	}
	g.boundingSphere = &s
}

// Upload pushes every attribute and morph buffer with pending data, and
// deletes the buffers of retired wireframe indices. Uploads happen at the
// start of a frame, after the commands that used them.
func (g *Geometry) Upload(dev gpu.Device) {
	for _, a := range g.retired {
		a.Release(dev)
	}
	g.retired = nil
	if g.index != nil && (g.index.NeedsUpdate || g.index.buffer == 0) {
		g.index.Realize(dev, metadata.BufferTargetElementArray)
	}
	for _, name := range g.AttributeNames() {
		if a := g.attributes[name]; a.NeedsUpdate || a.buffer == 0 {
			a.Realize(dev, metadata.BufferTargetArray)
		}
	}
	for _, set := range g.morphAttributes {
		for _, a := range set {
			if a.NeedsUpdate || a.buffer == 0 {
				a.Realize(dev, metadata.BufferTargetArray)
			}
		}
	}
}

// Dispose queues every realized buffer for deletion on ctx.
func (g *Geometry) Dispose(ctx gpu.Context) {
	if g.index != nil {
		g.index.Dispose(ctx)
	}
	if g.wireframe != nil {
		g.wireframe.Dispose(ctx)
	}
	for _, a := range g.retired {
		a.Dispose(ctx)
	}
	g.retired = nil
	for _, a := range g.attributes {
		a.Dispose(ctx)
	}
	for _, set := range g.morphAttributes {
		for _, a := range set {
			a.Dispose(ctx)
		}
	}
}
