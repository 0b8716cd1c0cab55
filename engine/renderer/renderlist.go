package renderer

import (
	"sort"

	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
)

/** @brief One drawable surface for one frame. */
type RenderItem struct {
	Node     scene.Node
	Geometry *resources.Geometry
	Material material.Material
	// Group restricts the draw to a sub-range, nil draws the whole geometry.
	Group *resources.Group
	Z     float32
}

/**
 * @brief The frame's drawable items. Items are stored once; the buckets hold
 * indices into Items and every item is in exactly one bucket.
 */
type RenderList struct {
	Items       []RenderItem
	Opaque      []int
	Transparent []int
	Background  []int

	// CurrentZ is copied into every item pushed.
	CurrentZ float32
	// UseBackground routes pushes to the background bucket.
	UseBackground bool

	// spriteQuad is shared by every sprite this list sees. Its buffers live
	// on the owning renderer's context.
	spriteQuad *resources.Geometry
}

func NewRenderList() *RenderList {
	return &RenderList{}
}

// Init empties the list, keeping its storage.
func (l *RenderList) Init() {
	l.CurrentZ = 0
	l.UseBackground = false
	l.Items = l.Items[:0]
	l.Opaque = l.Opaque[:0]
	l.Transparent = l.Transparent[:0]
	l.Background = l.Background[:0]
}

func (l *RenderList) Push(node scene.Node, geometry *resources.Geometry, mat material.Material, group *resources.Group) {
	index := len(l.Items)
	l.Items = append(l.Items, RenderItem{
		Node:     node,
		Geometry: geometry,
		Material: mat,
		Group:    group,
		Z:        l.CurrentZ,
	})
	switch {
	case l.UseBackground:
		l.Background = append(l.Background, index)
	case mat.Common().Transparent():
		l.Transparent = append(l.Transparent, index)
	default:
		l.Opaque = append(l.Opaque, index)
	}
}

func (l *RenderList) Len() int { return len(l.Items) }

func (l *RenderList) SpriteGeometry() *resources.Geometry {
	if l.spriteQuad == nil {
		l.spriteQuad = scene.NewSpriteGeometry()
	}
	return l.spriteQuad
}

// Dispose releases the sprite quad's buffers on ctx.
func (l *RenderList) Dispose(ctx gpu.Context) {
	if l.spriteQuad != nil {
		l.spriteQuad.Dispose(ctx)
		l.spriteQuad = nil
	}
}

// Sort orders opaque items front to back and transparent items back to
// front. Equal depths fall back to node id, then to push order. The
// background bucket keeps push order.
func (l *RenderList) Sort() {
	sort.SliceStable(l.Opaque, func(i, j int) bool {
		a, b := &l.Items[l.Opaque[i]], &l.Items[l.Opaque[j]]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Node.Base().ID < b.Node.Base().ID
	})
	sort.SliceStable(l.Transparent, func(i, j int) bool {
		a, b := &l.Items[l.Transparent[i]], &l.Items[l.Transparent[j]]
		if a.Z != b.Z {
			return a.Z > b.Z
		}
		return a.Node.Base().ID < b.Node.Base().ID
	})
}
