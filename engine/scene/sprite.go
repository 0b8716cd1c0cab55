package scene

import (
	"github.com/chewxy/math32"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/resources"
)

// NewSpriteGeometry builds the unit quad sprites draw. Each renderer keeps
// its own, since buffers belong to one context.
func NewSpriteGeometry() *resources.Geometry {
	g := resources.NewGeometry()
	g.SetAttribute(resources.AttributePosition, resources.NewFloatAttribute([]float32{
		-0.5, -0.5, 0, 0.5, -0.5, 0, 0.5, 0.5, 0, -0.5, 0.5, 0,
	}, 3))
	g.SetAttribute(resources.AttributeUV, resources.NewFloatAttribute([]float32{
		0, 0, 1, 0, 1, 1, 0, 1,
	}, 2))
	g.SetIndex(resources.NewUint16Attribute([]uint16{0, 1, 2, 0, 2, 3}, 1))
	return g
}

/** @brief A camera facing quad. */
type Sprite struct {
	Object

	Material *material.SpriteMaterial
}

func NewSprite(mat *material.SpriteMaterial) *Sprite {
	if mat == nil {
		mat = material.NewSpriteMaterial()
	}
	s := &Sprite{Material: mat}
	s.Object = newObject(s)
	return s
}

func (s *Sprite) Kind() NodeKind { return NodeKindSprite }

// WorldBoundingSphere encloses the quad in any orientation.
func (s *Sprite) WorldBoundingSphere() math.Sphere {
	return math.Sphere{
		Center: s.WorldPosition(),
		Radius: math32.Sqrt(0.5) * math.MaxScaleOnAxis(s.world),
	}
}

// Update has nothing to upload, the quad is realized when drawn.
func (s *Sprite) Update(dev gpu.Device) {}

func (s *Sprite) FillRenderList(sink RenderSink) {
	sink.Push(s, sink.SpriteGeometry(), s.Material, nil)
}
