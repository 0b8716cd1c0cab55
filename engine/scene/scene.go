package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/resources"
)

/**
 * @brief Root of a scene tree. A background color forces a clear with that
 * color, a background texture (2D or cube) is drawn behind everything else.
 */
type Scene struct {
	Object

	BackgroundTexture *resources.Texture
	// OverrideMaterial, when set, replaces every item's material.
	OverrideMaterial material.Material

	background    mgl32.Vec4
	hasBackground bool
}

func NewScene() *Scene {
	s := &Scene{}
	s.Object = newObject(s)
	return s
}

func (s *Scene) Kind() NodeKind { return NodeKindScene }

func (s *Scene) SetBackgroundColor(color mgl32.Vec4) {
	s.background = color
	s.hasBackground = true
}

func (s *Scene) ClearBackgroundColor() {
	s.hasBackground = false
}

// BackgroundColor reports the color and whether one is set.
func (s *Scene) BackgroundColor() (mgl32.Vec4, bool) {
	return s.background, s.hasBackground
}
