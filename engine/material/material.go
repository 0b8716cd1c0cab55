package material

import (
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/shader"
)

// Material is the capability set the renderer needs from every material
// kind.
type Material interface {
	Common() *Base
	ShaderID() string
	// SetParams contributes the material's features to the program variant.
	SetParams(params *shader.ProgramParameters)
	// SetUniforms writes the material's values into its resolved uniform table.
	SetUniforms(uniforms *shader.Uniforms)
	NeedsLights() bool
	NeedsViewMatrix() bool
	NeedsCameraPos() bool
}

// MeshMaterial is implemented by materials that can draw meshes, and so
// carry wireframe, skinning and morph options.
type MeshMaterial interface {
	Material
	Mesh() *MeshBase
}

// ShaderProvider is implemented by materials that bring their own shader
// instead of a library one.
type ShaderProvider interface {
	Shader() *shader.Shader
}

/** @brief GPU binding cache kept on a material across frames. */
type RuntimeState struct {
	Program *shader.Program
	// LightHash the program was built for.
	LightHash metadata.LightHash
	// Generation of the shader source the program was built from.
	Generation uint64
	Uniforms   *shader.Uniforms
}

/** @brief Properties shared by every material kind. */
type Base struct {
	Name string

	visible             bool
	transparent         bool
	opacity             float32
	blend               metadata.Blend
	side                metadata.Side
	depthTest           bool
	depthWrite          bool
	polygonOffset       bool
	polygonOffsetFactor float32
	polygonOffsetUnits  float32
	alphaTest           float32
	vertexColors        bool
	needsUpdate         bool

	runtime RuntimeState
}

func NewBase() Base {
	return Base{
		visible:     true,
		opacity:     1,
		blend:       metadata.DefaultBlend(),
		side:        metadata.SideFront,
		depthTest:   true,
		depthWrite:  true,
		needsUpdate: true,
		runtime:     RuntimeState{LightHash: metadata.InvalidLightHash},
	}
}

func (b *Base) Common() *Base { return b }

// Runtime exposes the binding cache to the renderer.
func (b *Base) Runtime() *RuntimeState { return &b.runtime }

func (b *Base) NeedsUpdate() bool { return b.needsUpdate }

func (b *Base) SetNeedsUpdate(needsUpdate bool) { b.needsUpdate = needsUpdate }

func (b *Base) Visible() bool { return b.visible }

func (b *Base) SetVisible(visible bool) {
	b.visible = visible
	b.needsUpdate = true
}

func (b *Base) Transparent() bool { return b.transparent }

func (b *Base) SetTransparent(transparent bool) {
	b.transparent = transparent
	b.needsUpdate = true
}

func (b *Base) Opacity() float32 { return b.opacity }

func (b *Base) SetOpacity(opacity float32) {
	b.opacity = opacity
	b.needsUpdate = true
}

func (b *Base) Blend() metadata.Blend { return b.blend }

// SetBlendMode selects a preset. The explicit equation and factors are kept
// for a later return to custom.
func (b *Base) SetBlendMode(mode metadata.BlendMode) {
	b.blend.Mode = mode
	b.needsUpdate = true
}

// SetBlend sets the mode with explicit equation and factors.
func (b *Base) SetBlend(blend metadata.Blend) {
	b.blend = blend
	b.needsUpdate = true
}

func (b *Base) Side() metadata.Side { return b.side }

func (b *Base) SetSide(side metadata.Side) {
	b.side = side
	b.needsUpdate = true
}

func (b *Base) DepthTest() bool { return b.depthTest }

func (b *Base) SetDepthTest(depthTest bool) {
	b.depthTest = depthTest
	b.needsUpdate = true
}

func (b *Base) DepthWrite() bool { return b.depthWrite }

func (b *Base) SetDepthWrite(depthWrite bool) {
	b.depthWrite = depthWrite
	b.needsUpdate = true
}

// PolygonOffset returns whether the offset is enabled and its factor and units.
func (b *Base) PolygonOffset() (bool, float32, float32) {
	return b.polygonOffset, b.polygonOffsetFactor, b.polygonOffsetUnits
}

func (b *Base) SetPolygonOffset(enabled bool, factor, units float32) {
	b.polygonOffset = enabled
	b.polygonOffsetFactor = factor
	b.polygonOffsetUnits = units
	b.needsUpdate = true
}

func (b *Base) AlphaTest() float32 { return b.alphaTest }

func (b *Base) SetAlphaTest(alphaTest float32) {
	b.alphaTest = alphaTest
	b.needsUpdate = true
}

func (b *Base) VertexColors() bool { return b.vertexColors }

func (b *Base) SetVertexColors(vertexColors bool) {
	if b.vertexColors == vertexColors {
		return
	}
	b.vertexColors = vertexColors
	b.needsUpdate = true
}

// SetParams fills the parameters every kind shares.
func (b *Base) SetParams(params *shader.ProgramParameters) {
	params.DoubleSided = b.side == metadata.SideDouble
	params.FlipSided = b.side == metadata.SideBack
	a := b.alphaTest*255 + 0.5
	switch {
	case a < 0:
		params.AlphaTest = 0
	case a > 255:
		params.AlphaTest = 255
	default:
		params.AlphaTest = uint8(a)
	}
	params.VertexColors = b.vertexColors
}

// SetUniforms writes the uniforms every kind shares.
func (b *Base) SetUniforms(uniforms *shader.Uniforms) {
	if u := uniforms.Get("opacity"); u != nil {
		u.SetFloat(b.opacity)
	}
}

func (b *Base) NeedsLights() bool     { return false }
func (b *Base) NeedsViewMatrix() bool { return false }
func (b *Base) NeedsCameraPos() bool  { return false }
