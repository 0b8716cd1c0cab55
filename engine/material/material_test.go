package material

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ MeshMaterial   = (*MeshBasicMaterial)(nil)
	_ MeshMaterial   = (*MeshPhongMaterial)(nil)
	_ MeshMaterial   = (*ShaderMaterial)(nil)
	_ Material       = (*LineBasicMaterial)(nil)
	_ Material       = (*SpriteMaterial)(nil)
	_ ShaderProvider = (*ShaderMaterial)(nil)
)

func TestBaseDefaults(t *testing.T) {
	m := NewMeshBasicMaterial()
	b := m.Common()
	assert.True(t, b.NeedsUpdate())
	assert.True(t, b.Visible())
	assert.True(t, b.DepthTest())
	assert.True(t, b.DepthWrite())
	assert.Equal(t, float32(1), b.Opacity())
	assert.Equal(t, metadata.BlendModeNormal, b.Blend().Mode)
	assert.Equal(t, metadata.InvalidLightHash, b.Runtime().LightHash)
	assert.False(t, m.NeedsLights())
}

func TestSettersMarkDirty(t *testing.T) {
	m := NewMeshPhongMaterial()
	b := m.Common()

	setters := map[string]func(){
		"opacity":      func() { b.SetOpacity(0.5) },
		"transparent":  func() { b.SetTransparent(true) },
		"side":         func() { b.SetSide(metadata.SideDouble) },
		"blend":        func() { b.SetBlendMode(metadata.BlendModeAdditive) },
		"depth":        func() { b.SetDepthWrite(false) },
		"offset":       func() { b.SetPolygonOffset(true, 1, 2) },
		"alpha":        func() { b.SetAlphaTest(0.5) },
		"wireframe":    func() { m.SetWireframe(true) },
		"morph":        func() { m.SetMorphTargets(true) },
		"shininess":    func() { m.SetShininess(10) },
		"flat":         func() { m.SetFlatShading(true) },
		"color":        func() { m.SetColor(mgl32.Vec3{1, 0, 0}) },
		"vertexColors": func() { b.SetVertexColors(true) },
	}
	for name, set := range setters {
		b.SetNeedsUpdate(false)
		set()
		assert.True(t, b.NeedsUpdate(), name)
	}

	// unchanged values stay clean
	b.SetNeedsUpdate(false)
	m.SetFlatShading(true)
	b.SetVertexColors(true)
	assert.False(t, b.NeedsUpdate())
}

func TestPhongParamsAndUniforms(t *testing.T) {
	m := NewMeshPhongMaterial()
	m.SetSide(metadata.SideBack)
	m.SetAlphaTest(0.5)
	m.SetShininess(0)
	tex := resources.NewTexture(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	tex.Encoding = metadata.EncodingSRGB
	m.SetMap(tex)

	var params shader.ProgramParameters
	m.SetParams(&params)
	assert.True(t, params.FlipSided)
	assert.False(t, params.DoubleSided)
	assert.Equal(t, uint8(128), params.AlphaTest)
	assert.True(t, params.Map)
	assert.Equal(t, metadata.EncodingSRGB, params.MapEncoding)
	assert.False(t, params.EnvMap)

	lib, err := shader.NewLibrary()
	require.NoError(t, err)
	s, err := lib.Get(m.ShaderID())
	require.NoError(t, err)
	m.SetOpacity(0.25)
	m.SetUniforms(s.Uniforms)
	assert.Equal(t, float32(1e-4), s.Uniforms.Get("shininess").Float())
	assert.Equal(t, float32(0.25), s.Uniforms.Get("opacity").Float())
	assert.Same(t, tex, s.Uniforms.Get("map").Texture())
	assert.True(t, m.NeedsLights())
	assert.True(t, m.NeedsViewMatrix())
}

func TestBasicEnvMapNeedsCamera(t *testing.T) {
	m := NewMeshBasicMaterial()
	assert.False(t, m.NeedsCameraPos())

	var faces [6]image.Image
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	m.SetEnvMap(resources.NewCubeTexture(faces))
	m.SetCombine(metadata.OperationMix)
	assert.True(t, m.NeedsCameraPos())

	var params shader.ProgramParameters
	m.SetParams(&params)
	assert.True(t, params.EnvMap)
	assert.Equal(t, metadata.MappingCubeReflection, params.EnvMapMode)
	assert.Equal(t, metadata.OperationMix, params.EnvMapCombine)

	us := shader.NewUniforms(shader.NewUniform("flipEnvMap", shader.UniformTypeFloat))
	m.SetUniforms(us)
	assert.Equal(t, float32(-1), us.Get("flipEnvMap").Float())
}

func TestSpriteIsTransparent(t *testing.T) {
	m := NewSpriteMaterial()
	assert.True(t, m.Transparent())
	var params shader.ProgramParameters
	m.SetParams(&params)
	assert.True(t, params.SizeAttenuation)
}

func TestShaderMaterialSharesUniforms(t *testing.T) {
	s := shader.NewShader("custom", "void main() {}", "void main() {}", shader.NewUniforms(
		shader.NewUniform("time", shader.UniformTypeFloat),
	))
	m := NewShaderMaterial(s)
	m.Uniforms().Get("time").SetFloat(3)
	assert.Equal(t, float32(3), s.Uniforms.Get("time").Float())
	assert.Equal(t, "custom", m.ShaderID())
	assert.False(t, m.NeedsLights())
	m.SetLights(true)
	assert.True(t, m.NeedsLights())
}
