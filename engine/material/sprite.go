package material

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/shader"
)

// SpriteMaterial draws camera facing quads. It is transparent by default.
type SpriteMaterial struct {
	Base

	color           mgl32.Vec3
	mapTexture      *resources.Texture
	rotation        float32
	sizeAttenuation bool
}

func NewSpriteMaterial() *SpriteMaterial {
	m := &SpriteMaterial{
		Base:            NewBase(),
		color:           mgl32.Vec3{1, 1, 1},
		sizeAttenuation: true,
	}
	m.transparent = true
	return m
}

func (m *SpriteMaterial) ShaderID() string { return shader.ShaderSprite }

func (m *SpriteMaterial) Color() mgl32.Vec3 { return m.color }

func (m *SpriteMaterial) SetColor(c mgl32.Vec3) {
	m.color = c
	m.needsUpdate = true
}

func (m *SpriteMaterial) Map() *resources.Texture { return m.mapTexture }

func (m *SpriteMaterial) SetMap(t *resources.Texture) {
	m.mapTexture = t
	m.needsUpdate = true
}

func (m *SpriteMaterial) Rotation() float32 { return m.rotation }

func (m *SpriteMaterial) SetRotation(r float32) {
	m.rotation = r
	m.needsUpdate = true
}

func (m *SpriteMaterial) SizeAttenuation() bool { return m.sizeAttenuation }

func (m *SpriteMaterial) SetSizeAttenuation(on bool) {
	m.sizeAttenuation = on
	m.needsUpdate = true
}

func (m *SpriteMaterial) SetParams(params *shader.ProgramParameters) {
	params.Map = m.mapTexture != nil
	if params.Map {
		params.MapEncoding = m.mapTexture.Encoding
	}
	params.SizeAttenuation = m.sizeAttenuation
	m.Base.SetParams(params)
}

func (m *SpriteMaterial) SetUniforms(uniforms *shader.Uniforms) {
	m.Base.SetUniforms(uniforms)
	if u := uniforms.Get("diffuse"); u != nil {
		u.SetVec3(m.color)
	}
	if u := uniforms.Get("map"); u != nil {
		u.SetTexture(m.mapTexture)
	}
	if u := uniforms.Get("rotation"); u != nil {
		u.SetFloat(m.rotation)
	}
}
