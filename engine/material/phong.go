package material

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/shader"
)

// MeshPhongMaterial is lit with Blinn-Phong specular highlights.
type MeshPhongMaterial struct {
	Base
	MeshBase
	surface

	emissive    mgl32.Vec3
	specular    mgl32.Vec3
	shininess   float32
	flatShading bool
}

func NewMeshPhongMaterial() *MeshPhongMaterial {
	m := &MeshPhongMaterial{
		Base:      NewBase(),
		specular:  mgl32.Vec3{0.0667, 0.0667, 0.0667},
		shininess: 30,
	}
	m.MeshBase = newMeshBase(&m.Base)
	m.surface = newSurface(&m.Base)
	return m
}

func (m *MeshPhongMaterial) ShaderID() string { return shader.ShaderPhong }

func (m *MeshPhongMaterial) Mesh() *MeshBase { return &m.MeshBase }

func (m *MeshPhongMaterial) Emissive() mgl32.Vec3 { return m.emissive }

func (m *MeshPhongMaterial) SetEmissive(c mgl32.Vec3) {
	m.emissive = c
	m.needsUpdate = true
}

func (m *MeshPhongMaterial) Specular() mgl32.Vec3 { return m.specular }

func (m *MeshPhongMaterial) SetSpecular(c mgl32.Vec3) {
	m.specular = c
	m.needsUpdate = true
}

func (m *MeshPhongMaterial) Shininess() float32 { return m.shininess }

func (m *MeshPhongMaterial) SetShininess(s float32) {
	m.shininess = s
	m.needsUpdate = true
}

func (m *MeshPhongMaterial) FlatShading() bool { return m.flatShading }

func (m *MeshPhongMaterial) SetFlatShading(flat bool) {
	if m.flatShading == flat {
		return
	}
	m.flatShading = flat
	m.needsUpdate = true
}

func (m *MeshPhongMaterial) SetParams(params *shader.ProgramParameters) {
	m.surface.setParams(params)
	params.FlatShading = m.flatShading
	m.Base.SetParams(params)
}

func (m *MeshPhongMaterial) SetUniforms(uniforms *shader.Uniforms) {
	m.Base.SetUniforms(uniforms)
	m.surface.setUniforms(uniforms)
	if u := uniforms.Get("emissive"); u != nil {
		u.SetVec3(m.emissive)
	}
	if u := uniforms.Get("specular"); u != nil {
		u.SetVec3(m.specular)
	}
	// pow(0, 0) is undefined in the shader
	if u := uniforms.Get("shininess"); u != nil {
		u.SetFloat(math.Max(m.shininess, 1e-4))
	}
}

func (m *MeshPhongMaterial) NeedsLights() bool     { return true }
func (m *MeshPhongMaterial) NeedsViewMatrix() bool { return true }
func (m *MeshPhongMaterial) NeedsCameraPos() bool  { return true }
