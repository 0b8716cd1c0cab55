package material

import "github.com/spaghettifunk/vista/engine/shader"

// MeshBasicMaterial is unlit: color, map and environment map only.
type MeshBasicMaterial struct {
	Base
	MeshBase
	surface
}

func NewMeshBasicMaterial() *MeshBasicMaterial {
	m := &MeshBasicMaterial{Base: NewBase()}
	m.MeshBase = newMeshBase(&m.Base)
	m.surface = newSurface(&m.Base)
	return m
}

func (m *MeshBasicMaterial) ShaderID() string { return shader.ShaderBasic }

func (m *MeshBasicMaterial) Mesh() *MeshBase { return &m.MeshBase }

func (m *MeshBasicMaterial) SetParams(params *shader.ProgramParameters) {
	m.surface.setParams(params)
	m.Base.SetParams(params)
}

func (m *MeshBasicMaterial) SetUniforms(uniforms *shader.Uniforms) {
	m.Base.SetUniforms(uniforms)
	m.surface.setUniforms(uniforms)
}

// Environment mapping reads the camera position.
func (m *MeshBasicMaterial) NeedsCameraPos() bool { return m.envMap != nil }
