package material

import (
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/shader"
)

/**
 * @brief A material driven by a caller supplied shader. Its uniform table is
 * the shader's own, so values set on it reach the GPU without copying.
 */
type ShaderMaterial struct {
	Base
	MeshBase

	shader         *shader.Shader
	lights         bool
	MapEncoding    metadata.Encoding
	EnvMapEncoding metadata.Encoding
}

func NewShaderMaterial(s *shader.Shader) *ShaderMaterial {
	m := &ShaderMaterial{Base: NewBase(), shader: s}
	m.MeshBase = newMeshBase(&m.Base)
	return m
}

func (m *ShaderMaterial) ShaderID() string { return m.shader.ID }

func (m *ShaderMaterial) Shader() *shader.Shader { return m.shader }

func (m *ShaderMaterial) Mesh() *MeshBase { return &m.MeshBase }

// Uniforms is the table shared with the shader.
func (m *ShaderMaterial) Uniforms() *shader.Uniforms { return m.shader.Uniforms }

func (m *ShaderMaterial) SetLights(lights bool) {
	m.lights = lights
	m.needsUpdate = true
}

func (m *ShaderMaterial) SetParams(params *shader.ProgramParameters) {
	params.MapEncoding = m.MapEncoding
	params.EnvMapEncoding = m.EnvMapEncoding
	m.Base.SetParams(params)
}

func (m *ShaderMaterial) SetUniforms(uniforms *shader.Uniforms) {}

func (m *ShaderMaterial) NeedsLights() bool     { return m.lights }
func (m *ShaderMaterial) NeedsViewMatrix() bool { return true }
func (m *ShaderMaterial) NeedsCameraPos() bool  { return true }
