package material

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/shader"
)

type LineBasicMaterial struct {
	Base

	color     mgl32.Vec3
	lineWidth float32
}

func NewLineBasicMaterial() *LineBasicMaterial {
	return &LineBasicMaterial{
		Base:      NewBase(),
		color:     mgl32.Vec3{1, 1, 1},
		lineWidth: 1,
	}
}

func (m *LineBasicMaterial) ShaderID() string { return shader.ShaderLine }

func (m *LineBasicMaterial) Color() mgl32.Vec3 { return m.color }

func (m *LineBasicMaterial) SetColor(c mgl32.Vec3) {
	m.color = c
	m.needsUpdate = true
}

func (m *LineBasicMaterial) LineWidth() float32 { return m.lineWidth }

func (m *LineBasicMaterial) SetLineWidth(width float32) {
	m.lineWidth = width
	m.needsUpdate = true
}

func (m *LineBasicMaterial) SetUniforms(uniforms *shader.Uniforms) {
	m.Base.SetUniforms(uniforms)
	if u := uniforms.Get("diffuse"); u != nil {
		u.SetVec3(m.color)
	}
}
