package shader

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/gpu"
)

/** @brief A linked GPU program for one (shader, parameters) variant. */
type Program struct {
	ID         uint32
	Name       string
	Handle     gpu.Program
	ShaderID   string
	Parameters ProgramParameters
	// Generation of the shader source the program was built from.
	Generation uint64
	UsedTimes  int

	attributes map[string]int32
	locations  map[string]int32
}

func NewProgram(id uint32, name string, handle gpu.Program, shaderID string, params ProgramParameters, attributes map[string]int32) *Program {
	if attributes == nil {
		attributes = make(map[string]int32)
	}
	return &Program{
		ID:         id,
		Name:       name,
		Handle:     handle,
		ShaderID:   shaderID,
		Parameters: params,
		attributes: attributes,
		locations:  make(map[string]int32),
	}
}

// Attributes maps active vertex attribute names to locations.
func (p *Program) Attributes() map[string]int32 {
	return p.attributes
}

func (p *Program) AttributeLocation(name string) (int32, bool) {
	loc, ok := p.attributes[name]
	return loc, ok
}

// UniformLocation resolves and caches a uniform location, -1 when unused.
func (p *Program) UniformLocation(dev gpu.Device, name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := dev.UniformLocation(p.Handle, name)
	p.locations[name] = loc
	return loc
}

func (p *Program) SetMat4(dev gpu.Device, name string, m mgl32.Mat4) bool {
	loc := p.UniformLocation(dev, name)
	if loc < 0 {
		return false
	}
	dev.UniformMatrix4fv(loc, m[:])
	return true
}

func (p *Program) SetMat3(dev gpu.Device, name string, m mgl32.Mat3) bool {
	loc := p.UniformLocation(dev, name)
	if loc < 0 {
		return false
	}
	dev.UniformMatrix3fv(loc, m[:])
	return true
}

func (p *Program) SetVec3(dev gpu.Device, name string, v mgl32.Vec3) bool {
	loc := p.UniformLocation(dev, name)
	if loc < 0 {
		return false
	}
	dev.Uniform3f(loc, v[0], v[1], v[2])
	return true
}

// SetMat4Array uploads packed matrices starting at name.
func (p *Program) SetMat4Array(dev gpu.Device, name string, v []float32) bool {
	loc := p.UniformLocation(dev, name)
	if loc < 0 {
		return false
	}
	dev.UniformMatrix4fv(loc, v)
	return true
}

func (p *Program) SetFloatArray(dev gpu.Device, name string, v []float32) bool {
	loc := p.UniformLocation(dev, name)
	if loc < 0 {
		return false
	}
	dev.Uniform1fv(loc, v)
	return true
}
