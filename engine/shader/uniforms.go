package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/resources"
)

type UniformType int

const (
	UniformTypeFloat UniformType = iota
	UniformTypeInt
	UniformTypeVec2
	UniformTypeVec3
	UniformTypeVec4
	UniformTypeMat3
	UniformTypeMat4
	UniformTypeFloatArray
	UniformTypeVec4Array
	UniformTypeMat4Array
	UniformTypeTexture
	UniformTypeStructArray
)

// TextureUnits hands out texture units while uniforms are loaded.
type TextureUnits interface {
	AllocateTextureUnit() int
}

/** @brief One element of a struct array uniform: named fields. */
type UniformStruct []*Uniform

/** @brief A named uniform value and its needs-update flag. */
type Uniform struct {
	Name        string
	Type        UniformType
	NeedsUpdate bool

	i       int32
	floats  []float32
	texture *resources.Texture
	structs []UniformStruct
}

func NewUniform(name string, typ UniformType) *Uniform {
	u := &Uniform{Name: name, Type: typ, NeedsUpdate: true}
	switch typ {
	case UniformTypeFloat:
		u.floats = make([]float32, 1)
	case UniformTypeVec2:
		u.floats = make([]float32, 2)
	case UniformTypeVec3:
		u.floats = make([]float32, 3)
	case UniformTypeVec4:
		u.floats = make([]float32, 4)
	case UniformTypeMat3:
		m := mgl32.Ident3()
		u.floats = m[:]
	case UniformTypeMat4:
		m := mgl32.Ident4()
		u.floats = m[:]
	}
	return u
}

func (u *Uniform) SetFloat(v float32) *Uniform {
	u.floats = []float32{v}
	return u
}

func (u *Uniform) SetInt(v int32) *Uniform {
	u.i = v
	return u
}

func (u *Uniform) SetVec2(v mgl32.Vec2) *Uniform {
	u.floats = []float32{v[0], v[1]}
	return u
}

func (u *Uniform) SetVec3(v mgl32.Vec3) *Uniform {
	u.floats = []float32{v[0], v[1], v[2]}
	return u
}

func (u *Uniform) SetVec4(v mgl32.Vec4) *Uniform {
	u.floats = []float32{v[0], v[1], v[2], v[3]}
	return u
}

func (u *Uniform) SetMat3(m mgl32.Mat3) *Uniform {
	u.floats = append(u.floats[:0], m[:]...)
	return u
}

func (u *Uniform) SetMat4(m mgl32.Mat4) *Uniform {
	u.floats = append(u.floats[:0], m[:]...)
	return u
}

// SetFloats stores a packed float, vec4 or mat4 array.
func (u *Uniform) SetFloats(v []float32) *Uniform {
	u.floats = append(u.floats[:0], v...)
	return u
}

func (u *Uniform) SetTexture(t *resources.Texture) *Uniform {
	u.texture = t
	return u
}

func (u *Uniform) SetStructs(s []UniformStruct) *Uniform {
	u.structs = s
	return u
}

func (u *Uniform) Float() float32 {
	if len(u.floats) == 0 {
		return 0
	}
	return u.floats[0]
}

func (u *Uniform) Int() int32                  { return u.i }
func (u *Uniform) Floats() []float32           { return u.floats }
func (u *Uniform) Texture() *resources.Texture { return u.texture }
func (u *Uniform) Structs() []UniformStruct    { return u.structs }

// Field returns the named field of a struct element.
func (s UniformStruct) Field(name string) *Uniform {
	for _, f := range s {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Clone deep copies the uniform.
func (u *Uniform) Clone() *Uniform {
	c := *u
	c.floats = append([]float32(nil), u.floats...)
	if u.structs != nil {
		c.structs = make([]UniformStruct, len(u.structs))
		for i, s := range u.structs {
			fields := make(UniformStruct, len(s))
			for j, f := range s {
				fields[j] = f.Clone()
			}
			c.structs[i] = fields
		}
	}
	return &c
}

// Load pushes the value to the program. Names the program does not use are
// skipped silently.
func (u *Uniform) Load(dev gpu.Device, p *Program, units TextureUnits) {
	if u.Type == UniformTypeStructArray {
		for i, s := range u.structs {
			for _, f := range s {
				f.loadAt(dev, p, fmt.Sprintf("%s[%d].%s", u.Name, i, f.Name), units)
			}
		}
		return
	}
	name := u.Name
	switch u.Type {
	case UniformTypeFloatArray, UniformTypeVec4Array, UniformTypeMat4Array:
		name += "[0]"
	}
	u.loadAt(dev, p, name, units)
}

func (u *Uniform) loadAt(dev gpu.Device, p *Program, name string, units TextureUnits) {
	loc := p.UniformLocation(dev, name)
	if loc < 0 {
		return
	}
	switch u.Type {
	case UniformTypeFloat:
		dev.Uniform1f(loc, u.Float())
	case UniformTypeInt:
		dev.Uniform1i(loc, u.i)
	case UniformTypeVec2:
		dev.Uniform2f(loc, u.floats[0], u.floats[1])
	case UniformTypeVec3:
		dev.Uniform3f(loc, u.floats[0], u.floats[1], u.floats[2])
	case UniformTypeVec4:
		dev.Uniform4f(loc, u.floats[0], u.floats[1], u.floats[2], u.floats[3])
	case UniformTypeMat3:
		dev.UniformMatrix3fv(loc, u.floats)
	case UniformTypeMat4, UniformTypeMat4Array:
		dev.UniformMatrix4fv(loc, u.floats)
	case UniformTypeFloatArray:
		dev.Uniform1fv(loc, u.floats)
	case UniformTypeVec4Array:
		dev.Uniform4fv(loc, u.floats)
	case UniformTypeTexture:
		unit := units.AllocateTextureUnit()
		dev.Uniform1i(loc, int32(unit))
		if u.texture != nil {
			u.texture.Bind(dev, unit)
		}
	}
}

/** @brief An ordered uniform table. */
type Uniforms struct {
	list   []*Uniform
	lookup map[string]*Uniform
}

func NewUniforms(uniforms ...*Uniform) *Uniforms {
	us := &Uniforms{lookup: make(map[string]*Uniform)}
	for _, u := range uniforms {
		us.Add(u)
	}
	return us
}

// Add inserts or replaces a uniform by name.
func (us *Uniforms) Add(u *Uniform) {
	if old, ok := us.lookup[u.Name]; ok {
		for i, o := range us.list {
			if o == old {
				us.list[i] = u
			}
		}
	} else {
		us.list = append(us.list, u)
	}
	us.lookup[u.Name] = u
}

// Merge adds every uniform of other not already present.
func (us *Uniforms) Merge(other *Uniforms) {
	if other == nil {
		return
	}
	for _, u := range other.list {
		if _, ok := us.lookup[u.Name]; !ok {
			us.Add(u.Clone())
		}
	}
}

func (us *Uniforms) Get(name string) *Uniform {
	return us.lookup[name]
}

func (us *Uniforms) Has(name string) bool {
	_, ok := us.lookup[name]
	return ok
}

func (us *Uniforms) Len() int {
	return len(us.list)
}

// List returns uniforms in insertion order.
func (us *Uniforms) List() []*Uniform {
	return us.list
}

func (us *Uniforms) Clone() *Uniforms {
	c := NewUniforms()
	for _, u := range us.list {
		c.Add(u.Clone())
	}
	return c
}

// Load pushes every uniform flagged for update.
func (us *Uniforms) Load(dev gpu.Device, p *Program, units TextureUnits) {
	for _, u := range us.list {
		if u.NeedsUpdate {
			u.Load(dev, p, units)
		}
	}
}
