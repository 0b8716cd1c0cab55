package headless

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

/** @brief A single recorded device call. */
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

type program struct {
	vertex     string
	fragment   string
	attributes map[string]int32
	uniforms   map[string]bool
	locations  map[string]int32
}

// Device implements gpu.Device without a GPU. Every call is appended to the
// call log, which makes the renderer's command stream observable.
type Device struct {
	// FailProgram, when set, is consulted on every CreateProgram.
	FailProgram func(vertex, fragment string) error

	mutex       sync.Mutex
	calls       []Call
	caps        gpu.Capabilities
	nextHandle  uint32
	programs    map[gpu.Program]*program
	framebuffer gpu.Framebuffer
	deleted     map[string]int
}

func New() *Device {
	return &Device{
		caps: gpu.Capabilities{
			MaxTextures:       16,
			MaxVertexTextures: 16,
			MaxTextureSize:    4096,
			MaxCubemapSize:    4096,
			FloatTextures:     true,
			MinLineWidth:      1,
			MaxLineWidth:      10,
		},
		programs: make(map[gpu.Program]*program),
		deleted:  make(map[string]int),
	}
}

// SetCapabilities overrides the reported limits.
func (d *Device) SetCapabilities(caps gpu.Capabilities) {
	d.caps = caps
}

func (d *Device) record(name string, args ...interface{}) {
	d.mutex.Lock()
	d.calls = append(d.calls, Call{Name: name, Args: args})
	d.mutex.Unlock()
}

// Calls returns a copy of the call log.
func (d *Device) Calls() []Call {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

// CallsNamed returns the recorded calls with the given name, in order.
func (d *Device) CallsNamed(name string) []Call {
	var out []Call
	for _, c := range d.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (d *Device) Count(name string) int {
	return len(d.CallsNamed(name))
}

// Reset empties the call log. Created objects survive.
func (d *Device) Reset() {
	d.mutex.Lock()
	d.calls = nil
	d.mutex.Unlock()
}

// Deleted reports how many objects of a kind ("program", "buffer",
// "texture", "framebuffer", "renderbuffer", "vertexarray") were deleted.
func (d *Device) Deleted(kind string) int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.deleted[kind]
}

// Dump formats the call log one call per line.
func (d *Device) Dump() string {
	var b strings.Builder
	for _, c := range d.Calls() {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (d *Device) handle() uint32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) markDeleted(kind string) {
	d.mutex.Lock()
	d.deleted[kind]++
	d.mutex.Unlock()
}

func (d *Device) Capabilities() gpu.Capabilities { return d.caps }

func (d *Device) Enable(c metadata.Capability)   { d.record("Enable", c) }
func (d *Device) Disable(c metadata.Capability)  { d.record("Disable", c) }
func (d *Device) FrontFace(f metadata.FrontFace) { d.record("FrontFace", f) }

func (d *Device) CullFace(mode metadata.FaceCullMode) { d.record("CullFace", mode) }
func (d *Device) DepthFunc(f metadata.DepthFunc)      { d.record("DepthFunc", f) }
func (d *Device) DepthMask(write bool)                { d.record("DepthMask", write) }
func (d *Device) LineWidth(width float32)             { d.record("LineWidth", width) }

func (d *Device) PolygonOffset(factor, units float32) { d.record("PolygonOffset", factor, units) }

func (d *Device) BlendEquation(eq metadata.BlendEquation) { d.record("BlendEquation", eq) }

func (d *Device) BlendEquationSeparate(rgb, alpha metadata.BlendEquation) {
	d.record("BlendEquationSeparate", rgb, alpha)
}

func (d *Device) BlendFunc(src, dst metadata.BlendFactor) { d.record("BlendFunc", src, dst) }

func (d *Device) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha metadata.BlendFactor) {
	d.record("BlendFuncSeparate", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (d *Device) ClearColor(r, g, b, a float32) { d.record("ClearColor", r, g, b, a) }
func (d *Device) ClearDepth(depth float32)      { d.record("ClearDepth", depth) }
func (d *Device) ClearStencil(s int32)          { d.record("ClearStencil", s) }
func (d *Device) Clear(flags metadata.ClearFlags) {
	d.record("Clear", flags)
}

func (d *Device) Viewport(x, y, width, height int32) { d.record("Viewport", x, y, width, height) }

func (d *Device) CreateProgram(vertexSource, fragmentSource string) (gpu.Program, error) {
	if d.FailProgram != nil {
		if err := d.FailProgram(vertexSource, fragmentSource); err != nil {
			return 0, fmt.Errorf("%w: %s", core.ErrProgramLink, err.Error())
		}
	}
	p := gpu.Program(d.handle())
	vs := Preprocess(vertexSource)
	fs := Preprocess(fragmentSource)

	prog := &program{
		vertex:     vs,
		fragment:   fs,
		attributes: make(map[string]int32),
		uniforms:   make(map[string]bool),
		locations:  make(map[string]int32),
	}
	for i, name := range declarations(vs, "in") {
		prog.attributes[name] = int32(i)
	}
	for _, src := range []string{vs, fs} {
		for _, name := range declarations(src, "uniform") {
			prog.uniforms[name] = true
		}
	}

	d.mutex.Lock()
	d.programs[p] = prog
	d.mutex.Unlock()
	d.record("CreateProgram", p)
	return p, nil
}

// ProgramSource returns the preprocessed stages of a program.
func (d *Device) ProgramSource(p gpu.Program) (string, string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if prog, ok := d.programs[p]; ok {
		return prog.vertex, prog.fragment
	}
	return "", ""
}

func (d *Device) DeleteProgram(p gpu.Program) {
	d.mutex.Lock()
	delete(d.programs, p)
	d.mutex.Unlock()
	d.markDeleted("program")
	d.record("DeleteProgram", p)
}

func (d *Device) UseProgram(p gpu.Program) { d.record("UseProgram", p) }

func (d *Device) ActiveAttributes(p gpu.Program) map[string]int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make(map[string]int32)
	if prog, ok := d.programs[p]; ok {
		for k, v := range prog.attributes {
			out[k] = v
		}
	}
	return out
}

// UniformLocation resolves "name", "name[i]" and "name[i].field" against
// the uniforms the preprocessed program declares.
func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.calls = append(d.calls, Call{Name: "UniformLocation", Args: []interface{}{p, name}})
	prog, ok := d.programs[p]
	if !ok {
		return -1
	}
	base := name
	if i := strings.IndexAny(base, "[."); i >= 0 {
		base = base[:i]
	}
	if !prog.uniforms[base] {
		return -1
	}
	if loc, ok := prog.locations[name]; ok {
		return loc
	}
	loc := int32(len(prog.locations))
	prog.locations[name] = loc
	return loc
}

// UniformName maps a location handed out by UniformLocation back to its name.
func (d *Device) UniformName(p gpu.Program, location int32) string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if prog, ok := d.programs[p]; ok {
		for name, loc := range prog.locations {
			if loc == location {
				return name
			}
		}
	}
	return ""
}

func (d *Device) Uniform1i(location int32, v int32)   { d.record("Uniform1i", location, v) }
func (d *Device) Uniform1f(location int32, v float32) { d.record("Uniform1f", location, v) }

func (d *Device) Uniform1fv(location int32, v []float32) {
	d.record("Uniform1fv", location, append([]float32(nil), v...))
}

func (d *Device) Uniform2f(location int32, x, y float32) { d.record("Uniform2f", location, x, y) }

func (d *Device) Uniform3f(location int32, x, y, z float32) {
	d.record("Uniform3f", location, x, y, z)
}

func (d *Device) Uniform4f(location int32, x, y, z, w float32) {
	d.record("Uniform4f", location, x, y, z, w)
}

func (d *Device) Uniform4fv(location int32, v []float32) {
	d.record("Uniform4fv", location, append([]float32(nil), v...))
}

func (d *Device) UniformMatrix3fv(location int32, v []float32) {
	d.record("UniformMatrix3fv", location, append([]float32(nil), v...))
}

func (d *Device) UniformMatrix4fv(location int32, v []float32) {
	d.record("UniformMatrix4fv", location, append([]float32(nil), v...))
}

func (d *Device) CreateBuffer() gpu.Buffer {
	b := gpu.Buffer(d.handle())
	d.record("CreateBuffer", b)
	return b
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	d.markDeleted("buffer")
	d.record("DeleteBuffer", b)
}

func (d *Device) BindBuffer(target metadata.BufferTarget, b gpu.Buffer) {
	d.record("BindBuffer", target, b)
}

func (d *Device) BufferData(target metadata.BufferTarget, data interface{}, dynamic bool) {
	n := 0
	switch v := data.(type) {
	case []float32:
		n = len(v)
	case []uint16:
		n = len(v)
	case []uint32:
		n = len(v)
	}
	d.record("BufferData", target, n, dynamic)
}

func (d *Device) CreateVertexArray() gpu.VertexArray {
	vao := gpu.VertexArray(d.handle())
	d.record("CreateVertexArray", vao)
	return vao
}

func (d *Device) DeleteVertexArray(vao gpu.VertexArray) {
	d.markDeleted("vertexarray")
	d.record("DeleteVertexArray", vao)
}

func (d *Device) BindVertexArray(vao gpu.VertexArray) { d.record("BindVertexArray", vao) }

func (d *Device) EnableVertexAttribArray(location uint32) {
	d.record("EnableVertexAttribArray", location)
}

func (d *Device) DisableVertexAttribArray(location uint32) {
	d.record("DisableVertexAttribArray", location)
}

func (d *Device) VertexAttribPointer(location uint32, size int32, typ metadata.ElementType, normalized bool, stride int32, offset int) {
	d.record("VertexAttribPointer", location, size, typ, normalized, stride, offset)
}

func (d *Device) VertexAttrib4f(location uint32, x, y, z, w float32) {
	d.record("VertexAttrib4f", location, x, y, z, w)
}

func (d *Device) DrawArrays(mode metadata.DrawMode, first, count int32) {
	d.record("DrawArrays", mode, first, count)
}

func (d *Device) DrawElements(mode metadata.DrawMode, count int32, typ metadata.ElementType, offset int) {
	d.record("DrawElements", mode, count, typ, offset)
}

func (d *Device) CreateTexture() gpu.Texture {
	t := gpu.Texture(d.handle())
	d.record("CreateTexture", t)
	return t
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	d.markDeleted("texture")
	d.record("DeleteTexture", t)
}

func (d *Device) ActiveTexture(unit int) { d.record("ActiveTexture", unit) }

func (d *Device) BindTexture(target metadata.TextureTarget, t gpu.Texture) {
	d.record("BindTexture", target, t)
}

func (d *Device) TexImage2D(target metadata.TextureTarget, face int, width, height int32, format metadata.TextureFormat, pixels []byte) {
	d.record("TexImage2D", target, face, width, height, format, len(pixels))
}

func (d *Device) TexParameters(target metadata.TextureTarget, minFilter, magFilter metadata.TextureFilter, wrapS, wrapT metadata.TextureWrap, anisotropy float32) {
	d.record("TexParameters", target, minFilter, magFilter, wrapS, wrapT, anisotropy)
}

func (d *Device) GenerateMipmap(target metadata.TextureTarget) { d.record("GenerateMipmap", target) }

func (d *Device) CreateFramebuffer() gpu.Framebuffer {
	f := gpu.Framebuffer(d.handle())
	d.record("CreateFramebuffer", f)
	return f
}

func (d *Device) DeleteFramebuffer(f gpu.Framebuffer) {
	d.markDeleted("framebuffer")
	d.record("DeleteFramebuffer", f)
}

func (d *Device) BindFramebuffer(f gpu.Framebuffer) {
	d.framebuffer = f
	d.record("BindFramebuffer", f)
}

func (d *Device) FramebufferTexture2D(t gpu.Texture) { d.record("FramebufferTexture2D", t) }

func (d *Device) CreateRenderbuffer() gpu.Renderbuffer {
	r := gpu.Renderbuffer(d.handle())
	d.record("CreateRenderbuffer", r)
	return r
}

func (d *Device) DeleteRenderbuffer(r gpu.Renderbuffer) {
	d.markDeleted("renderbuffer")
	d.record("DeleteRenderbuffer", r)
}

func (d *Device) RenderbufferStorage(r gpu.Renderbuffer, depth, stencil bool, width, height int32) {
	d.record("RenderbufferStorage", r, depth, stencil, width, height)
}

func (d *Device) FramebufferRenderbuffer(r gpu.Renderbuffer, depth, stencil bool) {
	d.record("FramebufferRenderbuffer", r, depth, stencil)
}

func (d *Device) CheckFramebufferStatus() error {
	d.record("CheckFramebufferStatus")
	return nil
}

// Framebuffer returns the last bound framebuffer.
func (d *Device) Framebuffer() gpu.Framebuffer {
	return d.framebuffer
}
