package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

// EXT_texture_filter_anisotropic tokens, not part of the core profile.
const (
	textureMaxAnisotropyExt    = 0x84FE
	maxTextureMaxAnisotropyExt = 0x84FF
)

/** @brief OpenGL 4.1 core implementation of gpu.Device. */
type Device struct {
	caps       gpu.Capabilities
	extensions map[string]bool
}

// New loads the GL entry points. The context must already be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d := &Device{extensions: make(map[string]bool)}

	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		d.extensions[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = true
	}

	var v int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &v)
	d.caps.MaxTextures = int(v)
	gl.GetIntegerv(gl.MAX_VERTEX_TEXTURE_IMAGE_UNITS, &v)
	d.caps.MaxVertexTextures = int(v)
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &v)
	d.caps.MaxTextureSize = int(v)
	gl.GetIntegerv(gl.MAX_CUBE_MAP_TEXTURE_SIZE, &v)
	d.caps.MaxCubemapSize = int(v)
	if d.HasExtension("GL_EXT_texture_filter_anisotropic") || d.HasExtension("GL_ARB_texture_filter_anisotropic") {
		gl.GetFloatv(maxTextureMaxAnisotropyExt, &d.caps.MaxAnisotropy)
	}
	d.caps.FloatTextures = true

	var lineWidths [2]float32
	gl.GetFloatv(gl.ALIASED_LINE_WIDTH_RANGE, &lineWidths[0])
	d.caps.MinLineWidth, d.caps.MaxLineWidth = lineWidths[0], lineWidths[1]
	// Forward compatible contexts reject every width above 1.
	var flags int32
	gl.GetIntegerv(gl.CONTEXT_FLAGS, &flags)
	if flags&gl.CONTEXT_FLAG_FORWARD_COMPATIBLE_BIT != 0 && d.caps.MaxLineWidth > 1 {
		core.LogDebug("forward compatible context, line widths above 1 are drawn as 1")
		d.caps.MaxLineWidth = 1
	}

	core.LogInfo("OpenGL %s, GLSL %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))
	return d, nil
}

func (d *Device) HasExtension(name string) bool {
	return d.extensions[name]
}

func (d *Device) Capabilities() gpu.Capabilities {
	return d.caps
}

func (d *Device) Enable(c metadata.Capability)  { gl.Enable(capability(c)) }
func (d *Device) Disable(c metadata.Capability) { gl.Disable(capability(c)) }

func (d *Device) FrontFace(f metadata.FrontFace) {
	if f == metadata.FrontFaceCW {
		gl.FrontFace(gl.CW)
		return
	}
	gl.FrontFace(gl.CCW)
}

func (d *Device) CullFace(mode metadata.FaceCullMode) {
	switch mode {
	case metadata.FaceCullModeFront:
		gl.CullFace(gl.FRONT)
	case metadata.FaceCullModeFrontAndBack:
		gl.CullFace(gl.FRONT_AND_BACK)
	default:
		gl.CullFace(gl.BACK)
	}
}

func (d *Device) DepthFunc(f metadata.DepthFunc) { gl.DepthFunc(depthFunc(f)) }
func (d *Device) DepthMask(write bool)           { gl.DepthMask(write) }
func (d *Device) LineWidth(width float32)        { gl.LineWidth(width) }

func (d *Device) PolygonOffset(factor, units float32) { gl.PolygonOffset(factor, units) }

func (d *Device) BlendEquation(eq metadata.BlendEquation) { gl.BlendEquation(blendEquation(eq)) }

func (d *Device) BlendEquationSeparate(rgb, alpha metadata.BlendEquation) {
	gl.BlendEquationSeparate(blendEquation(rgb), blendEquation(alpha))
}

func (d *Device) BlendFunc(src, dst metadata.BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

func (d *Device) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha metadata.BlendFactor) {
	gl.BlendFuncSeparate(blendFactor(srcRGB), blendFactor(dstRGB), blendFactor(srcAlpha), blendFactor(dstAlpha))
}

func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (d *Device) ClearDepth(depth float32)      { gl.ClearDepth(float64(depth)) }
func (d *Device) ClearStencil(s int32)          { gl.ClearStencil(s) }

func (d *Device) Clear(flags metadata.ClearFlags) {
	var mask uint32
	if flags&metadata.ClearColor != 0 {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if flags&metadata.ClearDepth != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if flags&metadata.ClearStencil != 0 {
		mask |= gl.STENCIL_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) CreateProgram(vertexSource, fragmentSource string) (gpu.Program, error) {
	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, fmt.Errorf("fragment stage: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DetachShader(program, vs)
	gl.DeleteShader(vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", core.ErrProgramLink, strings.TrimRight(log, "\x00"))
	}
	return gpu.Program(program), nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", core.ErrProgramCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (d *Device) DeleteProgram(p gpu.Program) { gl.DeleteProgram(uint32(p)) }
func (d *Device) UseProgram(p gpu.Program)    { gl.UseProgram(uint32(p)) }

func (d *Device) ActiveAttributes(p gpu.Program) map[string]int32 {
	var count, maxLength int32
	gl.GetProgramiv(uint32(p), gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(uint32(p), gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)

	attributes := make(map[string]int32, count)
	buf := make([]uint8, maxLength+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(uint32(p), uint32(i), maxLength+1, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])
		attributes[name] = gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
	}
	return attributes
}

func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (d *Device) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (d *Device) Uniform1fv(location int32, v []float32) {
	if len(v) > 0 {
		gl.Uniform1fv(location, int32(len(v)), &v[0])
	}
}

func (d *Device) Uniform2f(location int32, x, y float32)    { gl.Uniform2f(location, x, y) }
func (d *Device) Uniform3f(location int32, x, y, z float32) { gl.Uniform3f(location, x, y, z) }

func (d *Device) Uniform4f(location int32, x, y, z, w float32) { gl.Uniform4f(location, x, y, z, w) }

func (d *Device) Uniform4fv(location int32, v []float32) {
	if len(v) >= 4 {
		gl.Uniform4fv(location, int32(len(v)/4), &v[0])
	}
}

func (d *Device) UniformMatrix3fv(location int32, v []float32) {
	if len(v) >= 9 {
		gl.UniformMatrix3fv(location, int32(len(v)/9), false, &v[0])
	}
}

func (d *Device) UniformMatrix4fv(location int32, v []float32) {
	if len(v) >= 16 {
		gl.UniformMatrix4fv(location, int32(len(v)/16), false, &v[0])
	}
}

func (d *Device) CreateBuffer() gpu.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gpu.Buffer(b)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) BindBuffer(target metadata.BufferTarget, b gpu.Buffer) {
	gl.BindBuffer(bufferTarget(target), uint32(b))
}

func (d *Device) BufferData(target metadata.BufferTarget, data interface{}, dynamic bool) {
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	switch v := data.(type) {
	case []float32:
		if len(v) > 0 {
			gl.BufferData(bufferTarget(target), len(v)*4, gl.Ptr(v), usage)
		}
	case []uint16:
		if len(v) > 0 {
			gl.BufferData(bufferTarget(target), len(v)*2, gl.Ptr(v), usage)
		}
	case []uint32:
		if len(v) > 0 {
			gl.BufferData(bufferTarget(target), len(v)*4, gl.Ptr(v), usage)
		}
	default:
		core.LogError("BufferData: unsupported data type %T", data)
	}
}

func (d *Device) CreateVertexArray() gpu.VertexArray {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return gpu.VertexArray(vao)
}

func (d *Device) DeleteVertexArray(vao gpu.VertexArray) {
	id := uint32(vao)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) BindVertexArray(vao gpu.VertexArray) { gl.BindVertexArray(uint32(vao)) }

func (d *Device) EnableVertexAttribArray(location uint32)  { gl.EnableVertexAttribArray(location) }
func (d *Device) DisableVertexAttribArray(location uint32) { gl.DisableVertexAttribArray(location) }

func (d *Device) VertexAttribPointer(location uint32, size int32, typ metadata.ElementType, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(location, size, elementType(typ), normalized, stride, uintptr(offset))
}

func (d *Device) VertexAttrib4f(location uint32, x, y, z, w float32) {
	gl.VertexAttrib4f(location, x, y, z, w)
}

func (d *Device) DrawArrays(mode metadata.DrawMode, first, count int32) {
	gl.DrawArrays(drawMode(mode), first, count)
}

func (d *Device) DrawElements(mode metadata.DrawMode, count int32, typ metadata.ElementType, offset int) {
	gl.DrawElementsWithOffset(drawMode(mode), count, elementType(typ), uintptr(offset))
}

func (d *Device) CreateTexture() gpu.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gpu.Texture(t)
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) ActiveTexture(unit int) { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }

func (d *Device) BindTexture(target metadata.TextureTarget, t gpu.Texture) {
	gl.BindTexture(textureTarget(target), uint32(t))
}

func (d *Device) TexImage2D(target metadata.TextureTarget, face int, width, height int32, format metadata.TextureFormat, pixels []byte) {
	imageTarget := uint32(gl.TEXTURE_2D)
	if target == metadata.TextureTargetCubeMap {
		imageTarget = gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}
	internal, external, typ := textureFormat(format)
	var ptr = gl.Ptr(nil)
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(imageTarget, 0, internal, width, height, 0, external, typ, ptr)
}

func (d *Device) TexParameters(target metadata.TextureTarget, minFilter, magFilter metadata.TextureFilter, wrapS, wrapT metadata.TextureWrap, anisotropy float32) {
	t := textureTarget(target)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, textureFilter(minFilter))
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, textureFilter(magFilter))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, textureWrap(wrapS))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, textureWrap(wrapT))
	if anisotropy > 1 && d.caps.MaxAnisotropy > 0 {
		if anisotropy > d.caps.MaxAnisotropy {
			anisotropy = d.caps.MaxAnisotropy
		}
		gl.TexParameterf(t, textureMaxAnisotropyExt, anisotropy)
	}
}

func (d *Device) GenerateMipmap(target metadata.TextureTarget) {
	gl.GenerateMipmap(textureTarget(target))
}

func (d *Device) CreateFramebuffer() gpu.Framebuffer {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return gpu.Framebuffer(f)
}

func (d *Device) DeleteFramebuffer(f gpu.Framebuffer) {
	id := uint32(f)
	gl.DeleteFramebuffers(1, &id)
}

func (d *Device) BindFramebuffer(f gpu.Framebuffer) { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f)) }

func (d *Device) FramebufferTexture2D(t gpu.Texture) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(t), 0)
}

func (d *Device) CreateRenderbuffer() gpu.Renderbuffer {
	var r uint32
	gl.GenRenderbuffers(1, &r)
	return gpu.Renderbuffer(r)
}

func (d *Device) DeleteRenderbuffer(r gpu.Renderbuffer) {
	id := uint32(r)
	gl.DeleteRenderbuffers(1, &id)
}

func (d *Device) RenderbufferStorage(r gpu.Renderbuffer, depth, stencil bool, width, height int32) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(r))
	switch {
	case depth && stencil:
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
	case depth:
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, width, height)
	default:
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA4, width, height)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (d *Device) FramebufferRenderbuffer(r gpu.Renderbuffer, depth, stencil bool) {
	attachment := uint32(gl.COLOR_ATTACHMENT0)
	switch {
	case depth && stencil:
		attachment = gl.DEPTH_STENCIL_ATTACHMENT
	case depth:
		attachment = gl.DEPTH_ATTACHMENT
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachment, gl.RENDERBUFFER, uint32(r))
}

func (d *Device) CheckFramebufferStatus() error {
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%x", core.ErrFramebufferIncomplete, status)
	}
	return nil
}
