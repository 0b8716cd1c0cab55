package gpu

import "github.com/spaghettifunk/vista/engine/renderer/metadata"

// Handles are driver object names. Zero means none, or the default
// framebuffer for Framebuffer.
type (
	Program      uint32
	Buffer       uint32
	Texture      uint32
	Framebuffer  uint32
	Renderbuffer uint32
	VertexArray  uint32
)

/** @brief Limits reported by the device. */
type Capabilities struct {
	MaxTextures       int
	MaxVertexTextures int
	MaxTextureSize    int
	MaxCubemapSize    int
	// Zero when anisotropic filtering is unavailable.
	MaxAnisotropy float32
	FloatTextures bool
	// Supported line widths. A zero MaxLineWidth means no limit is known.
	MinLineWidth float32
	MaxLineWidth float32
}

// Context identifies the graphics context a device talks to. Every device
// call must happen while the context is current on the calling thread.
type Context interface {
	IsCurrent() bool
}

// Device is the immediate-mode command surface the renderer drives.
type Device interface {
	Capabilities() Capabilities

	Enable(c metadata.Capability)
	Disable(c metadata.Capability)
	FrontFace(f metadata.FrontFace)
	CullFace(mode metadata.FaceCullMode)
	DepthFunc(f metadata.DepthFunc)
	DepthMask(write bool)
	LineWidth(width float32)
	PolygonOffset(factor, units float32)
	BlendEquation(eq metadata.BlendEquation)
	BlendEquationSeparate(rgb, alpha metadata.BlendEquation)
	BlendFunc(src, dst metadata.BlendFactor)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha metadata.BlendFactor)
	ClearColor(r, g, b, a float32)
	ClearDepth(depth float32)
	ClearStencil(s int32)
	Clear(flags metadata.ClearFlags)
	Viewport(x, y, width, height int32)

	// CreateProgram compiles and links both stages. The returned error
	// carries the driver info log.
	CreateProgram(vertexSource, fragmentSource string) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)
	ActiveAttributes(p Program) map[string]int32
	// UniformLocation returns -1 for names the program does not use.
	UniformLocation(p Program, name string) int32

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform1fv(location int32, v []float32)
	Uniform2f(location int32, x, y float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	Uniform4fv(location int32, v []float32)
	UniformMatrix3fv(location int32, v []float32)
	UniformMatrix4fv(location int32, v []float32)

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target metadata.BufferTarget, b Buffer)
	// BufferData accepts []float32, []uint16 or []uint32.
	BufferData(target metadata.BufferTarget, data interface{}, dynamic bool)

	CreateVertexArray() VertexArray
	DeleteVertexArray(vao VertexArray)
	BindVertexArray(vao VertexArray)
	EnableVertexAttribArray(location uint32)
	DisableVertexAttribArray(location uint32)
	VertexAttribPointer(location uint32, size int32, typ metadata.ElementType, normalized bool, stride int32, offset int)
	VertexAttrib4f(location uint32, x, y, z, w float32)

	DrawArrays(mode metadata.DrawMode, first, count int32)
	DrawElements(mode metadata.DrawMode, count int32, typ metadata.ElementType, offset int)

	CreateTexture() Texture
	DeleteTexture(t Texture)
	ActiveTexture(unit int)
	BindTexture(target metadata.TextureTarget, t Texture)
	// TexImage2D uploads one level 0 image. face selects the cube face.
	TexImage2D(target metadata.TextureTarget, face int, width, height int32, format metadata.TextureFormat, pixels []byte)
	TexParameters(target metadata.TextureTarget, minFilter, magFilter metadata.TextureFilter, wrapS, wrapT metadata.TextureWrap, anisotropy float32)
	GenerateMipmap(target metadata.TextureTarget)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(f Framebuffer)
	FramebufferTexture2D(t Texture)
	CreateRenderbuffer() Renderbuffer
	DeleteRenderbuffer(r Renderbuffer)
	RenderbufferStorage(r Renderbuffer, depth, stencil bool, width, height int32)
	FramebufferRenderbuffer(r Renderbuffer, depth, stencil bool)
	CheckFramebufferStatus() error
}
