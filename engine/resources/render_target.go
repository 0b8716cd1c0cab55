package resources

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
)

/** @brief An offscreen color texture with optional depth/stencil storage. */
type RenderTarget struct {
	Name          string
	Texture       *Texture
	DepthBuffer   bool
	StencilBuffer bool

	width    int32
	height   int32
	viewport math.Rect

	framebuffer  gpu.Framebuffer
	renderbuffer gpu.Renderbuffer
	realized     bool
}

func NewRenderTarget(width, height int32) *RenderTarget {
	return &RenderTarget{
		Name:        uuid.NewString(),
		Texture:     NewEmptyTexture(width, height),
		DepthBuffer: true,
		width:       width,
		height:      height,
		viewport:    math.NewRect(0, 0, width, height),
	}
}

func (rt *RenderTarget) Size() (int32, int32) { return rt.width, rt.height }

// SetSize resizes the target; storage is reallocated on the next Realize.
func (rt *RenderTarget) SetSize(width, height int32) {
	if width == rt.width && height == rt.height {
		return
	}
	rt.width, rt.height = width, height
	rt.viewport = math.NewRect(0, 0, width, height)
	rt.Texture.Width, rt.Texture.Height = width, height
	rt.Texture.NeedsUpdate = true
	rt.realized = false
}

func (rt *RenderTarget) Viewport() math.Rect { return rt.viewport }

func (rt *RenderTarget) SetViewport(v math.Rect) { rt.viewport = v }

func (rt *RenderTarget) Framebuffer() gpu.Framebuffer { return rt.framebuffer }

// Realize allocates the framebuffer and its attachments. It leaves the
// target bound.
func (rt *RenderTarget) Realize(dev gpu.Device) error {
	if rt.framebuffer == 0 {
		rt.framebuffer = dev.CreateFramebuffer()
	}
	dev.BindFramebuffer(rt.framebuffer)
	if rt.realized {
		return nil
	}

	dev.ActiveTexture(0)
	rt.Texture.Realize(dev)
	dev.FramebufferTexture2D(rt.Texture.Handle())

	if rt.DepthBuffer || rt.StencilBuffer {
		if rt.renderbuffer == 0 {
			rt.renderbuffer = dev.CreateRenderbuffer()
		}
		dev.RenderbufferStorage(rt.renderbuffer, rt.DepthBuffer, rt.StencilBuffer, rt.width, rt.height)
		dev.FramebufferRenderbuffer(rt.renderbuffer, rt.DepthBuffer, rt.StencilBuffer)
	}

	if err := dev.CheckFramebufferStatus(); err != nil {
		return fmt.Errorf("%w: render target `%s`: %s", core.ErrFramebufferIncomplete, rt.Name, err)
	}
	rt.realized = true
	return nil
}

// UpdateMipmap regenerates mip levels after rendering when the texture
// samples them.
func (rt *RenderTarget) UpdateMipmap(dev gpu.Device) {
	if !rt.Texture.usesMipmaps() || rt.Texture.Handle() == 0 {
		return
	}
	dev.BindTexture(metadata.TextureTarget2D, rt.Texture.Handle())
	dev.GenerateMipmap(metadata.TextureTarget2D)
	dev.BindTexture(metadata.TextureTarget2D, 0)
}

// Dispose queues the framebuffer, renderbuffer and texture for deletion.
func (rt *RenderTarget) Dispose(ctx gpu.Context) {
	fb, rb := rt.framebuffer, rt.renderbuffer
	rt.framebuffer, rt.renderbuffer = 0, 0
	rt.realized = false
	LazyDelete(ctx, func(dev gpu.Device) {
		if fb != 0 {
			dev.DeleteFramebuffer(fb)
		}
		if rb != 0 {
			dev.DeleteRenderbuffer(rb)
		}
	})
	rt.Texture.Dispose(ctx)
}
