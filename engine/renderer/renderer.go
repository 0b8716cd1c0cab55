package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/material"
	"github.com/spaghettifunk/vista/engine/math"
	"github.com/spaghettifunk/vista/engine/renderer/metadata"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/scene"
	"github.com/spaghettifunk/vista/engine/shader"
	"github.com/spaghettifunk/vista/engine/systems"
)

// ShaderReloader hands over shader sources changed since the last frame.
// Apply writes them into lib and returns the ids it replaced.
type ShaderReloader interface {
	Apply(lib *shader.Library) []string
}

/** @brief Configuration for the renderer. */
type RendererConfig struct {
	AutoClear        bool
	AutoClearColor   bool
	AutoClearDepth   bool
	AutoClearStencil bool
	ClearColor       mgl32.Vec4
	/** @brief Sort opaque items front to back and transparent ones back to front. */
	SortObjects             bool
	GammaFactor             float32
	PhysicallyCorrectLights bool
	Precision               metadata.Precision
	OutputEncoding          metadata.Encoding
	Width                   int32
	Height                  int32
}

func DefaultRendererConfig() *RendererConfig {
	return &RendererConfig{
		AutoClear:        true,
		AutoClearColor:   true,
		AutoClearDepth:   true,
		AutoClearStencil: true,
		ClearColor:       mgl32.Vec4{0, 0, 0, 1},
		SortObjects:      true,
		GammaFactor:      2.2,
		Precision:        metadata.PrecisionHigh,
		OutputEncoding:   metadata.EncodingLinear,
		Width:            1280,
		Height:           720,
	}
}

/**
 * @brief Draws a scene through a camera once per frame on one device
 * context. Every cache it owns belongs to that context, use one renderer per
 * context.
 */
type Renderer struct {
	// This renderer's configuration.
	Config *RendererConfig

	context  gpu.Context
	device   gpu.Device
	programs *systems.ProgramCache
	caps     gpu.Capabilities

	width        int32
	height       int32
	viewport     math.Rect
	renderTarget *resources.RenderTarget

	list       *RenderList
	lights     []scene.Light
	lightSetup scene.LightSetup
	walker     sceneWalker
	state      *stateDiff
	bound      bindings
	attributes vertexAttributes
	// morphBindings overrides geometry attributes for the current draw.
	morphBindings map[string]*resources.Attribute

	clipping       clipping
	clippingPlanes []math.Plane

	usedTextureUnits int

	clearColor        mgl32.Vec4
	clearColorApplied bool
	background        backgroundState

	reloader ShaderReloader
	info     core.RenderInfo

	// vertexArray stays bound for the renderer's lifetime, core profiles
	// cannot draw without one.
	vertexArray gpu.VertexArray
}

// New creates a renderer on ctx, which must be current, and puts the device
// in its default state.
func New(config *RendererConfig, ctx gpu.Context, dev gpu.Device, programs *systems.ProgramCache) (*Renderer, error) {
	if ctx == nil || dev == nil || programs == nil {
		err := fmt.Errorf("renderer.New - context, device and program cache are required")
		core.LogError(err.Error())
		return nil, err
	}
	if config == nil {
		config = DefaultRendererConfig()
	}
	if config.GammaFactor <= 0 {
		core.LogWarn("renderer.New - config.GammaFactor is %f, defaulting to 2.2.", config.GammaFactor)
		config.GammaFactor = 2.2
	}
	if config.Width <= 0 || config.Height <= 0 {
		core.LogWarn("renderer.New - config size %dx%d is invalid, defaulting to 1x1.", config.Width, config.Height)
		config.Width, config.Height = 1, 1
	}

	r := &Renderer{
		Config:        config,
		context:       ctx,
		device:        dev,
		programs:      programs,
		width:         config.Width,
		height:        config.Height,
		viewport:      math.NewRect(0, 0, config.Width, config.Height),
		list:          NewRenderList(),
		morphBindings: make(map[string]*resources.Attribute),
	}
	r.lightSetup.Reset()
	r.walker.device = dev
	r.state = newStateDiff(dev, &r.info)

	r.assertContext()
	r.caps = dev.Capabilities()
	r.state.limitLineWidth(r.caps.MinLineWidth, r.caps.MaxLineWidth)
	r.vertexArray = dev.CreateVertexArray()
	r.initDeviceState()
	core.LogInfo("renderer ready: %dx%d, max %d textures", r.width, r.height, r.caps.MaxTextures)
	return r, nil
}

func (r *Renderer) assertContext() {
	core.Assert(r.context.IsCurrent(), "%s: renderer used while its device context is not current", core.ErrContextNotCurrent)
}

// initDeviceState issues the default pipeline state.
func (r *Renderer) initDeviceState() {
	dev := r.device
	c := r.Config.ClearColor
	dev.ClearColor(c[0], c[1], c[2], c[3])
	r.clearColor = c
	r.clearColorApplied = true
	dev.ClearDepth(1)
	dev.ClearStencil(0)
	dev.BindVertexArray(r.vertexArray)

	dev.Enable(metadata.CapabilityDepthTest)
	dev.DepthFunc(metadata.DepthFuncLessEqual)
	dev.FrontFace(metadata.FrontFaceCCW)
	dev.CullFace(metadata.FaceCullModeBack)
	dev.Enable(metadata.CapabilityCullFace)
	dev.Enable(metadata.CapabilityBlend)
	dev.BlendEquation(metadata.BlendEquationAdd)
	dev.BlendFunc(metadata.BlendFactorSrcAlpha, metadata.BlendFactorOneMinusSrcAlpha)

	dev.Viewport(r.viewport.X, r.viewport.Y, r.viewport.Width, r.viewport.Height)
	r.bound.viewport = r.viewport
}

// ResetState forgets every cached binding and reissues the default device
// state. Call it after other code used the context.
func (r *Renderer) ResetState() {
	r.assertContext()
	r.state.reset()
	r.attributes.reset()
	r.bound = bindings{}
	r.initDeviceState()
}

/**
 * @brief Draws scene as seen by camera into the current render target.
 * Program build failures are returned, nothing else fails a frame.
 */
func (r *Renderer) Render(s *scene.Scene, camera *scene.Camera) error {
	r.assertContext()
	r.info.Reset()

	r.lights = r.lights[:0]
	r.bound.resetFrame()

	s.UpdateMatrixWorld()
	if camera.Parent() == nil {
		camera.UpdateMatrixWorld()
	}
	camera.UpdateMatrix()

	r.walker.sortObjects = r.Config.SortObjects
	r.walker.prepare(camera)
	r.clipping.init(r.clippingPlanes, camera)

	resources.FlushDeletes(r.context, r.device)

	// Programs dropped by a reload are deleted at the start of the next frame.
	if r.reloader != nil {
		for _, id := range r.reloader.Apply(r.programs.Library()) {
			n := r.programs.Invalidate(id)
			core.LogInfo("shader `%s` reloaded, %d programs invalidated", id, n)
		}
	}

	r.list.Init()
	r.walker.walk(s, camera, r.list, &r.lights)
	if r.Config.SortObjects {
		r.list.Sort()
	}
	setupLights(&r.lightSetup, r.lights, camera)

	if err := r.SetRenderTarget(r.renderTarget); err != nil {
		return err
	}
	if err := r.renderBackground(s); err != nil {
		return err
	}

	r.info.OpaqueItems = uint32(len(r.list.Opaque))
	r.info.TransparentItems = uint32(len(r.list.Transparent))
	r.info.BackgroundItems = uint32(len(r.list.Background))

	if override := s.OverrideMaterial; override != nil {
		base := override.Common()
		r.state.setBlending(base.Blend())
		r.state.setDepthTest(base.DepthTest())
		r.state.setDepthWrite(base.DepthWrite())
		r.state.setPolygonOffset(base.PolygonOffset())
		if err := r.renderPasses(camera, true, override); err != nil {
			return err
		}
	} else {
		r.state.setBlending(metadata.Blend{Mode: metadata.BlendModeNone})
		if err := r.renderPasses(camera, false, nil); err != nil {
			return err
		}
	}

	if r.renderTarget != nil {
		r.renderTarget.UpdateMipmap(r.device)
	}
	r.info.Programs = r.programs.Len()
	return nil
}

// renderPasses draws background, opaque and transparent buckets in order.
// Without an override only the transparent pass blends.
func (r *Renderer) renderPasses(camera *scene.Camera, override bool, mat material.Material) error {
	if err := r.renderObjects(r.list.Background, camera, override, mat); err != nil {
		return err
	}
	if err := r.renderObjects(r.list.Opaque, camera, override, mat); err != nil {
		return err
	}
	return r.renderObjects(r.list.Transparent, camera, true, mat)
}

// SetRenderTarget selects where the next frames draw, nil meaning the
// default framebuffer. The framebuffer is always rebound.
func (r *Renderer) SetRenderTarget(target *resources.RenderTarget) error {
	r.assertContext()
	r.renderTarget = target

	framebuffer := gpu.Framebuffer(0)
	viewport := r.viewport
	if target != nil {
		if err := target.Realize(r.device); err != nil {
			return err
		}
		framebuffer = target.Framebuffer()
		viewport = target.Viewport()
	}
	r.device.BindFramebuffer(framebuffer)
	r.device.Viewport(viewport.X, viewport.Y, viewport.Width, viewport.Height)
	r.bound.framebuffer = framebuffer
	r.bound.viewport = viewport
	return nil
}

func (r *Renderer) RenderTarget() *resources.RenderTarget { return r.renderTarget }

// SetViewport sets the default framebuffer viewport.
func (r *Renderer) SetViewport(x, y, width, height int32) {
	r.assertContext()
	r.viewport = math.NewRect(x, y, width, height)
	if r.renderTarget == nil {
		r.device.Viewport(x, y, width, height)
		r.bound.viewport = r.viewport
	}
}

func (r *Renderer) Viewport() math.Rect { return r.viewport }

// SetSize resizes the drawing area and resets the viewport to cover it.
func (r *Renderer) SetSize(width, height int32) {
	r.assertContext()
	r.width, r.height = width, height
	r.SetViewport(0, 0, width, height)
}

func (r *Renderer) Size() (int32, int32) { return r.width, r.height }

func (r *Renderer) SetAutoClear(on bool) {
	r.assertContext()
	r.Config.AutoClear = on
}

func (r *Renderer) SetAutoClearColor(on bool) {
	r.assertContext()
	r.Config.AutoClearColor = on
}

func (r *Renderer) SetAutoClearDepth(on bool) {
	r.assertContext()
	r.Config.AutoClearDepth = on
}

func (r *Renderer) SetAutoClearStencil(on bool) {
	r.assertContext()
	r.Config.AutoClearStencil = on
}

// SetClearColor sets the color used when the scene has no background color.
func (r *Renderer) SetClearColor(color mgl32.Vec4) {
	r.assertContext()
	r.Config.ClearColor = color
	r.applyClearColor(color)
}

func (r *Renderer) ClearColor() mgl32.Vec4 { return r.Config.ClearColor }

// Clear clears the selected buffers of the bound framebuffer.
func (r *Renderer) Clear(color, depth, stencil bool) {
	r.assertContext()
	flags := metadata.ClearNone
	if color {
		flags |= metadata.ClearColor
	}
	if depth {
		flags |= metadata.ClearDepth
	}
	if stencil {
		flags |= metadata.ClearStencil
	}
	if flags != metadata.ClearNone {
		r.device.Clear(flags)
	}
}

func (r *Renderer) ClearColorBuffer()   { r.Clear(true, false, false) }
func (r *Renderer) ClearDepthBuffer()   { r.Clear(false, true, false) }
func (r *Renderer) ClearStencilBuffer() { r.Clear(false, false, true) }

// Program affecting settings. Materials pick the change up on their next
// draw since their programs no longer match.
func (r *Renderer) SetGammaFactor(gamma float32) {
	r.assertContext()
	r.Config.GammaFactor = gamma
}

func (r *Renderer) SetOutputEncoding(encoding metadata.Encoding) {
	r.assertContext()
	r.Config.OutputEncoding = encoding
}

func (r *Renderer) SetPrecision(precision metadata.Precision) {
	r.assertContext()
	r.Config.Precision = precision
}

func (r *Renderer) SetPhysicallyCorrectLights(on bool) {
	r.assertContext()
	r.Config.PhysicallyCorrectLights = on
}

func (r *Renderer) SetSortObjects(on bool) {
	r.assertContext()
	r.Config.SortObjects = on
}

// SetClippingPlanes replaces the global clipping planes, given in world
// space.
func (r *Renderer) SetClippingPlanes(planes []math.Plane) {
	r.assertContext()
	r.clippingPlanes = append(r.clippingPlanes[:0], planes...)
}

func (r *Renderer) AddClippingPlane(plane math.Plane) {
	r.assertContext()
	r.clippingPlanes = append(r.clippingPlanes, plane)
}

func (r *Renderer) ClippingPlanes() []math.Plane { return r.clippingPlanes }

func (r *Renderer) ClearClippingPlanes() {
	r.assertContext()
	r.clippingPlanes = r.clippingPlanes[:0]
}

// AllocateTextureUnit hands out the next texture unit of the current draw.
// Running past the device limit only warns.
func (r *Renderer) AllocateTextureUnit() int {
	r.assertContext()
	unit := r.usedTextureUnits
	if unit >= r.caps.MaxTextures {
		core.LogWarn("trying to use %d texture units while this device supports only %d", unit+1, r.caps.MaxTextures)
	}
	r.usedTextureUnits++
	return unit
}

func (r *Renderer) UsedTextureUnits() int { return r.usedTextureUnits }

// Info returns the counters of the last frame.
func (r *Renderer) Info() core.RenderInfo { return r.info }

func (r *Renderer) Capabilities() gpu.Capabilities { return r.caps }

// SetShaderReloader installs the source of shader replacements polled at
// the start of every frame.
func (r *Renderer) SetShaderReloader(reloader ShaderReloader) {
	r.assertContext()
	r.reloader = reloader
}

/**
 * @brief Releases the renderer's own GPU objects. The program cache and the
 * scene's resources belong to their owners.
 */
func (r *Renderer) Shutdown() error {
	r.assertContext()
	for _, mesh := range []*scene.Mesh{r.background.plane, r.background.box} {
		if mesh == nil {
			continue
		}
		if rt := mesh.Material(0).Common().Runtime(); rt.Program != nil {
			r.programs.Release(rt.Program)
			rt.Program = nil
		}
		mesh.Geometry.Dispose(r.context)
	}
	r.background = backgroundState{}
	r.list.Dispose(r.context)
	if vao := r.vertexArray; vao != 0 {
		r.vertexArray = 0
		resources.LazyDelete(r.context, func(dev gpu.Device) { dev.DeleteVertexArray(vao) })
	}
	resources.FlushDeletes(r.context, r.device)
	return nil
}
