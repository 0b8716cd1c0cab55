package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/vista/engine/assets"
	"github.com/spaghettifunk/vista/engine/config"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
	"github.com/spaghettifunk/vista/engine/gpu/opengl"
	"github.com/spaghettifunk/vista/engine/platform"
	"github.com/spaghettifunk/vista/engine/renderer"
	"github.com/spaghettifunk/vista/engine/resources"
	"github.com/spaghettifunk/vista/engine/shader"
	"github.com/spaghettifunk/vista/engine/systems"
)

const suspendedPollInterval = 50 * time.Millisecond

// window is the part of the platform the run loop drives.
type window interface {
	PumpMessages() bool
	SwapBuffers()
}

type Engine struct {
	currentStage Stage
	config       *config.Config
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool

	platform      *platform.Platform
	window        window
	context       gpu.Context
	device        gpu.Device
	library       *shader.Library
	systemManager *systems.SystemManager
	renderer      *renderer.Renderer
	assetManager  *assets.AssetManager
	shaderWatcher *assets.ShaderWatcher

	width    int32
	height   int32
	clock    *core.Clock
	lastTime float64
}

func New(g *Game) (*Engine, error) {
	if g.Config == nil {
		g.Config = config.Default()
	}
	if err := g.Config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	if err := core.SetLogLevel(g.Config.Log.Level); err != nil {
		return nil, err
	}

	lib, err := shader.NewLibrary()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       g.Config,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     platform.New(),
		library:      lib,
		isSuspended:  false,
		width:        int32(g.Config.Application.Width),
		height:       int32(g.Config.Application.Height),
		lastTime:     0,
	}, nil
}

// Initialize opens the window, creates the OpenGL device and every
// subsystem, then initializes the game.
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	app := e.config.Application
	if err := e.platform.Startup(app.Name, app.StartPosX, app.StartPosY, app.Width, app.Height); err != nil {
		return err
	}
	e.platform.SetResizeCallback(e.onResized)

	dev, err := opengl.New()
	if err != nil {
		return err
	}
	// Window and framebuffer sizes differ on high-dpi displays.
	e.width, e.height = e.platform.FramebufferSize()
	return e.initialize(e.platform, e.platform.Context(), dev)
}

func (e *Engine) initialize(w window, ctx gpu.Context, dev gpu.Device) error {
	e.window = w
	e.context = ctx
	e.device = dev

	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	if dir := e.config.Shaders.Directory; dir != "" {
		if err := e.watchShaders(dir); err != nil {
			return err
		}
	}

	sm, err := systems.NewSystemManager(e.config.SystemManagerConfig(), ctx, dev, e.library)
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	e.systemManager = sm

	rc := e.config.RendererConfig()
	rc.Width, rc.Height = e.width, e.height
	r, err := renderer.New(rc, ctx, dev, sm.ProgramCache())
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	e.renderer = r
	if e.config.Shaders.HotReload {
		r.SetShaderReloader(e.shaderWatcher)
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(e); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// watchShaders loads the override sources found in dir. With hot reload the
// directory stays watched and the renderer applies changes between frames.
func (e *Engine) watchShaders(dir string) error {
	am, err := assets.NewAssetManager()
	if err != nil {
		return err
	}
	sw := assets.NewShaderWatcher(am)
	if err := am.Initialize(dir); err != nil {
		_ = am.Shutdown()
		return fmt.Errorf("failed to watch shader directory: %w", err)
	}
	if ids := sw.Apply(e.library); len(ids) > 0 {
		core.LogInfo("shader overrides loaded from `%s`: %v", dir, ids)
	}
	if !e.config.Shaders.HotReload {
		return am.Shutdown()
	}
	e.assetManager = am
	e.shaderWatcher = sw
	return nil
}

func (e *Engine) Renderer() *renderer.Renderer           { return e.renderer }
func (e *Engine) SystemManager() *systems.SystemManager { return e.systemManager }
func (e *Engine) Library() *shader.Library              { return e.library }
func (e *Engine) Stage() Stage                          { return e.currentStage }

// Stop ends the run loop after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	var frameCount uint64 = 0

	for e.isRunning.Load() {
		if !e.window.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		if e.isSuspended {
			time.Sleep(suspendedPollInterval)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)

		if err := e.frame(delta); err != nil {
			core.LogError("frame failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}
		e.window.SwapBuffers()

		e.clock.Update()
		core.MetricsUpdate(e.clock.Elapsed() - currentTime)
		frameCount++
		if frameCount%600 == 0 {
			fps, ms := core.MetricsFrame()
			info := e.renderer.Info()
			core.LogDebug("%.0f fps, %.2f ms, %d draw calls, %d programs", fps, ms, info.DrawCalls, info.Programs)
		}

		// Update last time
		e.lastTime = currentTime
	}

	return nil
}

// frame runs one update and render of the game.
func (e *Engine) frame(delta float64) error {
	e.systemManager.Update()

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return fmt.Errorf("game update failed: %w", err)
		}
	}
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(e.renderer, delta); err != nil {
			return fmt.Errorf("game render failed: %w", err)
		}
	}
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if e.assetManager != nil {
		if err := e.assetManager.Shutdown(); err != nil {
			return err
		}
	}
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			return err
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if e.context != nil && e.context.IsCurrent() {
		n := resources.FlushDeletes(e.context, e.device)
		core.LogDebug("released %d device objects", n)
	}
	if e.platform != nil && e.platform.Window != nil {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageShutdown
	return nil
}

// GetFramebufferSize returns the width and height (in this order) of the
// drawable surface.
func (e *Engine) GetFramebufferSize() (int32, int32) {
	return e.width, e.height
}

func (e *Engine) onResized(width, height int32) {
	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.renderer.SetSize(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
}
