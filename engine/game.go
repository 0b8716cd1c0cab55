package engine

import (
	"github.com/spaghettifunk/vista/engine/config"
	"github.com/spaghettifunk/vista/engine/renderer"
)

type Game struct {
	Config       *config.Config
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func(e *Engine) error
type Update func(deltaTime float64) error
type Render func(r *renderer.Renderer, deltaTime float64) error
type OnResize func(width int32, height int32) error
type Shutdown func() error
