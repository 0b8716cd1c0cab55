package headless

import "sync/atomic"

// Context is a gpu.Context whose currency is toggled explicitly.
type Context struct {
	current atomic.Bool
}

// NewContext returns a context that is already current.
func NewContext() *Context {
	c := &Context{}
	c.current.Store(true)
	return c
}

func (c *Context) MakeCurrent() { c.current.Store(true) }
func (c *Context) Release()     { c.current.Store(false) }

func (c *Context) IsCurrent() bool {
	return c.current.Load()
}
