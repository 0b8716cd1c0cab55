package core

import (
	"errors"
	"fmt"
)

var (
	ErrContextNotCurrent     = errors.New("graphics context is not current")
	ErrProgramCompile        = errors.New("program compilation failed")
	ErrProgramLink           = errors.New("program link failed")
	ErrFramebufferIncomplete = errors.New("framebuffer incomplete")
	ErrUnknownShader         = errors.New("unknown shader")
	ErrInvalidConfig         = errors.New("invalid configuration")
	ErrQueueEmpty            = errors.New("queue is empty")
	ErrUnknown               = errors.New("unknown")
)

// Assert logs and panics when cond is false. Used for preconditions the
// renderer cannot recover from.
func Assert(cond bool, msg string, args ...interface{}) {
	if cond {
		return
	}
	text := fmt.Sprintf(msg, args...)
	LogError("assertion failed: %s", text)
	panic(text)
}
