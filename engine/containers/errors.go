package containers

import "errors"

var ErrQueueFull = errors.New("queue is full")
