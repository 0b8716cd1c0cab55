package resources

import (
	"sync"

	"github.com/spaghettifunk/vista/engine/containers"
	"github.com/spaghettifunk/vista/engine/core"
	"github.com/spaghettifunk/vista/engine/gpu"
)

// Objects released while commands may still reference them are destroyed at
// the start of the next frame of the context that owns them.
var (
	deleteMutex  sync.Mutex
	deleteQueues = make(map[gpu.Context]*containers.RingQueue[func(gpu.Device)])
)

// LazyDelete queues fn for the next FlushDeletes on ctx. Safe to call from
// any goroutine.
func LazyDelete(ctx gpu.Context, fn func(dev gpu.Device)) {
	if ctx == nil || fn == nil {
		return
	}
	deleteMutex.Lock()
	defer deleteMutex.Unlock()
	q, ok := deleteQueues[ctx]
	if !ok {
		q = containers.NewGrowableRingQueue[func(gpu.Device)](16)
		deleteQueues[ctx] = q
	}
	if err := q.Enqueue(fn); err != nil {
		core.LogError("failed to queue deferred delete: %s", err)
	}
}

// FlushDeletes runs every deletion queued for ctx and returns how many ran.
func FlushDeletes(ctx gpu.Context, dev gpu.Device) int {
	deleteMutex.Lock()
	q, ok := deleteQueues[ctx]
	if !ok {
		deleteMutex.Unlock()
		return 0
	}
	var pending []func(gpu.Device)
	for !q.IsEmpty() {
		fn, err := q.Dequeue()
		if err != nil {
			break
		}
		pending = append(pending, fn)
	}
	deleteMutex.Unlock()

	for _, fn := range pending {
		fn(dev)
	}
	return len(pending)
}

func PendingDeletes(ctx gpu.Context) int {
	deleteMutex.Lock()
	defer deleteMutex.Unlock()
	if q, ok := deleteQueues[ctx]; ok {
		return q.Len()
	}
	return 0
}
