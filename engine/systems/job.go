package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/vista/engine/core"
)

/**
 * @brief A unit of background work. Run executes on a worker; the callbacks
 * run on the thread calling Update, which owns the device context.
 */
type JobTask struct {
	Name       string
	Run        func() (interface{}, error)
	OnComplete func(result interface{})
	OnFailure  func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mutex     sync.Mutex
	completed []jobResult
	pending   int
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.Run()
				if err != nil {
					core.LogError("job `%s` failed: %s", job.Name, err)
				}
				js.mutex.Lock()
				js.completed = append(js.completed, jobResult{task: job, result: result, err: err})
				js.mutex.Unlock()
			}
		}()
	}
}

/**
 * @brief Shuts the job system down, waiting for running jobs. Completions
 * not yet delivered by Update are dropped.
 */
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Delivers finished jobs to their callbacks. Should happen once an
 * update cycle. Returns how many were delivered.
 */
func (js *JobSystem) Update() int {
	js.mutex.Lock()
	done := js.completed
	js.completed = nil
	js.pending -= len(done)
	js.mutex.Unlock()

	for _, r := range done {
		if r.err != nil {
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			}
			continue
		}
		if r.task.OnComplete != nil {
			r.task.OnComplete(r.result)
		}
	}
	return len(done)
}

// Pending counts submitted jobs whose callbacks have not run yet.
func (js *JobSystem) Pending() int {
	js.mutex.Lock()
	defer js.mutex.Unlock()
	return js.pending
}

// AddWorkNonBlocking queues the job without waiting for channel space.
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	js.mutex.Lock()
	js.pending++
	js.mutex.Unlock()
	go func() { js.jobQueue <- jt }()
}

/**
 * @brief Submits the provided job to be queued for execution.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) {
	js.mutex.Lock()
	js.pending++
	js.mutex.Unlock()
	js.jobQueue <- jt
}
