package task

import "time"

// RepeatingTask executes a function in a fixed interval on its own goroutine
type RepeatingTask struct {
	fn       func()
	interval time.Duration

	running bool
	stop    chan struct{}
}

// NewRepeating creates a new repeating asynchronous task
func NewRepeating(fn func(), interval time.Duration) *RepeatingTask {
	return &RepeatingTask{
		fn:       fn,
		interval: interval,
	}
}

// Start starts the repeating task.
// If the task is already running, this is a no-op.
func (task *RepeatingTask) Start() {
	if task.running {
		return
	}
	task.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-time.After(task.interval):
				task.fn()
			case <-task.stop:
				return
			}
		}
	}()
	task.running = true
}

// Stop stops the repeating task.
// If the task is not running, this is a no-op.
// finalExec defines whether to execute the function one last time before the task shuts down.
func (task *RepeatingTask) Stop(finalExec bool) {
	if !task.running {
		return
	}
	close(task.stop)
	task.running = false
	if finalExec {
		task.fn()
	}
}
