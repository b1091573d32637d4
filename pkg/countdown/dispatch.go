package countdown

import (
	"context"
	"sync"
)

// Dispatcher hands a task to the goroutine that owns rendering state.
// Post reports false when the task was not accepted and will never run.
type Dispatcher interface {
	Post(task func()) bool
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(task func()) bool

// Post calls f(task).
func (f DispatcherFunc) Post(task func()) bool { return f(task) }

// Loop is a Dispatcher that runs posted tasks one at a time on whichever
// goroutine calls Run. It is the UI goroutine for hosts without their own
// event loop.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a Loop whose queue holds up to buffer pending tasks.
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post enqueues task. It blocks while the queue is full and returns false
// once the loop has been closed.
func (l *Loop) Post(task func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- task:
		return true
	case <-l.done:
		return false
	}
}

// Run executes tasks until ctx is cancelled or Close is called. Tasks still
// queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case task := <-l.tasks:
			task()
		}
	}
}

// Close stops Run and rejects further posts. Safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
