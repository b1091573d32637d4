package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgramDispatcher posts tasks into a running Bubbletea program as
// TaskEvents. It satisfies countdown.Dispatcher.
type ProgramDispatcher struct {
	mu     sync.RWMutex
	send   func(tea.Msg)
	closed bool
}

// NewProgramDispatcher returns an unbound dispatcher. Posts are rejected
// until Bind is called.
func NewProgramDispatcher() *ProgramDispatcher {
	return &ProgramDispatcher{}
}

// Bind attaches the dispatcher to a program's Send method.
func (d *ProgramDispatcher) Bind(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
}

// Post delivers task to the program. It blocks until the program accepts
// the message and must not be called from inside Update.
func (d *ProgramDispatcher) Post(task func()) bool {
	d.mu.RLock()
	send, closed := d.send, d.closed
	d.mu.RUnlock()
	if closed || send == nil {
		return false
	}
	send(TaskEvent{Run: task})
	return true
}

// Close rejects further posts.
func (d *ProgramDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}
