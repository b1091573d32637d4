// Package countdown provides the countdown state machine behind the ring
// widget, the projection of its state into drawable values, and the
// scheduler that drives it from a real-time ticker.
//
// An Engine is not safe for concurrent use. All calls, including Tick,
// must happen on the goroutine that owns rendering state; the Scheduler
// arranges this by posting ticks through a Dispatcher.
package countdown

import (
	"errors"
	"fmt"
)

// DefaultSeconds is the countdown length used when none is configured.
const DefaultSeconds = 5

var (
	// ErrInvalidDuration is returned for negative countdown lengths.
	ErrInvalidDuration = errors.New("countdown: duration must be non-negative")
	// ErrRunning is returned when reconfiguring a running engine.
	ErrRunning = errors.New("countdown: engine is running")
	// ErrAlreadyRunning is returned by Start on a running engine.
	ErrAlreadyRunning = errors.New("countdown: already running")
	// ErrNotIdle is returned by Start on a finished or cancelled engine.
	ErrNotIdle = errors.New("countdown: engine is not idle")
)

// State is the engine lifecycle position.
type State int

const (
	StateIdle      State = iota // configured, not started
	StateRunning                // ticking
	StateFinished               // reached zero, completion emitted
	StateCancelled              // torn down before reaching zero
)

var stateNames = [...]string{
	StateIdle:      "idle",
	StateRunning:   "running",
	StateFinished:  "finished",
	StateCancelled: "cancelled",
}

// String returns the lowercase state name.
func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further ticks can occur without a Reset.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateCancelled
}

// Engine counts a whole-second duration down to zero, one Tick at a time.
type Engine struct {
	total     int
	remaining int
	state     State

	onRedraw   func(RenderState)
	onFinished func()
}

// New returns an idle engine configured for the given number of seconds.
func New(seconds int) (*Engine, error) {
	e := &Engine{}
	if err := e.Configure(seconds); err != nil {
		return nil, err
	}
	return e, nil
}

// Configure sets the countdown length and resets remaining time to it.
// A finished or cancelled engine returns to idle. Reconfiguring a running
// engine is rejected with ErrRunning.
func (e *Engine) Configure(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, seconds)
	}
	if e.state == StateRunning {
		return ErrRunning
	}
	e.total = seconds
	e.remaining = seconds
	e.state = StateIdle
	return nil
}

// Reset returns a terminal engine to idle with the full duration remaining.
func (e *Engine) Reset() error {
	return e.Configure(e.total)
}

// Start moves an idle engine to running. A zero-length countdown finishes
// immediately: completion is emitted once and Start reports that no ticks
// are needed by leaving the engine in StateFinished.
func (e *Engine) Start() error {
	switch e.state {
	case StateRunning:
		return ErrAlreadyRunning
	case StateFinished, StateCancelled:
		return fmt.Errorf("%w: %s", ErrNotIdle, e.state)
	}

	if e.total == 0 {
		e.finish()
		return nil
	}
	e.state = StateRunning
	return nil
}

// Tick advances a running engine by one second and reports whether more
// ticks are wanted. Every decrement emits a redraw; the decrement that
// reaches zero also finishes the engine. Ticks outside StateRunning are
// ignored.
func (e *Engine) Tick() bool {
	if e.state != StateRunning {
		return false
	}

	if e.remaining > 0 {
		e.remaining--
		if e.onRedraw != nil {
			e.onRedraw(e.Snapshot())
		}
	}

	if e.remaining == 0 {
		e.finish()
		return false
	}
	return true
}

// Cancel stops a running engine without emitting completion. It is a
// no-op in any other state.
func (e *Engine) Cancel() {
	if e.state == StateRunning {
		e.state = StateCancelled
	}
}

// OnRedraw registers the redraw listener, replacing any previous one.
func (e *Engine) OnRedraw(fn func(RenderState)) {
	e.onRedraw = fn
}

// OnFinished registers the completion listener, replacing any previous
// one. Only one listener is held.
func (e *Engine) OnFinished(fn func()) {
	e.onFinished = fn
}

// Snapshot projects the current state.
func (e *Engine) Snapshot() RenderState {
	return Project(e.remaining, e.total)
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Remaining returns the whole seconds left.
func (e *Engine) Remaining() int { return e.remaining }

// Total returns the configured duration in seconds.
func (e *Engine) Total() int { return e.total }

func (e *Engine) finish() {
	e.remaining = 0
	e.state = StateFinished
	if e.onFinished != nil {
		e.onFinished()
	}
}
