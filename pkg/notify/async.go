package notify

import (
	"io"
	"log/slog"
	"sync"
)

// DefaultQueue is the number of events an Async publisher holds before it
// starts dropping.
const DefaultQueue = 64

// Async wraps a Publisher so callers on the UI goroutine never wait on the
// network. Events are published in order by one worker goroutine; when the
// queue is full new events are dropped and counted.
type Async struct {
	next   Publisher
	logger *slog.Logger
	events chan Event
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewAsync starts the worker. A nil logger discards failures.
func NewAsync(next Publisher, queue int, logger *slog.Logger) *Async {
	if queue < 1 {
		queue = DefaultQueue
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &Async{
		next:   next,
		logger: logger,
		events: make(chan Event, queue),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues event. It never blocks and only fails after Close.
func (a *Async) Publish(event Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.events <- event:
	default:
		a.dropped++
	}
	return nil
}

// Dropped returns how many events were discarded on a full queue.
func (a *Async) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Close publishes what is queued, then closes the wrapped publisher.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.events)
	a.mu.Unlock()

	<-a.done
	return a.next.Close()
}

func (a *Async) run() {
	defer close(a.done)
	for ev := range a.events {
		if err := a.next.Publish(ev); err != nil {
			a.logger.Warn("publish failed", "event", ev.Type, "err", err)
		}
	}
}
