package countdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the real-time length of one tick.
const DefaultInterval = time.Second

// ErrSchedulerStarted is returned when a Scheduler is started twice.
var ErrSchedulerStarted = errors.New("countdown: scheduler already started")

// Scheduler drives an Engine from a periodic ticker. The ticker goroutine
// never touches the engine; each tick is posted through the Dispatcher so
// Engine.Tick runs on the rendering goroutine. A Scheduler is single-use.
type Scheduler struct {
	engine   *Engine
	dispatch Dispatcher
	clock    Clock
	interval time.Duration
	logger   *slog.Logger
	onCancel func()

	mu       sync.Mutex
	started  bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the ticker source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithInterval overrides the tick period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger used for start/stop debug records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOnCancel sets the task posted when the context is cancelled. The
// default cancels the engine directly; owners that redraw on stop pass
// their own stop path.
func WithOnCancel(fn func()) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.onCancel = fn
		}
	}
}

// NewScheduler creates a scheduler for e that posts ticks to d.
func NewScheduler(e *Engine, d Dispatcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		engine:   e,
		dispatch: d,
		clock:    SystemClock,
		interval: DefaultInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.onCancel = e.Cancel
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start launches the ticker goroutine. The engine should already be
// running. Cancelling ctx tears the schedule down and cancels the engine.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSchedulerStarted
	}
	s.started = true

	ticker := s.clock.NewTicker(s.interval)
	s.logger.Debug("countdown schedule started",
		"interval", s.interval, "total", s.engine.Total())

	go s.run(ctx, ticker)
	return nil
}

// Stop ends the schedule. Safe to call from any goroutine, any number of
// times, including from a posted task. Once Stop returns on the
// dispatcher's goroutine, no further ticks reach the engine.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once the ticker goroutine has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

func (s *Scheduler) run(ctx context.Context, ticker Ticker) {
	defer close(s.done)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			s.logger.Debug("countdown schedule stopped")
			return
		case <-ctx.Done():
			s.Stop()
			s.dispatch.Post(s.onCancel)
			s.logger.Debug("countdown schedule cancelled", "err", ctx.Err())
			return
		case <-ticker.C():
			accepted := s.dispatch.Post(s.tick)
			if !accepted {
				s.Stop()
				s.logger.Debug("countdown dispatcher closed")
				return
			}
		}
	}
}

// tick runs on the dispatcher's goroutine. A tick queued before Stop is
// dropped, so a stopped schedule never touches a restarted engine.
func (s *Scheduler) tick() {
	select {
	case <-s.stop:
		return
	default:
	}
	if !s.engine.Tick() {
		s.Stop()
	}
}
