// Package metrics exposes countdown activity as Prometheus metrics.
//
// Counters:
//
//	ringdown_countdowns_started_total
//	ringdown_countdowns_finished_total
//	ringdown_countdowns_cancelled_total
//	ringdown_ticks_total
//
// Gauges and histograms:
//
//	ringdown_remaining_seconds      seconds left on the current countdown
//	ringdown_run_duration_seconds   wall time from start to finish
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
)

// Collector holds the countdown metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	started   prometheus.Counter
	finished  prometheus.Counter
	cancelled prometheus.Counter
	ticks     prometheus.Counter
	remaining prometheus.Gauge
	duration  prometheus.Histogram

	mu      sync.Mutex
	startAt time.Time
	now     func() time.Time
}

// NewCollector creates and registers the countdown metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ringdown_countdowns_started_total",
			Help: "Total number of countdowns started",
		}),
		finished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ringdown_countdowns_finished_total",
			Help: "Total number of countdowns that reached zero",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ringdown_countdowns_cancelled_total",
			Help: "Total number of countdowns stopped before zero",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ringdown_ticks_total",
			Help: "Total number of one-second ticks applied",
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ringdown_remaining_seconds",
			Help: "Seconds left on the current countdown",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ringdown_run_duration_seconds",
			Help:    "Wall time from start to completion",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		now: time.Now,
	}
	c.registry.MustRegister(c.started, c.finished, c.cancelled, c.ticks, c.remaining, c.duration)
	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordStart marks a countdown as started.
func (c *Collector) RecordStart(st countdown.RenderState) {
	c.mu.Lock()
	c.startAt = c.now()
	c.mu.Unlock()
	c.started.Inc()
	c.remaining.Set(float64(st.Remaining))
}

// RecordTick records one applied tick.
func (c *Collector) RecordTick(st countdown.RenderState) {
	c.ticks.Inc()
	c.remaining.Set(float64(st.Remaining))
}

// RecordFinish records a completed countdown and its wall-clock duration.
func (c *Collector) RecordFinish() {
	c.finished.Inc()
	c.remaining.Set(0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.startAt.IsZero() {
		c.duration.Observe(c.now().Sub(c.startAt).Seconds())
		c.startAt = time.Time{}
	}
}

// RecordCancel records a countdown stopped before zero.
func (c *Collector) RecordCancel(st countdown.RenderState) {
	c.cancelled.Inc()
	c.remaining.Set(float64(st.Remaining))

	c.mu.Lock()
	c.startAt = time.Time{}
	c.mu.Unlock()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", addr, err)
	}
	return c.serve(ctx, ln)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics serve: %w", err)
	}
}
