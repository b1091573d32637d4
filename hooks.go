package main

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/ringdown/pkg/chime"
	"gitlab.com/tinyland/lab/ringdown/pkg/config"
	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/metrics"
	"gitlab.com/tinyland/lab/ringdown/pkg/notify"
	"gitlab.com/tinyland/lab/ringdown/pkg/widgets"
)

type player interface {
	Play() error
}

// hooks fans widget events out to metrics, MQTT and the chime. Every field
// is optional.
type hooks struct {
	logger   *slog.Logger
	metrics  *metrics.Collector
	pub      notify.Publisher
	progress bool
	bell     player
	now      func() time.Time
}

// newHooks builds the sinks enabled in cfg. A broker that cannot be
// reached is logged and skipped.
func newHooks(ctx context.Context, cfg *config.Config, logger *slog.Logger) *hooks {
	h := &hooks{
		logger:   logger,
		metrics:  metrics.NewCollector(),
		progress: cfg.Notify.Progress,
		now:      time.Now,
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			logger.Info("serving metrics", "addr", cfg.Metrics.Addr)
			if err := h.metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if cfg.Notify.Broker != "" {
		pub, err := notify.NewMQTTPublisher(cfg.Notify.Broker, cfg.Notify.ClientID, cfg.Notify.Topic)
		if err != nil {
			logger.Warn("mqtt unavailable", "broker", cfg.Notify.Broker, "error", err)
		} else {
			h.pub = notify.NewAsync(pub, 0, logger)
		}
	}

	if cfg.Chime.Enabled {
		h.bell = chime.New(cfg.Chime.Volume)
	}
	return h
}

// attach registers the widget listeners. extra runs after every redraw and
// done after completion; either may be nil.
func (h *hooks) attach(w *widgets.CountdownWidget, extra func(countdown.RenderState), done func()) {
	w.OnRedraw(func(st countdown.RenderState) {
		h.redraw(w.State(), st)
		if extra != nil {
			extra(st)
		}
	})
	w.OnFinished(func() {
		h.finished(w.Snapshot())
		if done != nil {
			done()
		}
	})
}

// redraw classifies a repaint by the ring state that caused it. The first
// running frame carries the full duration; later ones follow ticks.
func (h *hooks) redraw(state countdown.State, st countdown.RenderState) {
	switch state {
	case countdown.StateRunning:
		if st.Remaining == st.Total {
			h.metrics.RecordStart(st)
			h.publish(notify.EventStarted, st)
			return
		}
		h.metrics.RecordTick(st)
		if h.progress {
			h.publish(notify.EventTick, st)
		}
	case countdown.StateCancelled:
		h.metrics.RecordCancel(st)
		h.publish(notify.EventCancelled, st)
	}
}

// finished records completion. A zero-length countdown finishes inside
// Start without a running frame, so its start is recorded here.
func (h *hooks) finished(st countdown.RenderState) {
	if st.Total == 0 {
		h.metrics.RecordStart(st)
		h.publish(notify.EventStarted, st)
	}
	h.metrics.RecordFinish()
	h.publish(notify.EventFinished, st)
	if h.bell != nil {
		if err := h.bell.Play(); err != nil {
			h.logger.Warn("chime failed", "error", err)
		}
	}
}

func (h *hooks) publish(typ notify.EventType, st countdown.RenderState) {
	if h.pub == nil {
		return
	}
	if err := h.pub.Publish(notify.NewEvent(typ, st, h.now())); err != nil {
		h.logger.Debug("publish failed", "event", typ, "error", err)
	}
}

func (h *hooks) close() {
	if h.pub == nil {
		return
	}
	if err := h.pub.Close(); err != nil {
		h.logger.Debug("notify close", "error", err)
	}
}
