package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/ringdown/pkg/config"
	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/density"
	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
	"gitlab.com/tinyland/lab/ringdown/pkg/metrics"
	"gitlab.com/tinyland/lab/ringdown/pkg/notify"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

type countingBell struct {
	plays int
	err   error
}

func (b *countingBell) Play() error {
	b.plays++
	return b.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHooks(pub notify.Publisher, bell player, progress bool) *hooks {
	return &hooks{
		logger:   discardLogger(),
		metrics:  metrics.NewCollector(),
		pub:      pub,
		progress: progress,
		bell:     bell,
		now:      func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func eventTypes(events []notify.Event) []notify.EventType {
	out := make([]notify.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestFlagOverridesApplyOnlySetFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.ThemeFile = "/tmp/custom.toml"
	wantProtocol := cfg.Display.Protocol

	ov := flagOverrides{
		seconds:    90,
		theme:      "nord",
		protocol:   "kitty",
		chime:      true,
		mqttBroker: "tcp://localhost:1883",
		set:        map[string]bool{"seconds": true, "theme": true, "chime": true, "mqtt-broker": true},
	}
	ov.apply(cfg)

	if cfg.Countdown.Seconds != 90 {
		t.Errorf("seconds = %d, want 90", cfg.Countdown.Seconds)
	}
	if cfg.Display.Theme != "nord" || cfg.Display.ThemeFile != "" {
		t.Errorf("theme flag should replace the theme file, got %q / %q", cfg.Display.Theme, cfg.Display.ThemeFile)
	}
	if cfg.Display.Protocol != wantProtocol {
		t.Errorf("unset protocol flag changed config to %q", cfg.Display.Protocol)
	}
	if !cfg.Chime.Enabled || cfg.Notify.Broker != "tcp://localhost:1883" {
		t.Errorf("chime/broker not applied: %+v %+v", cfg.Chime, cfg.Notify)
	}
	if cfg.Metrics.Addr != "" {
		t.Errorf("metrics addr = %q, want empty", cfg.Metrics.Addr)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Countdown.Seconds != config.DefaultConfig().Countdown.Seconds {
		t.Errorf("seconds = %d, want default", cfg.Countdown.Seconds)
	}
}

func TestHooksClassifyRedraws(t *testing.T) {
	pub := notify.NewFakePublisher()
	h := testHooks(pub, nil, false)

	h.redraw(countdown.StateRunning, countdown.Project(3, 3))
	h.redraw(countdown.StateRunning, countdown.Project(2, 3))
	h.redraw(countdown.StateCancelled, countdown.Project(2, 3))
	h.redraw(countdown.StateIdle, countdown.Project(3, 3))

	got := eventTypes(pub.Recorded())
	want := []notify.EventType{notify.EventStarted, notify.EventCancelled}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestHooksPublishProgress(t *testing.T) {
	pub := notify.NewFakePublisher()
	h := testHooks(pub, nil, true)

	h.redraw(countdown.StateRunning, countdown.Project(2, 2))
	h.redraw(countdown.StateRunning, countdown.Project(1, 2))
	h.redraw(countdown.StateRunning, countdown.Project(0, 2))

	events := pub.Recorded()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[2].Type != notify.EventTick || events[2].Label != "0:0" {
		t.Errorf("last event = %+v", events[2])
	}
}

func TestHooksFinishedRingsBell(t *testing.T) {
	pub := notify.NewFakePublisher()
	bell := &countingBell{err: errors.New("no audio device")}
	h := testHooks(pub, bell, false)

	h.finished(countdown.Project(0, 5))

	if bell.plays != 1 {
		t.Errorf("bell played %d times, want 1", bell.plays)
	}
	events := pub.Recorded()
	if len(events) != 1 || events[0].Type != notify.EventFinished {
		t.Errorf("events = %v", eventTypes(events))
	}
	if !events[0].Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("timestamp = %v", events[0].Timestamp)
	}
}

func TestHooksCloseClosesPublisher(t *testing.T) {
	pub := notify.NewFakePublisher()
	h := testHooks(pub, nil, false)
	h.close()
	if !pub.Closed {
		t.Error("publisher not closed")
	}

	// No publisher configured.
	testHooks(nil, nil, false).close()
}

func headlessConfig(seconds int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Countdown.Seconds = seconds
	cfg.Countdown.Interval = config.Duration{Duration: time.Millisecond}
	return cfg
}

func TestRunHeadlessPrintsEveryLabel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub := notify.NewFakePublisher()
	bell := &countingBell{}
	h := testHooks(pub, bell, false)

	var out bytes.Buffer
	if err := runHeadless(ctx, headlessConfig(3), theme.Get("default"), h, &out, discardLogger()); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{"0:3", "0:2", "0:1", "0:0"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Errorf("labels = %v, want %v", lines, want)
	}
	if bell.plays != 1 {
		t.Errorf("bell played %d times, want 1", bell.plays)
	}
	got := eventTypes(pub.Recorded())
	if len(got) != 2 || got[0] != notify.EventStarted || got[1] != notify.EventFinished {
		t.Errorf("events = %v", got)
	}
}

func TestRunHeadlessZeroDuration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	pub := notify.NewFakePublisher()
	h := testHooks(pub, nil, false)
	if err := runHeadless(ctx, headlessConfig(0), theme.Get("default"), h, &out, discardLogger()); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "0:0" {
		t.Errorf("output = %q, want 0:0", got)
	}

	got := eventTypes(pub.Recorded())
	if len(got) != 2 || got[0] != notify.EventStarted || got[1] != notify.EventFinished {
		t.Errorf("events = %v, want [STARTED FINISHED]", got)
	}
	started := counterValue(t, h.metrics, "ringdown_countdowns_started_total")
	finished := counterValue(t, h.metrics, "ringdown_countdowns_finished_total")
	if started != 1 || finished != 1 {
		t.Errorf("started = %v, finished = %v, want 1 and 1", started, finished)
	}
}

func counterValue(t *testing.T, c *metrics.Collector, name string) float64 {
	t.Helper()
	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestRunHeadlessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := headlessConfig(60)
	cfg.Countdown.Interval = config.Duration{Duration: time.Hour}

	errc := make(chan error, 1)
	go func() {
		errc <- runHeadless(ctx, cfg, theme.Get("default"), testHooks(nil, nil, false), io.Discard, discardLogger())
	}()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runHeadless did not return after cancel")
	}
}

func TestRunSnapshotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.png")
	cfg := config.DefaultConfig()
	cfg.Countdown.Seconds = 65

	if err := runSnapshot(cfg, theme.Get("default"), path, io.Discard); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("snapshot is not a PNG")
	}
}

func TestRunSnapshotToStdout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Density = 0.5

	var out bytes.Buffer
	if err := runSnapshot(cfg, theme.Get("default"), "-", &out); err != nil {
		t.Fatalf("runSnapshot: %v", err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	side := 2 * int(cfg.Ring.RadiusDp*cfg.Display.Density)
	if b := img.Bounds(); b.Dx() != side || b.Dy() != side {
		t.Errorf("frame bounds %v, want %dx%d", b, side, side)
	}
}

func TestNewWidgetRejectsBadGeometry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ring.RingThicknessDp = -1
	if _, err := newWidget(context.Background(), cfg, theme.Get("default"), density.Default, nil); err == nil {
		t.Error("expected an error for negative ring thickness")
	}
}

func TestNewWidgetRejectsDensityThatErasesTheRing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Ring.RingThicknessDp = 1
	_, err := newWidget(context.Background(), cfg, theme.Get("default"), density.Fixed(0.25), nil)
	if !errors.Is(err, geometry.ErrInvalidThickness) {
		t.Errorf("expected ErrInvalidThickness, got %v", err)
	}
}
