package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/density"
	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// clearEnv isolates tests from RINGDOWN_* variables in the caller's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"RINGDOWN_SECONDS", "RINGDOWN_THEME", "RINGDOWN_PROTOCOL", "RINGDOWN_MQTT_BROKER"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Countdown.Seconds != countdown.DefaultSeconds {
		t.Errorf("expected %d seconds, got %d", countdown.DefaultSeconds, cfg.Countdown.Seconds)
	}
	if cfg.Countdown.Interval.Duration != time.Second {
		t.Errorf("expected 1s interval, got %s", cfg.Countdown.Interval)
	}
	g := cfg.Geometry(density.Default)
	if g.OuterRadius != 100 || g.RingThickness != 20 || g.LabelSize != 24 {
		t.Errorf("unexpected default geometry %+v", g)
	}
}

func TestLoadFromReaderTOML(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReader(strings.NewReader(`
[general]
log_level = "debug"

[countdown]
seconds = 90
interval = "250ms"
exit_on_finish = true

[ring]
radius_dp = 64
ring_color = "#ff0000"

[display]
theme = "nord"
protocol = "halfblocks"

[notify]
broker = "tcp://localhost:1883"
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != 90 || cfg.Countdown.Interval.Duration != 250*time.Millisecond || !cfg.Countdown.ExitOnFinish {
		t.Errorf("countdown section: %+v", cfg.Countdown)
	}
	if cfg.Ring.RadiusDp != 64 || cfg.Ring.RingThicknessDp != 20 {
		t.Errorf("ring should keep unset defaults: %+v", cfg.Ring)
	}
	if cfg.Notify.Topic != "ringdown/events" {
		t.Errorf("notify topic should default, got %q", cfg.Notify.Topic)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoadFromReaderYAML(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReaderFormat(strings.NewReader(`
countdown:
  seconds: 30
  interval: 2s
ring:
  preset: small
  label_text_size_sp: 18
chime:
  enabled: true
  volume: 0.8
`), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != 30 || cfg.Countdown.Interval.Duration != 2*time.Second {
		t.Errorf("countdown section: %+v", cfg.Countdown)
	}
	if cfg.Ring.RadiusDp != 48 || cfg.Ring.RingThicknessDp != 10 {
		t.Errorf("small preset not applied: %+v", cfg.Ring)
	}
	if cfg.Ring.LabelTextSizeSp != 18 {
		t.Errorf("explicit label size should override preset, got %v", cfg.Ring.LabelTextSizeSp)
	}
	if !cfg.Chime.Enabled || cfg.Chime.Volume != 0.8 {
		t.Errorf("chime section: %+v", cfg.Chime)
	}
}

func TestLoadFromReaderEmptyYAML(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReaderFormat(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != countdown.DefaultSeconds {
		t.Error("empty document should yield defaults")
	}
}

func TestLoadFromReaderRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromReader(strings.NewReader("[countdown]\ninterval = \"soon\"\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Fatalf("expected invalid duration error, got %v", err)
	}
	_, err = LoadFromReaderFormat(strings.NewReader("countdown:\n  interval: -1s\n"), FormatYAML)
	if err == nil || !strings.Contains(err.Error(), "negative duration") {
		t.Fatalf("expected negative duration error, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RINGDOWN_SECONDS", "12")
	t.Setenv("RINGDOWN_THEME", "dracula")
	t.Setenv("RINGDOWN_PROTOCOL", "kitty")
	t.Setenv("RINGDOWN_MQTT_BROKER", "tcp://broker:1883")

	cfg, err := LoadFromReader(strings.NewReader("[countdown]\nseconds = 99\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != 12 || cfg.Display.Theme != "dracula" ||
		cfg.Display.Protocol != "kitty" || cfg.Notify.Broker != "tcp://broker:1883" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("RINGDOWN_SECONDS", "ten")
	if _, err := LoadFromReader(strings.NewReader("")); err == nil {
		t.Error("expected error for non-numeric RINGDOWN_SECONDS")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	yml := filepath.Join(dir, "ringdown.yml")
	if err := os.WriteFile(yml, []byte("countdown:\n  seconds: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFromFile(yml)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != 7 {
		t.Errorf("yaml file: expected 7, got %d", cfg.Countdown.Seconds)
	}

	cfg, err = LoadFromFile(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != countdown.DefaultSeconds {
		t.Error("missing file should yield defaults")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("seconds = = 3"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("parse error should name the file, got %v", err)
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "ringdown"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ringdown", "config.toml"), []byte("[countdown]\nseconds = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Countdown.Seconds != 42 {
		t.Errorf("expected XDG config to load, got %d", cfg.Countdown.Seconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantIs  error
		wantMsg string
	}{
		{"negative seconds", func(c *Config) { c.Countdown.Seconds = -1 }, countdown.ErrInvalidDuration, ""},
		{"zero radius", func(c *Config) { c.Ring.RadiusDp = 0 }, geometry.ErrInvalidRadius, ""},
		{"zero thickness", func(c *Config) { c.Ring.RingThicknessDp = 0 }, geometry.ErrInvalidThickness, ""},
		{"zero label", func(c *Config) { c.Ring.LabelTextSizeSp = 0 }, geometry.ErrInvalidTextSize, ""},
		{"bad color", func(c *Config) { c.Ring.LabelColor = "red" }, theme.ErrInvalidColor, "ring.label_color"},
		{"bad level", func(c *Config) { c.General.LogLevel = "loud" }, nil, "general.log_level"},
		{"zero interval", func(c *Config) { c.Countdown.Interval = Duration{} }, nil, "countdown.interval"},
		{"unknown theme", func(c *Config) { c.Display.Theme = "sepia" }, nil, "unknown theme"},
		{"unknown protocol", func(c *Config) { c.Display.Protocol = "ascii-art" }, nil, "display.protocol"},
		{"zero density", func(c *Config) { c.Display.Density = 0 }, nil, "display.density"},
		{"loud chime", func(c *Config) { c.Chime.Volume = 1.5 }, nil, "chime.volume"},
		{"broker without topic", func(c *Config) { c.Notify.Broker = "tcp://x:1883"; c.Notify.Topic = "" }, nil, "notify.topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("expected errors.Is(%v), got %v", tt.wantIs, err)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %v", tt.wantMsg, err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Countdown.Seconds = -5
	cfg.Ring.RadiusDp = -1
	err := cfg.Validate()
	if !errors.Is(err, countdown.ErrInvalidDuration) || !errors.Is(err, geometry.ErrInvalidRadius) {
		t.Errorf("both problems should be reported: %v", err)
	}
}

func TestThemeOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.Theme = "nord"
	cfg.Ring.RingColor = "#123456"

	th, err := cfg.Theme()
	if err != nil {
		t.Fatal(err)
	}
	nord := theme.Get("nord")
	if th.RingStroke != "#123456" {
		t.Errorf("ring colour override ignored: %q", th.RingStroke)
	}
	if th.InnerFill != nord.InnerFill || th.Label != nord.Label {
		t.Error("unset colours should come from the theme")
	}
}

func TestThemeFile(t *testing.T) {
	th := theme.Get("gruvbox")
	th.Name = "config-test-theme"
	data, err := theme.SaveToTOML(th)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Display.ThemeFile = path
	got, err := cfg.Theme()
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "config-test-theme" || got.RingStroke != th.RingStroke {
		t.Errorf("theme file not used: %+v", got)
	}

	cfg.Display.ThemeFile = filepath.Join(t.TempDir(), "nope.toml")
	if _, err := cfg.Theme(); err == nil {
		t.Error("expected error for missing theme file")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	clearEnv(t)
	for _, f := range []Format{FormatTOML, FormatYAML} {
		cfg := DefaultConfig()
		cfg.Countdown.Seconds = 33
		cfg.Countdown.Interval = Duration{500 * time.Millisecond}

		var buf bytes.Buffer
		if err := Encode(&buf, cfg, f); err != nil {
			t.Fatalf("format %d: encode: %v", f, err)
		}
		back, err := LoadFromReaderFormat(&buf, f)
		if err != nil {
			t.Fatalf("format %d: decode: %v", f, err)
		}
		if *back != *cfg {
			t.Errorf("format %d: roundtrip mismatch\n got %+v\nwant %+v", f, back, cfg)
		}
	}
}

func TestRingPreset(t *testing.T) {
	if p := RingPreset("large"); p.RadiusDp != 160 {
		t.Errorf("large radius = %v", p.RadiusDp)
	}
	if p := RingPreset("bogus"); p.Preset != "medium" {
		t.Errorf("unknown preset should fall back to medium, got %q", p.Preset)
	}
	for _, name := range PresetNames() {
		cfg := DefaultConfig()
		cfg.Ring = RingPreset(name)
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("got %s", d.Duration)
	}
	if err := d.UnmarshalText(nil); err != nil || d.Duration != 0 {
		t.Errorf("empty text should clear, got %s, %v", d.Duration, err)
	}
	out, _ := Duration{2 * time.Second}.MarshalText()
	if string(out) != "2s" {
		t.Errorf("MarshalText = %q", out)
	}
}
