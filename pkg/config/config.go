package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/density"
	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
	"gitlab.com/tinyland/lab/ringdown/pkg/terminal"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// Config is the complete ringdown configuration.
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Countdown CountdownConfig `toml:"countdown" yaml:"countdown"`
	Ring      RingConfig      `toml:"ring" yaml:"ring"`
	Display   DisplayConfig   `toml:"display" yaml:"display"`
	Chime     ChimeConfig     `toml:"chime" yaml:"chime"`
	Notify    NotifyConfig    `toml:"notify" yaml:"notify"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// CountdownConfig controls the timer itself.
type CountdownConfig struct {
	Seconds      int      `toml:"seconds" yaml:"seconds"`
	Interval     Duration `toml:"interval" yaml:"interval"`
	ExitOnFinish bool     `toml:"exit_on_finish" yaml:"exit_on_finish"`
}

// RingConfig holds ring dimensions in dp/sp and optional colour overrides.
// Empty colours come from the theme.
type RingConfig struct {
	Preset          string  `toml:"preset" yaml:"preset"`
	RadiusDp        float64 `toml:"radius_dp" yaml:"radius_dp"`
	RingThicknessDp float64 `toml:"ring_thickness_dp" yaml:"ring_thickness_dp"`
	LabelTextSizeSp float64 `toml:"label_text_size_sp" yaml:"label_text_size_sp"`
	RingColor       string  `toml:"ring_color" yaml:"ring_color"`
	LabelColor      string  `toml:"label_color" yaml:"label_color"`
	OuterColor      string  `toml:"outer_color" yaml:"outer_color"`
	InnerColor      string  `toml:"inner_color" yaml:"inner_color"`
}

// DisplayConfig selects how the ring reaches the terminal.
type DisplayConfig struct {
	Theme     string  `toml:"theme" yaml:"theme"`
	ThemeFile string  `toml:"theme_file" yaml:"theme_file"`
	Protocol  string  `toml:"protocol" yaml:"protocol"`
	Density   float64 `toml:"density" yaml:"density"`
}

// ChimeConfig controls the completion sound.
type ChimeConfig struct {
	Enabled bool    `toml:"enabled" yaml:"enabled"`
	Volume  float64 `toml:"volume" yaml:"volume"` // 0..1
}

// NotifyConfig controls MQTT events. An empty broker disables them.
type NotifyConfig struct {
	Broker   string `toml:"broker" yaml:"broker"`
	Topic    string `toml:"topic" yaml:"topic"`
	ClientID string `toml:"client_id" yaml:"client_id"`
	Progress bool   `toml:"progress" yaml:"progress"` // publish every tick, not just completion
}

// MetricsConfig controls the Prometheus endpoint. An empty addr disables it.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Validate checks every section and wraps the owning package's sentinel
// error so callers can use errors.Is.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Countdown.Seconds < 0 {
		errs = append(errs, fmt.Errorf("countdown.seconds: %w: got %d", countdown.ErrInvalidDuration, c.Countdown.Seconds))
	}
	if c.Countdown.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("countdown.interval must be positive, got %s", c.Countdown.Interval.Duration))
	}
	if err := c.Geometry(density.Default).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ring: %w", err))
	}
	for _, f := range []struct{ name, val string }{
		{"ring.ring_color", c.Ring.RingColor},
		{"ring.label_color", c.Ring.LabelColor},
		{"ring.outer_color", c.Ring.OuterColor},
		{"ring.inner_color", c.Ring.InnerColor},
	} {
		if f.val == "" {
			continue
		}
		if _, err := theme.ParseColor(f.val); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	if c.Display.ThemeFile == "" && c.Display.Theme != "" {
		if _, ok := theme.Lookup(c.Display.Theme); !ok {
			errs = append(errs, fmt.Errorf("display.theme: unknown theme %q (have %s)",
				c.Display.Theme, strings.Join(theme.Names(), ", ")))
		}
	}
	if p := c.Display.Protocol; p != "" && p != "auto" {
		if _, ok := terminal.ParseProtocol(p); !ok {
			errs = append(errs, fmt.Errorf("display.protocol: unknown protocol %q", p))
		}
	}
	if !(c.Display.Density > 0) || math.IsInf(c.Display.Density, 0) {
		errs = append(errs, fmt.Errorf("display.density must be positive, got %v", c.Display.Density))
	}
	if c.Chime.Volume < 0 || c.Chime.Volume > 1 {
		errs = append(errs, fmt.Errorf("chime.volume must be within [0,1], got %v", c.Chime.Volume))
	}
	if c.Notify.Broker != "" && c.Notify.Topic == "" {
		errs = append(errs, errors.New("notify.topic is required when a broker is set"))
	}

	return errors.Join(errs...)
}

// LogLevel parses general.log_level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.General.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.General.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("general.log_level: %w", err)
	}
	return lvl, nil
}

// Geometry converts the ring dimensions to pixels.
func (c *Config) Geometry(conv density.Converter) geometry.Config {
	return geometry.Config{
		OuterRadius:   conv.DpToPx(c.Ring.RadiusDp),
		RingThickness: conv.DpToPx(c.Ring.RingThicknessDp),
		LabelSize:     conv.SpToPx(c.Ring.LabelTextSizeSp),
	}
}

// Theme resolves the display theme, loading theme_file when set, and
// applies the ring colour overrides.
func (c *Config) Theme() (theme.Theme, error) {
	var th theme.Theme
	if c.Display.ThemeFile != "" {
		loaded, err := theme.LoadFile(c.Display.ThemeFile)
		if err != nil {
			return theme.Theme{}, fmt.Errorf("display.theme_file: %w", err)
		}
		th = loaded
	} else {
		th = theme.Get(c.Display.Theme)
	}

	if c.Ring.OuterColor != "" {
		th.OuterFill = c.Ring.OuterColor
	}
	if c.Ring.InnerColor != "" {
		th.InnerFill = c.Ring.InnerColor
	}
	if c.Ring.RingColor != "" {
		th.RingStroke = c.Ring.RingColor
	}
	if c.Ring.LabelColor != "" {
		th.Label = c.Ring.LabelColor
	}
	return th, nil
}
