package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
)

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatForPath picks the syntax from the file extension; anything other
// than .yaml/.yml is TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/ringdown/config.toml
//  2. ~/.config/ringdown/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()

	cfg, err := LoadFromReaderFormat(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader reads TOML configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	return LoadFromReaderFormat(r, FormatTOML)
}

// LoadFromReaderFormat reads configuration in the given syntax. When the
// file names a ring preset, the preset supplies the ring defaults and any
// dimensions set explicitly in the file still win.
func LoadFromReaderFormat(r io.Reader, format Format) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var preset struct {
		Ring struct {
			Preset string `toml:"preset" yaml:"preset"`
		} `toml:"ring" yaml:"ring"`
	}
	if err := decode(data, format, &preset); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if preset.Ring.Preset != "" {
		cfg.Ring = RingPreset(preset.Ring.Preset)
	}
	if err := decode(data, format, cfg); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, format Format, v any) error {
	if format == FormatYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(v); err != nil && err != io.EOF {
			return err
		}
		return nil
	}
	_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v)
	return err
}

// Encode writes cfg in the given syntax.
func Encode(w io.Writer, cfg *Config, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return toml.NewEncoder(w).Encode(cfg)
}

// DefaultConfig returns the default configuration: a five second countdown
// with a medium ring in the default theme.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Countdown: CountdownConfig{
			Seconds:  countdown.DefaultSeconds,
			Interval: Duration{time.Second},
		},
		Ring: mediumPreset(),
		Display: DisplayConfig{
			Theme:    "default",
			Protocol: "auto",
			Density:  1,
		},
		Chime: ChimeConfig{
			Enabled: false,
			Volume:  0.5,
		},
		Notify: NotifyConfig{
			Topic:    "ringdown/events",
			ClientID: "ringdown",
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("RINGDOWN_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RINGDOWN_SECONDS: %w", err)
		}
		cfg.Countdown.Seconds = n
	}
	if v := os.Getenv("RINGDOWN_THEME"); v != "" {
		cfg.Display.Theme = v
	}
	if v := os.Getenv("RINGDOWN_PROTOCOL"); v != "" {
		cfg.Display.Protocol = v
	}
	if v := os.Getenv("RINGDOWN_MQTT_BROKER"); v != "" {
		cfg.Notify.Broker = v
	}
	return nil
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "ringdown", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "ringdown", "config.toml"))
	}
	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
