// Package theme provides the named colour palettes used to paint the
// countdown ring, plus TOML palette files.
package theme

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidColor is returned for colours that are not #RRGGBB.
var ErrInvalidColor = errors.New("theme: invalid hex color")

// Theme is the complete palette for one ring widget.
type Theme struct {
	Name string

	// Base colors
	Background string // terminal area behind the ring
	Foreground string // status text
	Dim        string // de-emphasised text
	Accent     string // highlights

	// Ring colors
	OuterFill  string // large background circle
	InnerFill  string // small centre circle
	RingStroke string // progress arc
	Label      string // m:s text

	// Help line
	HelpKey  string
	HelpDesc string
}

// Current holds the active theme (set via SetCurrent).
var Current Theme

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func init() {
	thRegisterBuiltins()
	Current = thDefaultTheme()
}

// Get returns a named theme, falling back to Default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup returns a named theme and whether it exists.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	Current = Get(name)
}

// Register validates t and adds it to the registry, replacing any theme
// with the same name.
func Register(t Theme) error {
	if err := thValidateTheme(t); err != nil {
		return err
	}
	thRegister(t)
	return nil
}

// thRegister adds a theme to the registry under its lowercase name.
func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}

// ParseColor parses "#RRGGBB" into an opaque colour.
func ParseColor(hex string) (color.RGBA, error) {
	if !thHexColorRegex.MatchString(hex) {
		return color.RGBA{}, fmt.Errorf("%w: %q (expected #RRGGBB)", ErrInvalidColor, hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustColor is ParseColor for compile-time constants. It panics on bad
// input.
func MustColor(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats an opaque colour as "#rrggbb".
func Hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
