package theme

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name string     `toml:"name"`
	Base thTOMLBase `toml:"base"`
	Ring thTOMLRing `toml:"ring"`
	Help thTOMLHelp `toml:"help"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLRing struct {
	Outer  string `toml:"outer"`
	Inner  string `toml:"inner"`
	Stroke string `toml:"stroke"`
	Label  string `toml:"label"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		OuterFill:  tt.Ring.Outer,
		InnerFill:  tt.Ring.Inner,
		RingStroke: tt.Ring.Stroke,
		Label:      tt.Ring.Label,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}

	return t, nil
}

// LoadFile reads a TOML theme file and registers it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, err
	}
	thRegister(t)
	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Background: t.Background,
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		Ring: thTOMLRing{
			Outer:  t.OuterFill,
			Inner:  t.InnerFill,
			Stroke: t.RingStroke,
			Label:  t.Label,
		},
		Help: thTOMLHelp{
			Key:  t.HelpKey,
			Desc: t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thValidateTheme checks that the name is set and every colour is #RRGGBB.
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}

	colorFields := []struct {
		field, value string
	}{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"ring.outer", t.OuterFill},
		{"ring.inner", t.InnerFill},
		{"ring.stroke", t.RingStroke},
		{"ring.label", t.Label},
		{"help.key", t.HelpKey},
		{"help.desc", t.HelpDesc},
	}

	for _, f := range colorFields {
		if f.value == "" {
			return fmt.Errorf("theme: missing required field %q", f.field)
		}
		if !thHexColorRegex.MatchString(f.value) {
			return fmt.Errorf("%w: %q for field %q (expected #RRGGBB)", ErrInvalidColor, f.value, f.field)
		}
	}

	return nil
}
