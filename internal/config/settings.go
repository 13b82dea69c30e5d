package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/opd-ai/go-annotate/internal/colors"
	"github.com/opd-ai/go-annotate/internal/particle"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// setter applies one raw setting value to a Config.
type setter func(cfg *Config, value string) error

// settings maps every recognized key to its setter. Both the Lua and the
// legacy parser funnel values through this table so they accept the same
// keys with the same semantics.
var settings = map[string]setter{
	"width":  intSetter(func(c *Config) *int { return &c.Window.Width }),
	"height": intSetter(func(c *Config) *int { return &c.Window.Height }),
	"x":      intSetter(func(c *Config) *int { return &c.Window.X }),
	"y":      intSetter(func(c *Config) *int { return &c.Window.Y }),
	"tps":    intSetter(func(c *Config) *int { return &c.Window.TPS }),
	"title": func(c *Config, v string) error {
		c.Window.Title = v
		return nil
	},
	"transparent":   boolSetter(func(c *Config) *bool { return &c.Window.Transparent }),
	"always_on_top": boolSetter(func(c *Config) *bool { return &c.Window.AlwaysOnTop }),
	"skip_taskbar":  boolSetter(func(c *Config) *bool { return &c.Window.SkipTaskbar }),

	"pen_color":        colorSetter(func(c *Config) *color.RGBA { return &c.Ink.PenColor }),
	"background":       colorSetter(func(c *Config) *color.RGBA { return &c.Ink.Background }),
	"pen_size":         floatSetter(func(c *Config) *float64 { return &c.Ink.PenSize }),
	"highlighter_size": floatSetter(func(c *Config) *float64 { return &c.Ink.HighlighterSize }),
	"eraser_radius":    floatSetter(func(c *Config) *float64 { return &c.Ink.EraserRadius }),
	"brush_sizes": func(c *Config, v string) error {
		sizes, err := parseSizes(v)
		if err != nil {
			return err
		}
		c.Ink.BrushSizes = sizes
		return nil
	},
	"start_mode": func(c *Config, v string) error {
		m, err := tool.ParseMode(v)
		if err != nil {
			return err
		}
		c.Ink.StartMode = m
		return nil
	},

	"particle_kind": func(c *Config, v string) error {
		k, err := particle.ParseKind(v)
		if err != nil {
			return err
		}
		c.Particles.Kind = k
		return nil
	},
	"particle_seed": func(c *Config, v string) error {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", v, err)
		}
		c.Particles.Seed = n
		return nil
	},

	"export_dir": func(c *Config, v string) error {
		c.Export.Dir = v
		return nil
	},
	"export_backdrop": boolSetter(func(c *Config) *bool { return &c.Export.Backdrop }),
}

// Keys returns the recognized setting names in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// apply sets key on cfg. Unknown keys are reported as errors.
func apply(cfg *Config, key, value string) error {
	set, ok := settings[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if err := set(cfg, value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

func intSetter(field func(*Config) *int) setter {
	return func(c *Config, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatSetter(field func(*Config) *float64) setter {
	return func(c *Config, v string) error {
		f, err := parseFloat(v)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func boolSetter(field func(*Config) *bool) setter {
	return func(c *Config, v string) error {
		*field(c) = parseBool(v)
		return nil
	}
}

func colorSetter(field func(*Config) *color.RGBA) setter {
	return func(c *Config, v string) error {
		clr, err := colors.Parse(v)
		if err != nil {
			return err
		}
		*field(c) = clr
		return nil
	}
}

// parseBool parses a boolean value from a configuration string.
// Accepts "yes", "true", "1", "on" as true; everything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true
	default:
		return false
	}
}

// parseFloat parses a float64 value from a configuration string.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseInt parses an int value from a configuration string.
func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// parseSizes parses a whitespace or comma separated list of numbers.
func parseSizes(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty size list")
	}
	sizes := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", f, err)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}
