// Package colors parses and formats the colour values used in go-annotate
// configuration files and keyboard palettes.
package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Named maps colour names to their RGBA values.
var Named = map[string]color.RGBA{
	"black":     {0, 0, 0, 255},
	"white":     {255, 255, 255, 255},
	"red":       {255, 0, 0, 255},
	"green":     {0, 128, 0, 255},
	"lime":      {0, 255, 0, 255},
	"blue":      {0, 0, 255, 255},
	"yellow":    {255, 255, 0, 255},
	"cyan":      {0, 255, 255, 255},
	"magenta":   {255, 0, 255, 255},
	"orange":    {255, 165, 0, 255},
	"pink":      {255, 192, 203, 255},
	"hotpink":   {255, 105, 180, 255},
	"purple":    {128, 0, 128, 255},
	"gold":      {255, 215, 0, 255},
	"gray":      {128, 128, 128, 255},
	"grey":      {128, 128, 128, 255},
	"brown":     {165, 42, 42, 255},
	"navy":      {0, 0, 128, 255},
	"darkgreen": {0, 100, 0, 255},

	// transparent keeps alpha at 1 so an overlay painted with it still
	// receives pointer input; none is fully transparent.
	"transparent": {0, 0, 0, 1},
	"none":        {0, 0, 0, 0},
}

// Palette is the ordered set of ink colours offered by the keyboard
// shortcuts 1 through 6.
var Palette = []color.RGBA{
	Named["red"],
	Named["black"],
	Named["blue"],
	Named["darkgreen"],
	Named["yellow"],
	Named["white"],
}

// Backgrounds are the overlay backgrounds cycled by the host.
var Backgrounds = []color.RGBA{
	Named["transparent"],
	Named["white"],
	Named["black"],
}

// Parse converts a colour string to RGBA. Accepted forms are names,
// "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the # is optional),
// "rgb(r, g, b)" and "rgba(r, g, b, a)" where a is 0-255 or 0.0-1.0.
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	lower := strings.ToLower(s)
	if c, ok := Named[lower]; ok {
		return c, nil
	}
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		return parseFunc(s[5:len(s)-1], 4)
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		return parseFunc(s[4:len(s)-1], 3)
	case strings.HasPrefix(s, "#") || isHex(s):
		return parseHex(strings.TrimPrefix(s, "#"))
	default:
		return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
	}
}

// MustParse is like Parse but panics on error.
func MustParse(s string) color.RGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHex(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

func parseHex(s string) (color.RGBA, error) {
	var digits int
	switch len(s) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i := 0; i*digits < len(s); i++ {
		part := s[i*digits : (i+1)*digits]
		if digits == 1 {
			part += part
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex component %q: %w", part, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseFunc(body string, n int) (color.RGBA, error) {
	parts := strings.Split(body, ",")
	if len(parts) != n {
		return color.RGBA{}, fmt.Errorf("expected %d color values, got %d", n, len(parts))
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == 3 && strings.Contains(p, ".") {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid alpha value: %w", err)
			}
			ch[i] = uint8(min(max(f, 0), 1)*255 + 0.5)
			continue
		}
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color value %q: %w", p, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// ToHex formats c as #RRGGBB, or #RRGGBBAA when c is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Name returns the canonical name of c, or its hex form when c has no
// name.
func Name(c color.RGBA) string {
	best := ""
	for name, v := range Named {
		if v == c && (best == "" || name < best) {
			best = name
		}
	}
	if best != "" {
		return best
	}
	return ToHex(c)
}

// Scale multiplies the alpha of c by opacity, clamped to [0, 1].
func Scale(c color.RGBA, opacity float64) color.RGBA {
	opacity = min(max(opacity, 0), 1)
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
