// This file converts legacy configuration files to the Lua format.

package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/opd-ai/go-annotate/internal/colors"
)

// Migrator converts configurations to the Lua format.
type Migrator struct {
	// includeComments adds explanatory comments to the output.
	includeComments bool
	// preserveDefaults includes settings even when they match defaults.
	preserveDefaults bool
}

// MigratorOption is a functional option for configuring a Migrator.
type MigratorOption func(*Migrator)

// WithComments enables adding explanatory comments to the Lua output.
func WithComments(include bool) MigratorOption {
	return func(m *Migrator) {
		m.includeComments = include
	}
}

// WithDefaults includes settings that match default values in the output.
func WithDefaults(preserve bool) MigratorOption {
	return func(m *Migrator) {
		m.preserveDefaults = preserve
	}
}

// NewMigrator creates a new Migrator with the given options.
func NewMigrator(opts ...MigratorOption) *Migrator {
	m := &Migrator{
		includeComments:  true,
		preserveDefaults: false,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// luaField is one rendered annotate.config entry.
type luaField struct {
	section string
	key     string
	value   string
}

// fields renders cfg in a fixed order, grouped by section.
func fields(cfg *Config) []luaField {
	sizes := make([]string, len(cfg.Ink.BrushSizes))
	for i, s := range cfg.Ink.BrushSizes {
		sizes[i] = formatFloat(s)
	}
	return []luaField{
		{"Window", "width", strconv.Itoa(cfg.Window.Width)},
		{"Window", "height", strconv.Itoa(cfg.Window.Height)},
		{"Window", "x", strconv.Itoa(cfg.Window.X)},
		{"Window", "y", strconv.Itoa(cfg.Window.Y)},
		{"Window", "title", quote(cfg.Window.Title)},
		{"Window", "transparent", strconv.FormatBool(cfg.Window.Transparent)},
		{"Window", "always_on_top", strconv.FormatBool(cfg.Window.AlwaysOnTop)},
		{"Window", "skip_taskbar", strconv.FormatBool(cfg.Window.SkipTaskbar)},
		{"Window", "tps", strconv.Itoa(cfg.Window.TPS)},
		{"Ink", "pen_color", quote(colors.Name(cfg.Ink.PenColor))},
		{"Ink", "pen_size", formatFloat(cfg.Ink.PenSize)},
		{"Ink", "highlighter_size", formatFloat(cfg.Ink.HighlighterSize)},
		{"Ink", "eraser_radius", formatFloat(cfg.Ink.EraserRadius)},
		{"Ink", "brush_sizes", "{ " + strings.Join(sizes, ", ") + " }"},
		{"Ink", "start_mode", quote(cfg.Ink.StartMode.String())},
		{"Ink", "background", quote(colors.Name(cfg.Ink.Background))},
		{"Magic pen", "particle_kind", quote(cfg.Particles.Kind.String())},
		{"Magic pen", "particle_seed", strconv.FormatUint(cfg.Particles.Seed, 10)},
		{"Export", "export_dir", quote(cfg.Export.Dir)},
		{"Export", "export_backdrop", strconv.FormatBool(cfg.Export.Backdrop)},
	}
}

// MigrateToLua converts a Config to Lua configuration format.
// Returns the Lua configuration as bytes suitable for writing to a file.
func (m *Migrator) MigrateToLua(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	if m.includeComments {
		buf.WriteString("-- go-annotate Lua configuration\n")
		buf.WriteString("-- Converted from the legacy key value format\n\n")
	}

	defaults := DefaultConfig()
	want := fields(&defaults)

	buf.WriteString("annotate.config = {\n")
	section := ""
	for i, f := range fields(cfg) {
		if !m.preserveDefaults && f.value == want[i].value {
			continue
		}
		if m.includeComments && f.section != section {
			fmt.Fprintf(&buf, "    -- %s\n", f.section)
			section = f.section
		}
		fmt.Fprintf(&buf, "    %s = %s,\n", f.key, f.value)
	}
	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

// quote renders s as a single quoted Lua string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MigrateLegacyFile reads a legacy file and converts it to Lua format.
func MigrateLegacyFile(path string, opts ...MigratorOption) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return MigrateLegacyContent(content, opts...)
}

// MigrateLegacyContent converts legacy content to Lua format.
func MigrateLegacyContent(content []byte, opts ...MigratorOption) ([]byte, error) {
	cfg, err := NewLegacyParser().Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse legacy config: %w", err)
	}
	return NewMigrator(opts...).MigrateToLua(cfg)
}
