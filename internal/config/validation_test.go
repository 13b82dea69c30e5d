package config

import (
	"strings"
	"testing"
)

func TestValidationErrorError(t *testing.T) {
	ve := ValidationError{Field: "pen_size", Message: "must be positive"}
	if got, want := ve.Error(), "pen_size: must be positive"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationResultMerge(t *testing.T) {
	a := &ValidationResult{}
	a.AddError("x", "bad")
	b := &ValidationResult{}
	b.AddError("y", "bad")
	b.AddWarning("z", "odd")

	a.Merge(b)
	a.Merge(nil)
	if len(a.Errors) != 2 || len(a.Warnings) != 1 {
		t.Errorf("Merge gave %d errors, %d warnings, want 2 and 1", len(a.Errors), len(a.Warnings))
	}
	if a.IsValid() {
		t.Error("IsValid() = true with errors")
	}
	if err := a.Error(); err == nil || !strings.Contains(err.Error(), "x: bad; y: bad") {
		t.Errorf("Error() = %v, want both messages joined", err)
	}
	if (&ValidationResult{}).Error() != nil {
		t.Error("empty result should have nil Error()")
	}
}

func TestValidatorDefaults(t *testing.T) {
	cfg := DefaultConfig()
	result := NewValidator().Validate(&cfg)
	if !result.IsValid() {
		t.Errorf("default config invalid: %v", result.Error())
	}
	if len(result.Warnings) != 0 {
		t.Errorf("default config has warnings: %v", result.Warnings)
	}
}

func TestValidatorValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		wantError   string
		wantWarning string
	}{
		{"negative width", func(c *Config) { c.Window.Width = -1 }, "width", ""},
		{"negative height", func(c *Config) { c.Window.Height = -5 }, "height", ""},
		{"huge width", func(c *Config) { c.Window.Width = 50000 }, "", "width"},
		{"zero tps", func(c *Config) { c.Window.TPS = 0 }, "tps", ""},
		{"fast tps", func(c *Config) { c.Window.TPS = 500 }, "", "tps"},
		{"empty title", func(c *Config) { c.Window.Title = " " }, "", "title"},
		{"zero pen", func(c *Config) { c.Ink.PenSize = 0 }, "pen_size", ""},
		{"huge highlighter", func(c *Config) { c.Ink.HighlighterSize = 1000 }, "", "highlighter_size"},
		{"negative eraser", func(c *Config) { c.Ink.EraserRadius = -1 }, "eraser_radius", ""},
		{"no brush sizes", func(c *Config) { c.Ink.BrushSizes = nil }, "brush_sizes", ""},
		{"bad brush size", func(c *Config) { c.Ink.BrushSizes = []float64{2, -4} }, "brush_sizes[1]", ""},
		{"unsorted brush sizes", func(c *Config) { c.Ink.BrushSizes = []float64{8, 2} }, "", "brush_sizes"},
		{"invisible ink", func(c *Config) { c.Ink.PenColor.A = 0 }, "", "pen_color"},
		{"empty export dir", func(c *Config) { c.Export.Dir = "" }, "export_dir", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			result := NewValidator().Validate(&cfg)

			if tt.wantError != "" && !hasField(result.Errors, tt.wantError) {
				t.Errorf("errors = %v, want one for %q", result.Errors, tt.wantError)
			}
			if tt.wantError == "" && !result.IsValid() {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
			if tt.wantWarning != "" && !hasField(result.Warnings, tt.wantWarning) {
				t.Errorf("warnings = %v, want one for %q", result.Warnings, tt.wantWarning)
			}
		})
	}
}

func TestValidatorStrictMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.TPS = 500

	if err := ValidateConfig(&cfg); err != nil {
		t.Errorf("ValidateConfig() = %v, want nil for a warning", err)
	}
	if err := ValidateConfigStrict(&cfg); err == nil {
		t.Error("ValidateConfigStrict() = nil, want the warning as an error")
	}

	result := NewValidator().WithStrictMode(true).Validate(&cfg)
	if len(result.Warnings) != 0 {
		t.Errorf("strict mode left warnings: %v", result.Warnings)
	}
}

func TestValidateConfigNil(t *testing.T) {
	if ValidateConfig(nil) == nil {
		t.Error("ValidateConfig(nil) = nil, want error")
	}
	if ValidateConfigStrict(nil) == nil {
		t.Error("ValidateConfigStrict(nil) = nil, want error")
	}
}

func hasField(list []ValidationError, field string) bool {
	for _, e := range list {
		if e.Field == field {
			return true
		}
	}
	return false
}
