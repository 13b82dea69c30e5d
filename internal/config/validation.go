// This file implements validation of configuration values.

package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues such as unusually large sizes.
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Limits above which a value is reported as a warning.
const (
	maxReasonableDimension = 16384
	maxReasonableBrush     = 200
	maxReasonableTPS       = 240
)

// Validator checks configuration values.
type Validator struct {
	// strictMode reports warnings as errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode enables strict validation where warnings are errors.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateWindow(&cfg.Window, result)
	v.validateInk(&cfg.Ink, result)
	v.validateExport(&cfg.Export, result)

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width < 0 {
		result.AddError("width", fmt.Sprintf("must be non-negative, got %d", wc.Width))
	} else if wc.Width > maxReasonableDimension {
		result.AddWarning("width", fmt.Sprintf("unusually large (%d)", wc.Width))
	}
	if wc.Height < 0 {
		result.AddError("height", fmt.Sprintf("must be non-negative, got %d", wc.Height))
	} else if wc.Height > maxReasonableDimension {
		result.AddWarning("height", fmt.Sprintf("unusually large (%d)", wc.Height))
	}

	if wc.TPS <= 0 {
		result.AddError("tps", fmt.Sprintf("must be positive, got %d", wc.TPS))
	} else if wc.TPS > maxReasonableTPS {
		result.AddWarning("tps", fmt.Sprintf("%d ticks per second will speed up particles on most displays", wc.TPS))
	}

	if strings.TrimSpace(wc.Title) == "" {
		result.AddWarning("title", "empty window title")
	}
}

func (v *Validator) validateInk(ic *InkConfig, result *ValidationResult) {
	v.validateSize("pen_size", ic.PenSize, result)
	v.validateSize("highlighter_size", ic.HighlighterSize, result)

	if ic.EraserRadius < 0 {
		result.AddError("eraser_radius", fmt.Sprintf("must be non-negative, got %g", ic.EraserRadius))
	}

	if len(ic.BrushSizes) == 0 {
		result.AddError("brush_sizes", "at least one size is required")
		return
	}
	for i, s := range ic.BrushSizes {
		v.validateSize(fmt.Sprintf("brush_sizes[%d]", i), s, result)
	}
	if !sort.Float64sAreSorted(ic.BrushSizes) {
		result.AddWarning("brush_sizes", "sizes are not in ascending order; [ and ] will cycle in the listed order")
	}

	if ic.PenColor.A == 0 {
		result.AddWarning("pen_color", "fully transparent ink is invisible")
	}
}

func (v *Validator) validateSize(field string, size float64, result *ValidationResult) {
	switch {
	case size <= 0:
		result.AddError(field, fmt.Sprintf("must be positive, got %g", size))
	case size > maxReasonableBrush:
		result.AddWarning(field, fmt.Sprintf("unusually large (%g)", size))
	}
}

func (v *Validator) validateExport(ec *ExportConfig, result *ValidationResult) {
	if strings.TrimSpace(ec.Dir) == "" {
		result.AddError("export_dir", "must not be empty")
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
