package config

import (
	"fmt"
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
	// Warnings contains non-fatal issues.
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

// Validator checks a Config for values the overlay cannot run with.
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
	v.validateInput(&cfg.Input, result)
	v.validateLogging(&cfg.Logging, result)
	result.Merge(v.ValidateScene(&cfg.Scene, cfg.Input.ClickLayerMask))

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Width <= 0 {
		result.AddError("window.screen_width", fmt.Sprintf("must be positive, got %d", wc.Width))
	}
	if wc.Height <= 0 {
		result.AddError("window.screen_height", fmt.Sprintf("must be positive, got %d", wc.Height))
	}

	const maxDimension = 16384
	if wc.Width > maxDimension {
		result.AddWarning("window.screen_width", fmt.Sprintf("unusually large value %d", wc.Width))
	}
	if wc.Height > maxDimension {
		result.AddWarning("window.screen_height", fmt.Sprintf("unusually large value %d", wc.Height))
	}

	if wc.TargetFrameRate <= 0 {
		result.AddError("window.target_frame_rate", fmt.Sprintf("must be positive, got %d", wc.TargetFrameRate))
	} else if wc.TargetFrameRate > 240 {
		result.AddWarning("window.target_frame_rate",
			fmt.Sprintf("%d fps re-queries window geometry very often", wc.TargetFrameRate))
	}

	if strings.TrimSpace(wc.Title) == "" {
		result.AddWarning("window.title", "empty title; native backends fall back to process lookup")
	}
	if wc.Backend > BackendHeadless || wc.Backend < BackendAuto {
		result.AddError("window.backend", fmt.Sprintf("unknown backend: %d", wc.Backend))
	}
}

func (v *Validator) validateInput(ic *InputConfig, result *ValidationResult) {
	if ic.ClickLayerMask == 0 {
		result.AddWarning("input.click_layer_mask", "empty mask; colliders never capture input")
	}
}

func (v *Validator) validateLogging(lc *LoggingConfig, result *ValidationResult) {
	switch strings.ToLower(lc.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		result.AddError("logging.log_level", fmt.Sprintf("unknown level %q", lc.Level))
	}
	switch strings.ToLower(lc.Format) {
	case "", "text", "json":
	default:
		result.AddError("logging.log_format", fmt.Sprintf("unknown format %q", lc.Format))
	}
}

// ValidateScene validates the scene section on its own. Hot reloads use it
// before swapping the scene in.
func (v *Validator) ValidateScene(sc *SceneConfig, mask uint32) *ValidationResult {
	result := &ValidationResult{}

	if sc.Camera.Zoom <= 0 {
		result.AddError("scene.camera.zoom", fmt.Sprintf("must be positive, got %g", sc.Camera.Zoom))
	}

	ids := make(map[string]bool, len(sc.Widgets))
	interactive := false
	for i, w := range sc.Widgets {
		field := fmt.Sprintf("scene.widgets[%d]", i+1)
		if ids[w.ID] {
			result.AddError(field+".id", fmt.Sprintf("duplicate id %q", w.ID))
		}
		ids[w.ID] = true
		if w.Width <= 0 || w.Height <= 0 {
			result.AddError(field, fmt.Sprintf("size must be positive, got %gx%g", w.Width, w.Height))
		}
		if w.Role != RoleLabel {
			interactive = true
		}
	}

	for i, b := range sc.Bodies {
		field := fmt.Sprintf("scene.bodies[%d]", i+1)
		if b.Layer < 0 || b.Layer > MaxLayer {
			result.AddError(field+".layer", fmt.Sprintf("must be within 0..%d, got %d", MaxLayer, b.Layer))
			continue
		}
		switch b.Shape {
		case ShapeCircle:
			if b.Radius <= 0 {
				result.AddError(field+".radius", fmt.Sprintf("must be positive, got %g", b.Radius))
			}
		default:
			if b.Width <= 0 || b.Height <= 0 {
				result.AddError(field, fmt.Sprintf("size must be positive, got %gx%g", b.Width, b.Height))
			}
		}
		if mask&(1<<uint(b.Layer)) != 0 {
			interactive = true
		}
	}

	if !interactive {
		result.AddWarning("scene", "no interactive widgets or masked bodies; the window will always click through")
	}
	return result
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().Validate(cfg).Error()
}

// ValidateConfigStrict validates a Config with warnings treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return NewValidator().WithStrictMode(true).Validate(cfg).Error()
}
