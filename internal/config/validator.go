package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "barcode.prefix_match_length")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// maxPrefixMatchLength bounds barcode.prefix_match_length; GTIN-14 is the
// longest common product barcode.
const maxPrefixMatchLength = 14

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateBarcode()...)
	errors = append(errors, c.validateCommands()...)
	errors = append(errors, c.validateCue()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateBarcode validates the BarcodeConfig
func (c *Config) validateBarcode() []ValidationError {
	var errors []ValidationError
	b := c.Barcode

	if strings.TrimSpace(b.Field) == "" {
		errors = append(errors, ValidationError{
			Field:   "barcode.field",
			Value:   b.Field,
			Message: "must not be empty",
		})
	}
	if strings.TrimSpace(b.MatchAttribute) == "" {
		errors = append(errors, ValidationError{
			Field:   "barcode.match_attribute",
			Value:   b.MatchAttribute,
			Message: "must not be empty",
		})
	}
	if b.PrefixMatchLength < 0 || b.PrefixMatchLength > maxPrefixMatchLength {
		errors = append(errors, ValidationError{
			Field:   "barcode.prefix_match_length",
			Value:   b.PrefixMatchLength,
			Message: fmt.Sprintf("must be between 0 and %d", maxPrefixMatchLength),
		})
	}

	for i, p := range b.ReservedPrefixes {
		if p == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("barcode.reserved_prefixes[%d]", i),
				Value:   p,
				Message: "must not be empty (an empty prefix reserves every token)",
			})
		}
	}
	for i, pattern := range b.ReservedPatterns {
		if _, err := glob.Compile(pattern); err != nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("barcode.reserved_patterns[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}

	return errors
}

// validateCommands checks that command barcodes are unique
func (c *Config) validateCommands() []ValidationError {
	var errors []ValidationError

	seen := make(map[string]bool)
	for _, kw := range c.Barcode.Commands.Keywords() {
		if seen[kw] {
			errors = append(errors, ValidationError{
				Field:   "barcode.commands",
				Value:   kw,
				Message: "duplicate command barcode",
			})
		}
		seen[kw] = true
	}

	return errors
}

// validateCue validates the CueConfig
func (c *Config) validateCue() []ValidationError {
	var errors []ValidationError

	if c.Cue.UseSound && strings.TrimSpace(c.Cue.Player) == "" {
		errors = append(errors, ValidationError{
			Field:   "cue.player",
			Value:   c.Cue.Player,
			Message: "must be set when cue.use_sound is enabled",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
