package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePositive checks that v is a finite number strictly greater than zero.
// The field name is used in the error message.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %g", field, v)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values.
// Degenerate trigonometric input has to fail here instead of producing
// corrupt geometry later.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) {
		return New(ErrCodeInvalidConfig, "%s is NaN", field)
	}
	if math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s is infinite", field)
	}
	return nil
}

// ValidateBand checks a [lo, hi] range: both ends finite and lo <= hi.
// When positive is set, lo must also be strictly greater than zero.
func ValidateBand(field string, lo, hi float64, positive bool) error {
	if err := ValidateFinite(field+" lower bound", lo); err != nil {
		return err
	}
	if err := ValidateFinite(field+" upper bound", hi); err != nil {
		return err
	}
	if lo > hi {
		return New(ErrCodeInvalidConfig, "%s is inverted: [%g, %g]", field, lo, hi)
	}
	if positive && lo <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be strictly positive: [%g, %g]", field, lo, hi)
	}
	return nil
}

// ValidateFraction checks that v lies in [0, 1].
func ValidateFraction(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %g", field, v)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateName validates a preset or file prefix name.
// Names are restricted so they can be embedded in file names unchanged.
func ValidateName(field, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "%s too long (max 64 characters)", field)
	}
	if strings.ContainsAny(name, "/\\.\x00 ") {
		return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", field, name)
	}
	return nil
}
