// Package valid provides the typed input-validation errors shared by the
// engine's numeric kernels. A FieldError names the offending field so callers
// can distinguish bad input from a software defect.
package valid

import (
	"fmt"
	"math"
)

// FieldError reports a single invalid input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Finite returns a FieldError if v is NaN or infinite.
func Finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be finite, got %v", v)}
	}
	return nil
}

// Positive returns a FieldError if v is not finite and strictly positive.
func Positive(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be > 0, got %v", v)}
	}
	return nil
}

// NonNegative returns a FieldError if v is not finite or is negative.
func NonNegative(field string, v float64) error {
	if err := Finite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be >= 0, got %v", v)}
	}
	return nil
}
