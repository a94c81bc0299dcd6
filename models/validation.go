package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FieldError is a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field failure found in one pass so the
// client can surface all of them at once.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValid reports whether any failure was recorded.
func (e *ValidationError) IsValid() bool {
	return e == nil || len(e.Errors) == 0
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// orNil returns nil when no failures were collected, so callers can do the
// usual `if err := v.Validate(); err != nil` dance.
func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

var plateRe = regexp.MustCompile(`^[A-Z0-9]{3}[-]?[A-Z0-9]{2,4}$`)

const (
	minVehicleYear = 1950
)

func requireString(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func requirePositive(v *ValidationError, field string, value float64) {
	if !(value > 0) {
		v.add(field, "must be greater than zero")
	}
}

func requireDate(v *ValidationError, field string, value time.Time) {
	if value.IsZero() {
		v.add(field, "is required")
	}
}

func maxVehicleYear() int {
	return time.Now().Year() + 1
}

func validYear(year int) bool {
	return year >= minVehicleYear && year <= maxVehicleYear()
}

func yearMessage() string {
	return fmt.Sprintf("must be between %d and %d", minVehicleYear, maxVehicleYear())
}
