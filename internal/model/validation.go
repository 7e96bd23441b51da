package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed validation so callers
// can report them all at once instead of stopping at the first problem.
type ValidationError struct {
	Fields []FieldError
}

// Add records a failed field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when nothing was recorded. Returning a
// typed nil pointer through the error interface would look like a failure.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func requireText(errs *ValidationError, field, v string) {
	if strings.TrimSpace(v) == "" {
		errs.Add(field, "is required")
	}
}

// checkDecimal enforces the column shape NUMERIC(10, places): non-negative,
// no more than places fractional digits, and within the integer part.
func checkDecimal(errs *ValidationError, field string, v decimal.Decimal, places int32) {
	if v.IsNegative() {
		errs.Add(field, "must not be negative")
		return
	}
	if !v.Equal(v.Round(places)) {
		errs.Add(field, fmt.Sprintf("must have at most %d decimal places", places))
		return
	}
	if v.GreaterThanOrEqual(decimal.New(1, ColumnPrecision-places)) {
		errs.Add(field, fmt.Sprintf("exceeds NUMERIC(%d,%d)", ColumnPrecision, places))
	}
}

// CheckMoney validates a monetary amount.
func CheckMoney(errs *ValidationError, field string, v decimal.Decimal) {
	checkDecimal(errs, field, v, MoneyPlaces)
}

// CheckHours validates a worked-hours amount.
func CheckHours(errs *ValidationError, field string, v decimal.Decimal) {
	checkDecimal(errs, field, v, HoursPlaces)
}
