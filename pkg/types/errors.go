package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorKind classifies valuation failures.
type ErrorKind string

// Error kinds reported per record and in batch summaries.
const (
	KindUnknownLabel     ErrorKind = "unknown_label"
	KindSchemaMismatch   ErrorKind = "schema_mismatch"
	KindMissingField     ErrorKind = "missing_field"
	KindInvalidField     ErrorKind = "invalid_field"
	KindModelUnavailable ErrorKind = "model_unavailable"
	KindInternal         ErrorKind = "internal"
)

// UnknownLabelError is returned when a categorical value was not part of the
// training vocabulary for its field.
type UnknownLabelError struct {
	Field string
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %s label %q", e.Field, e.Label)
}

// SchemaMismatchError is returned when a model, encoder set or feature
// request disagrees on the feature schema.
type SchemaMismatchError struct {
	Expected string
	Actual   string
	Detail   string
}

func (e *SchemaMismatchError) Error() string {
	msg := fmt.Sprintf("schema mismatch: expected %q, got %q", e.Expected, e.Actual)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ModelUnavailableError is returned when the model artifact cannot be
// loaded. It is fatal at startup.
type ModelUnavailableError struct {
	Path string
	Err  error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model unavailable (%s): %v", e.Path, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// MissingFieldError is returned when a required input field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidFieldError is returned when an input field is present but cannot be
// parsed or is out of range.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ValuationError is the per-record failure attached to a result slot.
type ValuationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *ValuationError) Error() string {
	return e.Message
}

func (e *ValuationError) Unwrap() error { return e.Err }

// BadInput reports whether the failure was caused by the caller's input
// rather than by the system.
func (e *ValuationError) BadInput() bool {
	switch e.Kind {
	case KindUnknownLabel, KindMissingField, KindInvalidField:
		return true
	default:
		return false
	}
}

// NewValuationError classifies err and tags it with the offending field.
// An existing *ValuationError is returned unchanged.
func NewValuationError(err error) *ValuationError {
	if err == nil {
		return nil
	}

	var ve *ValuationError
	if errors.As(err, &ve) {
		return ve
	}

	out := &ValuationError{Kind: KindInternal, Message: err.Error(), Err: err}

	var (
		unknown  *UnknownLabelError
		missing  *MissingFieldError
		invalid  *InvalidFieldError
		schema   *SchemaMismatchError
		unusable *ModelUnavailableError
	)
	switch {
	case errors.As(err, &unknown):
		out.Kind, out.Field = KindUnknownLabel, unknown.Field
	case errors.As(err, &missing):
		out.Kind, out.Field = KindMissingField, missing.Field
	case errors.As(err, &invalid):
		out.Kind, out.Field = KindInvalidField, invalid.Field
	case errors.As(err, &schema):
		out.Kind = KindSchemaMismatch
	case errors.As(err, &unusable):
		out.Kind = KindModelUnavailable
	}

	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
