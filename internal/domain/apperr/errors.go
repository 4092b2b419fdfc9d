// Package apperr holds the error taxonomy shared by every ledger operation.
// All failures surfaced to callers wrap one of these sentinels so adapters can
// map them with errors.Is.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrMemberNotFound    = errors.New("member not found")
	ErrInactive          = errors.New("member is inactive")
	ErrWrongRole         = errors.New("role not permitted for this operation")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSelfApproval      = errors.New("approver cannot be the submitter")
	ErrSelfModification  = errors.New("members cannot modify their own role or status")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
)

// ErrUnauthorized is the generic name some callers use for a failed role check.
var ErrUnauthorized = ErrWrongRole

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the offending fields. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validation builds a single-field validation error.
func Validation(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// Collector accumulates field errors; Err returns nil when nothing was added.
type Collector struct {
	fields []FieldError
}

func (c *Collector) Add(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

// Check adds msg for field when ok is false.
func (c *Collector) Check(ok bool, field, msg string) {
	if !ok {
		c.Add(field, msg)
	}
}

func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

// Fields extracts the field list of a validation error, if any.
func Fields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
