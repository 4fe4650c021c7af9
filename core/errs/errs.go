// Package errs defines the error model for field validation and record
// population. Field-level failures are always aggregated before they cross a
// package boundary: callers of Populate or Call only ever see a
// *MultiValidationError, even for a single failing field.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is one concrete failure attributable to exactly one field.
// Field carries the full path to the offending value, positional for list
// elements ("tags[2]") and dotted for nested records ("owner.email").
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Msg)
}

// NewValidation creates a ValidationError for the named field.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// MultiValidationError aggregates every field failure from one validation
// pass, in field declaration order. Nested aggregates are flattened into it
// with path-qualified field names, so Errors is the complete, ordered set of
// leaf failures.
type MultiValidationError struct {
	Errors []*ValidationError
}

func (e *MultiValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Append adds the validation errors carried by err, qualifying their field
// paths with prefix. err may be a *ValidationError or a
// *MultiValidationError; any other error is recorded against prefix as-is.
func (e *MultiValidationError) Append(prefix string, err error) {
	switch v := err.(type) {
	case *ValidationError:
		e.Errors = append(e.Errors, qualify(prefix, v))
	case *MultiValidationError:
		for _, ve := range v.Errors {
			e.Errors = append(e.Errors, qualify(prefix, ve))
		}
	default:
		e.Errors = append(e.Errors, &ValidationError{Field: prefix, Msg: err.Error()})
	}
}

// Err returns e when at least one error was collected, nil otherwise.
func (e *MultiValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// qualify prepends prefix to a field path. Positional segments ("[3]")
// attach directly; named segments join with a dot.
func qualify(prefix string, ve *ValidationError) *ValidationError {
	if prefix == "" {
		return ve
	}
	field := ve.Field
	switch {
	case field == "":
		field = prefix
	case strings.HasPrefix(field, "["):
		field = prefix + field
	default:
		field = prefix + "." + field
	}
	return &ValidationError{Field: field, Msg: ve.Msg}
}

// ModificationError reports a write to an already-set, write-once attribute.
// It is detected at bind time, independent of validation.
type ModificationError struct {
	Field string
}

func (e *ModificationError) Error() string {
	return fmt.Sprintf("field %q: already set, record fields are write-once", e.Field)
}

// AsMulti extracts a *MultiValidationError from err, if it carries one.
func AsMulti(err error) (*MultiValidationError, bool) {
	var mve *MultiValidationError
	if errors.As(err, &mve) {
		return mve, true
	}
	return nil, false
}
