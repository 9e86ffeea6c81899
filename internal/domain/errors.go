// Package domain defines the admissions record types, table contracts, and errors.
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MalformedSourceError indicates a raw export could not be read as UTF-16
// tab-delimited text, or was missing when it is required.
type MalformedSourceError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed source %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed source %s: %s", e.Path, e.Reason)
}

func (e *MalformedSourceError) Unwrap() error { return e.Err }

// SchemaMismatchError indicates an expected source column is absent after
// header normalization, or appears more than once.
type SchemaMismatchError struct {
	Path      string
	Column    string
	Found     []string
	Duplicate bool
}

func (e *SchemaMismatchError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("schema mismatch in %s: column %q appears more than once (have %q)", e.Path, e.Column, e.Found)
	}
	return fmt.Sprintf("schema mismatch in %s: column %q not found (have %q)", e.Path, e.Column, e.Found)
}

// ValueCoercionError indicates a count field held non-numeric text after
// thousands separators were removed.
type ValueCoercionError struct {
	Path   string
	Column string
	Row    int // line in the source file, header is line 1
	Value  string
}

func (e *ValueCoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %q in column %q (row %d) of %s to a count", e.Value, e.Column, e.Row, e.Path)
}

// DivisionByZeroError indicates a percentage or rate was requested over a
// group whose denominator is zero.
type DivisionByZeroError struct {
	Metric string
	Term   int
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s undefined for fall term %d: total is zero", e.Metric, e.Term)
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrMalformedSource creates a MalformedSourceError.
func ErrMalformedSource(path, reason string, err error) *MalformedSourceError {
	return &MalformedSourceError{Path: path, Reason: reason, Err: err}
}

// ErrSchemaMismatch creates a SchemaMismatchError.
func ErrSchemaMismatch(path, column string, found []string) *SchemaMismatchError {
	return &SchemaMismatchError{Path: path, Column: column, Found: found}
}

// ErrDuplicateColumn creates a SchemaMismatchError for a repeated column.
func ErrDuplicateColumn(path, column string, found []string) *SchemaMismatchError {
	return &SchemaMismatchError{Path: path, Column: column, Found: found, Duplicate: true}
}

// ErrValueCoercion creates a ValueCoercionError.
func ErrValueCoercion(path, column string, row int, value string) *ValueCoercionError {
	return &ValueCoercionError{Path: path, Column: column, Row: row, Value: value}
}

// ErrDivisionByZero creates a DivisionByZeroError.
func ErrDivisionByZero(metric string, term int) *DivisionByZeroError {
	return &DivisionByZeroError{Metric: metric, Term: term}
}

// ErrorKind returns a short human label for the admissions error taxonomy,
// or "" when err is not one of them.
func ErrorKind(err error) string {
	switch {
	case As[*MalformedSourceError](err):
		return "malformed source"
	case As[*SchemaMismatchError](err):
		return "schema mismatch"
	case As[*ValueCoercionError](err):
		return "value coercion"
	case As[*DivisionByZeroError](err):
		return "division by zero"
	default:
		return ""
	}
}

// As reports whether err wraps an error of type T.
func As[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}
