// Package errors provides custom error types for the qbank system.
// These errors enable programmatic error checking and keep the
// skip-vs-abort policy of batch runs type-checked rather than
// string-matched.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the qbank system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingArtifact indicates that a referenced input file does not exist
	ErrMissingArtifact = errors.New("artifact missing")

	// ErrMalformedRecord indicates a record missing a required field
	ErrMalformedRecord = errors.New("malformed record")

	// ErrPreconditionFailed indicates an operation rejected because its
	// precondition does not hold
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MissingArtifactError represents a referenced input file that does not
// exist. Integration runs treat it as "skip this artifact, keep going",
// never as a fatal condition.
type MissingArtifactError struct {
	Kind string // "bank", "reference", "batch", "review"
	Path string
	Err  error
}

// Error implements the error interface
func (e *MissingArtifactError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s artifact missing: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("artifact missing: %s", e.Path)
}

// Unwrap implements errors.Unwrap
func (e *MissingArtifactError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MissingArtifactError) Is(target error) bool {
	return target == ErrMissingArtifact || target == ErrNotFound
}

// NewMissingArtifactError creates a new MissingArtifactError
func NewMissingArtifactError(kind, path string, err error) *MissingArtifactError {
	return &MissingArtifactError{Kind: kind, Path: path, Err: err}
}

// MalformedRecordError represents a record that cannot be ingested because
// a required field is absent or unusable. The record is skipped; the run
// continues.
type MalformedRecordError struct {
	Group   string // provenance grouping or artifact the record came from
	Index   int    // position within the grouping
	Field   string
	Message string
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed record %d in %s: field %s %s", e.Index, e.Group, e.Field, e.Message)
	}
	return fmt.Sprintf("malformed record %d in %s: %s", e.Index, e.Group, e.Message)
}

// Is implements errors.Is support
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord || target == ErrInvalidInput
}

// NewMalformedRecordError creates a new MalformedRecordError
func NewMalformedRecordError(group string, index int, field, message string) *MalformedRecordError {
	return &MalformedRecordError{Group: group, Index: index, Field: field, Message: message}
}

// PreconditionError represents an operation rejected because the record it
// targets is not in a state that permits it
type PreconditionError struct {
	Operation string
	RecordID  int
	Message   string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s rejected for record %d: %s", e.Operation, e.RecordID, e.Message)
}

// Is implements errors.Is support
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPreconditionFailed
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(operation string, recordID int, message string) *PreconditionError {
	return &PreconditionError{Operation: operation, RecordID: recordID, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// BatchError represents a failure while applying one answer batch
type BatchError struct {
	Batch     string
	Path      string
	RecordIDs []int
	Err       error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	if len(e.RecordIDs) > 0 {
		return fmt.Sprintf("batch %s failed for records %v: %v", e.Batch, e.RecordIDs, e.Err)
	}
	return fmt.Sprintf("batch %s failed: %v", e.Batch, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *BatchError) Unwrap() error {
	return e.Err
}

// NewBatchError creates a new BatchError
func NewBatchError(batch, path string, recordIDs []int, err error) *BatchError {
	return &BatchError{
		Batch:     batch,
		Path:      path,
		RecordIDs: recordIDs,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingArtifact checks if an error means a referenced file is absent
func IsMissingArtifact(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}

// IsMalformedRecord checks if an error is a malformed record error
func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

// IsPreconditionFailed checks if an error is a precondition violation
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapBatch wraps an error as a BatchError
func WrapBatch(batch, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewBatchError(batch, path, nil, err)
}
