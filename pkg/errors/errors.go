// Package errors provides custom error types for redpush.
// These errors enable programmatic error checking with errors.Is and
// errors.As so the command surface can tell usage mistakes, remote failures,
// malformed input and broken merge keys apart.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinel errors matched by the typed errors below.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUsage indicates the command line was missing a required argument
	ErrUsage = errors.New("usage error")

	// ErrRemote indicates the Redash API answered with a non-success status
	ErrRemote = errors.New("remote error")

	// ErrConnection indicates the Redash API could not be reached
	ErrConnection = errors.New("connection error")

	// ErrParse indicates malformed YAML, JSON or CSV input
	ErrParse = errors.New("parse error")

	// ErrIntegrity indicates a duplicate or missing redpush_id
	ErrIntegrity = errors.New("integrity error")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")
)

// UsageError represents a missing or invalid command line argument.
type UsageError struct {
	Command string
	Message string
}

// Error implements the error interface
func (e *UsageError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Message)
	}
	return e.Message
}

// Is implements errors.Is support
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// NewUsageError creates a new UsageError
func NewUsageError(command, message string) *UsageError {
	return &UsageError{Command: command, Message: message}
}

// RemoteError represents a non-2xx answer from the Redash API.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("redash %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("redash %s %s: status %d", e.Method, e.URL, e.StatusCode)
}

// Is implements errors.Is support
func (e *RemoteError) Is(target error) bool {
	if target == ErrRemote {
		return true
	}
	if e.StatusCode == http.StatusNotFound {
		return target == ErrNotFound
	}
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return target == ErrAPIKeyRequired
	}
	return false
}

// NewRemoteError creates a new RemoteError
func NewRemoteError(method, url string, statusCode int, body string) *RemoteError {
	return &RemoteError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

// ConnectionError represents a network level failure (DNS, refused, timeout).
type ConnectionError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach redash (%s %s): %v", e.Method, e.URL, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// IntegrityKind tells which merge key invariant was broken.
type IntegrityKind string

const (
	// IntegrityDuplicate means two records share a redpush_id.
	IntegrityDuplicate IntegrityKind = "duplicate"
	// IntegrityMissing means a record has no redpush_id.
	IntegrityMissing IntegrityKind = "missing"
	// IntegrityInvalid means a redpush_id is neither an integer nor a string.
	IntegrityInvalid IntegrityKind = "invalid"
)

// IntegrityError represents a broken redpush_id invariant in a collection.
type IntegrityError struct {
	Kind       IntegrityKind
	Collection string // "local", "remote", ...
	RedpushID  string
	Index      int
}

// Error implements the error interface
func (e *IntegrityError) Error() string {
	where := e.Collection
	if where == "" {
		where = "collection"
	}
	switch e.Kind {
	case IntegrityDuplicate:
		return fmt.Sprintf("%s: duplicate redpush_id %s (record #%d)", where, e.RedpushID, e.Index)
	case IntegrityMissing:
		return fmt.Sprintf("%s: record #%d has no redpush_id", where, e.Index)
	default:
		return fmt.Sprintf("%s: invalid redpush_id %s (record #%d)", where, e.RedpushID, e.Index)
	}
}

// Is implements errors.Is support
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// NewDuplicateError creates an IntegrityError for a repeated redpush_id.
func NewDuplicateError(collection, redpushID string, index int) *IntegrityError {
	return &IntegrityError{Kind: IntegrityDuplicate, Collection: collection, RedpushID: redpushID, Index: index}
}

// NewMissingKeyError creates an IntegrityError for a record without redpush_id.
func NewMissingKeyError(collection string, index int) *IntegrityError {
	return &IntegrityError{Kind: IntegrityMissing, Collection: collection, Index: index}
}

// NewInvalidKeyError creates an IntegrityError for a redpush_id of the wrong type.
func NewInvalidKeyError(collection, value string, index int) *IntegrityError {
	return &IntegrityError{Kind: IntegrityInvalid, Collection: collection, RedpushID: value, Index: index}
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

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
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

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
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
	Operation string // "read", "write", "create", "open"
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

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "archive", "fetch"
	Resource  string // "query", "dashboard", "user"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUsage checks if an error is a usage error
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// IsRemote checks if an error came from a non-success API response
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsConnection checks if an error is a network level failure
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsIntegrity checks if an error is a redpush_id integrity error
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
