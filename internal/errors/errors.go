// Package errors provides centralized error definitions and error handling utilities
// for scanform. It defines the sentinel errors raised while processing scans,
// typed errors that carry scan context, and classification helpers used to
// decide whether and how an error is shown to the operator.
//
// # Error Types
//
// Domain-specific errors carry context from the scan pipeline:
//   - ScanError: a scan failed at a given stage (barrier, hook, write, cascade)
//   - FieldError: a field refused to commit its pending edit
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a record could not be located
//   - ValidationError: invalid operator input or configuration
//
// # Usage
//
//	err := errors.NewFieldError("partner_id", cause)
//	if errors.Is(err, errors.ErrCommitFailed) { ... }
//
//	var nf *errors.NotFoundError
//	if errors.As(err, &nf) { ... }
//
// # Error Classification
//
// Errors carry a severity and a user-facing flag. [Title] and [Hint] return
// the dialog title and body a notifier should use for an error.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors the operator can fix themselves.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level returns the log level errors of this severity are logged at.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Scan pipeline sentinel errors
var (
	// ErrNotEditable indicates the host editor is in view mode.
	ErrNotEditable = New("document not editable")
	// ErrNoLastScanned indicates quantity capture was attempted before any scan.
	ErrNoLastScanned = New("no last scanned barcode")
	// ErrRecordNotFound indicates no displayed record matches a barcode.
	ErrRecordNotFound = New("record not found")
	// ErrCommitFailed indicates a field could not commit its pending edit.
	ErrCommitFailed = New("field commit failed")
	// ErrInvalidQuantity indicates the captured quantity is not a number.
	ErrInvalidQuantity = New("invalid quantity")
	// ErrQueueClosed indicates a scan was submitted after the handler stopped.
	ErrQueueClosed = New("scan queue closed")
	// ErrHandlerStopped indicates an operation on a handler that is not started.
	ErrHandlerStopped = New("scan handler not started")
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = New("invalid input")

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ScanformError is the base interface for all scanform errors.
type ScanformError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to the operator.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// Stage names the step of value application a ScanError happened in.
type Stage string

const (
	StageBarrier Stage = "barrier"
	StageHook    Stage = "pre_apply_hook"
	StageWrite   Stage = "write"
	StageCascade Stage = "cascade"
	StageCommand Stage = "command"
)

// ScanError represents a scan that failed while being applied.
//
// Example:
//
//	err := errors.NewScanError("8412345678900", errors.StageWrite, cause)
//	fmt.Println(err) // "scan error [token=8412345678900, stage=write]: ..."
type ScanError struct {
	baseError
	Token string
	Stage Stage
}

// NewScanError creates a new ScanError.
func NewScanError(token string, stage Stage, cause error) *ScanError {
	return &ScanError{
		baseError: baseError{
			message:    fmt.Sprintf("scan failed during %s", stage),
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Token: token,
		Stage: stage,
	}
}

// Error returns the formatted error message.
func (e *ScanError) Error() string {
	var parts []string
	if e.Token != "" {
		parts = append(parts, fmt.Sprintf("token=%s", e.Token))
	}
	if e.Stage != "" {
		parts = append(parts, fmt.Sprintf("stage=%s", e.Stage))
	}

	prefix := "scan error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("scan error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// FieldError represents a field that failed to commit its pending edit.
type FieldError struct {
	baseError
	Field string
}

// NewFieldError creates a new FieldError.
func NewFieldError(field string, cause error) *FieldError {
	return &FieldError{
		baseError: baseError{
			message:    "commit failed",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Field: field,
	}
}

// Error returns the formatted error message.
func (e *FieldError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("field %q: %s: %v", e.Field, e.message, e.cause)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.message)
}

// Is matches ErrCommitFailed in addition to the wrapped cause.
func (e *FieldError) Is(target error) bool {
	return target == ErrCommitFailed
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("record", "840123")
//	fmt.Println(err) // "record '840123' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is matches ErrRecordNotFound for record lookups.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound && e.ResourceType == "record"
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("quantity must be a number").WithField("product_qty").WithValue("1x")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to the operator.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var sfErr ScanformError
	if As(err, &sfErr) {
		return sfErr.IsUserFacing()
	}

	return Is(err, ErrNotEditable) || Is(err, ErrNoLastScanned) || Is(err, ErrInvalidQuantity)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ScanformError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var sfErr ScanformError
	if As(err, &sfErr) {
		return sfErr.Severity()
	}

	switch {
	case Is(err, ErrNotEditable), Is(err, ErrNoLastScanned), Is(err, ErrInvalidQuantity):
		return SeverityWarning
	default:
		return SeverityError
	}
}

// Title returns the dialog title a notifier shows for err.
func Title(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrNotEditable):
		return "Error : Document not editable"
	case Is(err, ErrNoLastScanned):
		return "Error : No last scanned barcode"
	case Is(err, ErrRecordNotFound):
		return "Error : Record not found"
	case Is(err, ErrInvalidQuantity):
		return "Error : Invalid quantity"
	case Is(err, ErrCommitFailed):
		return "Error : Could not save pending changes"
	case Is(err, ErrInvalidInput):
		return "Error : Invalid value"
	default:
		return "Error : Scan failed"
	}
}

// Hint returns the dialog body a notifier shows for err: an instruction for
// the errors the operator can fix, the error text for other user-facing
// errors, and a pointer to the log for internal ones.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrNotEditable):
		return "To modify this document, please first start edition."
	case Is(err, ErrNoLastScanned):
		return "To set the quantity please scan a barcode first."
	case IsUserFacing(err):
		return err.Error()
	default:
		return InternalHint
	}
}

// InternalHint is the dialog body shown for errors that are not user-facing.
const InternalHint = "Something went wrong. Details are in the scanform log."

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to write barcode")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
