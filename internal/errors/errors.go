package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates every document timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ArgumentError reports an invalid input passed to a core operation, such as
// an empty document reference. It signals a caller bug and is never retried.
type ArgumentError struct {
	// Field is the name of the argument that was rejected.
	Field string
	// Message explains why the argument was rejected.
	Message string
}

// Error returns a formatted message describing the invalid argument.
func (e ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Message)
}

// FetchError is a transport-level failure retrieving one document. It is
// recovered locally as a per-document outcome and never aborts sibling work.
type FetchError struct {
	// Ref is the document location that could not be fetched.
	Ref string
	// Cause is the underlying transport error.
	Cause error
}

// Error returns the reference followed by the cause.
func (e *FetchError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("fetch %s failed", e.Ref)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Cause)
}

// Unwrap returns the transport error.
func (e *FetchError) Unwrap() error { return e.Cause }

// NewFetchError wraps cause as a FetchError for ref.
func NewFetchError(ref string, cause error) error {
	return &FetchError{Ref: ref, Cause: cause}
}

// TimeoutError represents an elapsed per-document deadline. It captures the
// operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// DecodeError reports malformed data returned by the document listing API.
// The listing contract was violated, so the run cannot continue.
type DecodeError struct {
	// What names the payload that failed to decode (e.g. "topstories").
	What string
	// Cause is the decoder error.
	Cause error
}

// Error returns a formatted message describing the decode failure.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Cause)
}

// Unwrap returns the decoder error.
func (e *DecodeError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// HandleRunError prints a fatal run error and maps it to an exit code.
// A nil error maps to ExitSuccess.
func HandleRunError(err error, out io.Writer) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		configErr ConfigError
		argErr    ArgumentError
		decodeErr *DecodeError
	)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "Run canceled: %v\n", err)
		return ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Run timed out: %v\n", err)
		return ExitErrorTimeout
	case errors.As(err, &configErr):
		fmt.Fprintf(out, "Configuration error: %v\n", err)
		return ExitErrorConfig
	case errors.As(err, &argErr):
		fmt.Fprintf(out, "Invalid input: %v\n", err)
		return ExitErrorGeneric
	case errors.As(err, &decodeErr):
		fmt.Fprintf(out, "Listing API returned malformed data: %v\n", err)
		return ExitErrorGeneric
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
		return ExitErrorGeneric
	}
}
