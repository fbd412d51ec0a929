package fsxa

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for common SDK error conditions.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNotFound indicates a requested element does not exist in the store.
	ErrNotFound = errors.New("element not found")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFetchFailed indicates a content-store fetch failed. The underlying
	// transport error is wrapped for additional context.
	ErrFetchFailed = errors.New("fetch failed")
)

// Error kinds categorize errors by their type.
const (
	// KindNotFound represents errors where an element was not found.
	KindNotFound = "not_found"

	// KindValidation represents errors related to input validation.
	KindValidation = "validation"

	// KindMapping represents errors raised while mapping content trees.
	KindMapping = "mapping"

	// KindConfiguration represents errors related to configuration.
	KindConfiguration = "configuration"

	// KindNetwork represents errors related to store communication.
	KindNetwork = "network"
)

// FSXAError is a structured error type that wraps underlying errors with
// the operation that failed and the category of error.
//
// FSXAError implements the error interface and supports error unwrapping,
// making it compatible with errors.Is() and errors.As().
type FSXAError struct {
	// Op is the operation that failed (e.g., "Client.FetchElements").
	Op string

	// Kind categorizes the error (e.g., KindNotFound, KindNetwork).
	Kind string

	// Err is the underlying error that caused this error.
	Err error

	// Context provides additional context about the error (optional),
	// such as identifiers or project keys.
	Context map[string]any
}

// Error implements the error interface.
func (e *FSXAError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fsxa: %s: %s", e.Op, e.Kind)
	}
	if len(e.Context) > 0 {
		return fmt.Sprintf("fsxa: %s (%s): %v [context: %+v]", e.Op, e.Kind, e.Err, e.Context)
	}
	return fmt.Sprintf("fsxa: %s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *FSXAError) Unwrap() error {
	return e.Err
}

// Is implements error matching for FSXAError, comparing by Kind (and Op
// when the target sets one) or by the underlying error.
func (e *FSXAError) Is(target error) bool {
	if target == nil {
		return false
	}
	if t, ok := target.(*FSXAError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			return t.Op == "" || e.Op == t.Op
		}
		return false
	}
	return errors.Is(e.Err, target)
}

// newError builds an FSXAError with optional context.
func newError(op, kind string, err error, context map[string]any) *FSXAError {
	return &FSXAError{Op: op, Kind: kind, Err: err, Context: context}
}

// CloseWithLog closes the given closer and logs any error instead of
// returning it. Meant for deferred cleanup where the error cannot change
// the outcome anymore. If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("failed to close resource",
			slog.String("resource", name),
			slog.String("error", err.Error()),
		)
	}
}
