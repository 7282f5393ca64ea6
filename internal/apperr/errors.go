package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds the service distinguishes. Remote-call
// failures are converted into one of these at the component boundary; handlers
// map them to HTTP statuses and never expose raw transport errors.
var (
	// ErrValidation marks client-side, pre-flight input failures. These never
	// reach the remote service.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a duplicate unique key, such as an already existing
	// part number.
	ErrConflict = errors.New("duplicate resource")

	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("resource not found")

	// ErrUnavailableOperation marks a remote operation the backend does not
	// expose. Consumers use it to switch to a fallback path instead of
	// surfacing an error.
	ErrUnavailableOperation = errors.New("remote operation not available")

	// ErrTransient marks a network or service failure with no special
	// handling. Retried only on explicit user action.
	ErrTransient = errors.New("remote service failure")

	// ErrPartialWrite marks a multi-step mutation that failed after an
	// earlier step committed and could not be compensated.
	ErrPartialWrite = errors.New("partial write")
)

// Validationf wraps ErrValidation with a human-readable reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a human-readable reason.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Transientf wraps ErrTransient with the upstream message.
func Transientf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTransient, fmt.Sprintf(format, args...))
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsUnavailableOperation(err error) bool { return errors.Is(err, ErrUnavailableOperation) }

func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }

func IsPartialWrite(err error) bool { return errors.Is(err, ErrPartialWrite) }
