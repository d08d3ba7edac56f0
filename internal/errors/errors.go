package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal client
var (
	// Session errors
	ErrNoSession        = errors.New("no active session")
	ErrInvalidSession   = errors.New("invalid session")
	ErrMalformedSession = errors.New("malformed persisted session")

	// Storage errors
	ErrNotFound = errors.New("not found")
	ErrStorage  = errors.New("storage failure")

	// Request errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")

	// Navigation errors
	ErrRedirected   = errors.New("navigation redirected")
	ErrUnknownRoute = errors.New("unknown route")
	ErrUnmounted    = errors.New("view unmounted")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join combines errors, dropping nils
func Join(errs ...error) error {
	return errors.Join(errs...)
}
