package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MapError folds errors from HTTP clients and SDKs into the taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	// Propagate context errors as-is
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timeout: %w", ErrTransient)
	}

	for _, known := range []error{ErrMissingCredential, ErrInvalidInput, ErrNotFound, ErrTransient, ErrUpstream, ErrInvalidModelOutput, ErrInternal} {
		if errors.Is(err, known) {
			return err
		}
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "not found"), strings.Contains(errStr, "does not exist"):
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	case strings.Contains(errStr, "rate limit"), strings.Contains(errStr, "quota"), strings.Contains(errStr, "too many requests"):
		return fmt.Errorf("rate limited: %v: %w", err, ErrTransient)
	case strings.Contains(errStr, "invalid input"), strings.Contains(errStr, "bad request"):
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return fmt.Errorf("request timeout: %v: %w", err, ErrTransient)
	case strings.Contains(errStr, "network"), strings.Contains(errStr, "connection"), strings.Contains(errStr, "unreachable"):
		return fmt.Errorf("network error: %v: %w", err, ErrTransient)
	default:
		return fmt.Errorf("%v: %w", err, ErrInternal)
	}
}

// Category returns the taxonomy name for an error
func Category(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMissingCredential):
		return "ErrMissingCredential"
	case errors.Is(err, ErrInvalidInput):
		return "ErrInvalidInput"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrTransient):
		return "ErrTransient"
	case errors.Is(err, ErrUpstream):
		return "ErrUpstream"
	case errors.Is(err, ErrInvalidModelOutput):
		return "ErrInvalidModelOutput"
	case errors.Is(err, ErrInternal):
		return "ErrInternal"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// MissingCredential wraps error as missing credential
func MissingCredential(message string) error {
	return fmt.Errorf("%s: %w", message, ErrMissingCredential)
}

// NotFound wraps error as not found
func NotFound(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// InvalidInput wraps error as invalid input
func InvalidInput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidInput)
}

// Transient wraps error as transient
func Transient(message string) error {
	return fmt.Errorf("%s: %w", message, ErrTransient)
}

// Upstream wraps error as an upstream service failure
func Upstream(message string) error {
	return fmt.Errorf("%s: %w", message, ErrUpstream)
}

// Internal wraps error as internal
func Internal(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInternal)
}

// InvalidModelOutput wraps error as invalid model output
func InvalidModelOutput(message string) error {
	return fmt.Errorf("%s: %w", message, ErrInvalidModelOutput)
}
