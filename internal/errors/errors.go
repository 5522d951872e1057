package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrMissingCredential - a required API key is absent (fatal at startup, no run possible)
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidInput - invalid input (tool arguments, empty query, bad config values)
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - resource not found (unknown tool, unknown provider)
	ErrNotFound = errors.New("not found")

	// ErrTransient - transient error (network, rate limit, timeout)
	ErrTransient = errors.New("transient error")

	// ErrUpstream - an external service answered with an error payload
	ErrUpstream = errors.New("upstream error")

	// ErrInvalidModelOutput - model returned something the loop cannot use
	ErrInvalidModelOutput = errors.New("invalid model output")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)
