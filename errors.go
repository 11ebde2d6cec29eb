package gochan

import "errors"

// Sentinel errors for precondition violations that a correct caller never
// triggers -- they exist so Create can report allocation-time failures
// instead of collapsing them into a bare nil return. Runtime misuse internal
// to this package (e.g. adding to a full ring buffer) still
// panics, the way the Go standard library's sync package panics on a double
// unlock rather than returning an error nobody would check.
var (
	// ErrInvalidCapacity is returned by Create when size <= 0. The spec
	// scopes zero-capacity (unbuffered) channels out entirely; this
	// implementation rejects rather than silently reinterpreting them.
	ErrInvalidCapacity = errors.New("gochan: capacity must be positive")

	// ErrDestroyed describes an operation invoked on a channel after
	// Destroy has succeeded. Such operations return GenError; the send and
	// receive operations also log this error, wrapped with the operation
	// name via %w.
	ErrDestroyed = errors.New("gochan: channel already destroyed")

	// ErrEmptySelect is logged by Select and SelectValues when called with
	// no cases; they return index 0 and GenError.
	ErrEmptySelect = errors.New("gochan: select requires at least one case")
)
