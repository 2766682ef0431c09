package model

import "errors"

var (
	// ErrInvalidInput marks caller-correctable validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrModelUnavailable signals that no trained model can be used.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrConcurrentUpdate is returned when an optimistic version check fails.
	ErrConcurrentUpdate = errors.New("concurrent update")
)
