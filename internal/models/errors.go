package models

import "errors"

// Domain error kinds. Handlers map these to HTTP status codes; anything
// that is not one of these is treated as an infrastructure failure.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")

	// ErrStaleVersion signals an optimistic-lock miss on the invoice row.
	// Services retry on it a bounded number of times before giving up.
	ErrStaleVersion = errors.New("stale version")
)
