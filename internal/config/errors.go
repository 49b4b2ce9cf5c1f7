package config

import "errors"

// Validation errors returned by [Settings.validate].
var (
	// ErrInvalidServiceSettings indicates a missing service name.
	ErrInvalidServiceSettings = errors.New("invalid service settings")
	// ErrInvalidSettings wraps field-level validation failures reported by
	// the validator.
	ErrInvalidSettings = errors.New("invalid settings")
)
