package sdk

import "errors"

var (
	// ErrAlreadyStarted is returned by configuration methods called after
	// StartApplication, and by a second StartApplication.
	ErrAlreadyStarted = errors.New("application is already started")

	// ErrCapabilityAbsent is returned when an operation needs a capability
	// the settings did not enable.
	ErrCapabilityAbsent = errors.New("capability is not configured")

	// ErrInvalidTLS is returned by New when the configured certificate
	// cannot be loaded.
	ErrInvalidTLS = errors.New("invalid tls settings")
)
