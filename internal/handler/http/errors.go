// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of route authorization. Callers can match against them
// with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is reported when a protected route is
	// called without an "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrAuthorizationNotConfigured is reported when a protected route is
	// called but no token sign key is configured.
	ErrAuthorizationNotConfigured = errors.New("authorization is not configured")

	// ErrNilOutput is reported when an action returns neither an output nor
	// an error.
	ErrNilOutput = errors.New("action returned no output")
)
