// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrBuilderConsumed is returned when Build or Start is called a second
	// time on the same builder.
	ErrBuilderConsumed = errors.New("builder is already consumed")

	// ErrDuplicateRoute is returned by Build when a verb and route pair is
	// registered more than once.
	ErrDuplicateRoute = errors.New("duplicate route registration")

	// ErrInvalidRoute is returned by Build for an unsupported verb or a
	// malformed route pattern.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrNoServices is returned by Start when no gRPC service was added.
	ErrNoServices = errors.New("no grpc services are registered")
)
