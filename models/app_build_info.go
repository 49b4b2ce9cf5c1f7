// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// BuildInfo carries build-time metadata embedded into a service binary.
//
// Values are typically injected by linker flags during CI/CD. Version is
// used when settings do not name one.
type BuildInfo struct {
	Name    string
	Version string
	Commit  string
}

// Liveness is the body of the liveness probe.
type Liveness struct {
	Name    string    `json:"name"`
	Version string    `json:"version"`
	Started time.Time `json:"started"`
	Ready   bool      `json:"ready"`
	Phase   string    `json:"phase"`
}
