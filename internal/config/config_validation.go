// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validate checks that the final merged [Settings] satisfy all invariants
// before they are used at startup.
//
// Returns nil if the settings are valid, or an error wrapping
// [ErrInvalidServiceSettings] or [ErrInvalidSettings] otherwise.
func (cfg *Settings) validate() error {
	if cfg.Service.Name == "" {
		return fmt.Errorf("%w: service name is empty", ErrInvalidServiceSettings)
	}

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return nil
}
