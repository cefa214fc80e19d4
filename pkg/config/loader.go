// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from the process environment. Fields are mapped with
// `env` struct tags; unset variables fall back to `envDefault`.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
