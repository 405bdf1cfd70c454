package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/iota-uz/review-sdk/pkg/configuration"
)

// settings is the subset of the server configuration the CLI needs. It skips
// the file logger that configuration.Use sets up.
type settings struct {
	Database configuration.DatabaseOptions
	Review   configuration.ReviewOptions
}

func loadSettings() (settings, error) {
	var s settings
	if _, err := configuration.LoadEnv([]string{".env", ".env.local"}); err != nil {
		return s, withCode(exitUsage, fmt.Errorf("load env: %w", err))
	}
	if err := env.Parse(&s); err != nil {
		return s, withCode(exitUsage, fmt.Errorf("parse env: %w", err))
	}
	if err := s.Review.Validate(); err != nil {
		return s, withCode(exitUsage, err)
	}
	s.Database.Opts = s.Database.ConnectionString()
	return s, nil
}
