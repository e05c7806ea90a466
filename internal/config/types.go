// Package config loads tool configuration from file, environment, and
// flags with koanf. It is decoupled from CLI concerns so other entry
// points can reuse it.
package config

import (
	"fmt"

	"github.com/leapstack-labs/logmerge/internal/model"
)

// Config holds the merged tool configuration.
type Config struct {
	// FuzzyThreshold is the minimum similarity score (0-100) for header
	// rename suggestions.
	FuzzyThreshold float64 `koanf:"fuzzy_threshold"`

	// JoinTolerance is the default tolerance for nearest-time joins.
	JoinTolerance float64 `koanf:"join_tolerance"`

	// TimeColumn forces a time column instead of keyword detection.
	TimeColumn string `koanf:"time_column"`

	// CompareMode selects how tests are compared: OVERLAY or CONCATENATE.
	CompareMode string `koanf:"compare_mode"`

	// CompareGap is the time gap inserted between concatenated tests.
	// Negative values overlap tests intentionally.
	CompareGap float64 `koanf:"compare_gap"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"`
}

// Validate checks value ranges and enum fields.
func (c *Config) Validate() error {
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy_threshold must be in [0, 100], got %v", c.FuzzyThreshold)
	}
	if c.JoinTolerance <= 0 {
		return fmt.Errorf("join_tolerance must be positive, got %v", c.JoinTolerance)
	}
	if _, err := model.ParseCompareMode(c.CompareMode); err != nil {
		return err
	}
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", c.Output)
	}
	return nil
}
