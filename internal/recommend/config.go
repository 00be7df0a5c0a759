// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

package recommend

import "fmt"

// Config holds the training thresholds and lookup defaults for an Engine.
type Config struct {
	// MinSupport is the minimum itemset support ratio, in (0, 1].
	MinSupport float64

	// MinConfidence is the minimum rule confidence, in [0, 1].
	MinConfidence float64

	// MinLift is the minimum rule lift.
	MinLift float64

	// MaxLen caps mined itemset size. Zero means unlimited.
	MaxLen int

	// TopN is the default recommendation count when a request does not
	// specify one.
	TopN int

	// Workers bounds parallel mining. Zero mines sequentially.
	Workers int
}

// DefaultConfig returns conservative defaults suitable for retail basket
// data in the tens of thousands of transactions.
func DefaultConfig() *Config {
	return &Config{
		MinSupport:    0.02,
		MinConfidence: 0.4,
		MinLift:       1.0,
		MaxLen:        4,
		TopN:          5,
		Workers:       0,
	}
}

// Validate checks the configuration ranges.
func (c *Config) Validate() error {
	if c.MinSupport <= 0 || c.MinSupport > 1 {
		return fmt.Errorf("min_support must be in (0, 1], got %v", c.MinSupport)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0, 1], got %v", c.MinConfidence)
	}
	if c.MinLift < 0 {
		return fmt.Errorf("min_lift must be non-negative, got %v", c.MinLift)
	}
	if c.MaxLen < 0 {
		return fmt.Errorf("max_len must be non-negative, got %v", c.MaxLen)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %v", c.TopN)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %v", c.Workers)
	}
	return nil
}
