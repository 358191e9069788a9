package config

import "github.com/strata-hq/compass/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Confidence threshold gates review-queue surfacing; must be a probability
	if c.Alias.ConfidenceThreshold < 0 || c.Alias.ConfidenceThreshold > 1 {
		return errors.Newf("alias.confidence_threshold must be in [0,1], got %f", c.Alias.ConfidenceThreshold)
	}

	// Page size: 0 = unpaged is invalid (omit for default), negative is invalid
	if c.Alias.ReviewPageSize <= 0 {
		return errors.Newf("alias.review_page_size must be > 0, got %d (omit for default)", c.Alias.ReviewPageSize)
	}

	// Default priority must sit inside the 1..10 tie-break range
	if c.Alias.DefaultPriority < 1 || c.Alias.DefaultPriority > 10 {
		return errors.Newf("alias.default_priority must be in 1..10, got %d", c.Alias.DefaultPriority)
	}

	return nil
}
