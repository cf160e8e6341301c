// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package config

import (
	"fmt"
	"time"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDataset(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDataset validates the catalog file locations
func (c *Config) validateDataset() error {
	if c.Dataset.MoviesCSV == "" {
		return fmt.Errorf("MOVIES_CSV is required")
	}
	if c.Dataset.CreditsCSV == "" {
		return fmt.Errorf("CREDITS_CSV is required")
	}
	return nil
}

// validateRecommend validates the engine settings. The engine performs the
// same checks; doing them here reports them under their environment names.
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	switch r.OnMalformed {
	case "abort", "skip":
	default:
		return fmt.Errorf("RECOMMEND_ON_MALFORMED must be one of: abort, skip")
	}
	switch r.TokenPattern {
	case "whitespace", "word":
	default:
		return fmt.Errorf("RECOMMEND_TOKEN_PATTERN must be one of: whitespace, word")
	}
	switch r.TitlePolicy {
	case "first", "reject":
	default:
		return fmt.Errorf("RECOMMEND_TITLE_POLICY must be one of: first, reject")
	}
	if r.CastLimit < 0 {
		return fmt.Errorf("RECOMMEND_CAST_LIMIT must be non-negative")
	}
	if r.MaxFeatures < 1 {
		return fmt.Errorf("RECOMMEND_MAX_FEATURES must be at least 1")
	}
	if r.Workers < 0 {
		return fmt.Errorf("RECOMMEND_WORKERS must be non-negative (0 = one per CPU)")
	}
	if r.MaxCorpus < 1 {
		return fmt.Errorf("RECOMMEND_MAX_CORPUS must be at least 1")
	}
	if r.TopK < 1 || r.TopK > r.MaxK {
		return fmt.Errorf("RECOMMEND_TOP_K must be between 1 and RECOMMEND_MAX_K (%d)", r.MaxK)
	}
	if r.CacheEnabled && r.CacheSize < 1 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be at least 1 when the cache is enabled")
	}
	return r.EngineConfig().Validate()
}

// validateStorage validates artifact persistence settings
func (c *Config) validateStorage() error {
	if c.Storage.ArtifactDir == "" {
		return fmt.Errorf("ARTIFACT_DIR is required")
	}
	if c.Storage.Retain < 1 {
		return fmt.Errorf("ARTIFACT_RETAIN must be at least 1")
	}
	if c.Storage.Watch && c.Storage.WatchDebounce <= 0 {
		return fmt.Errorf("ARTIFACT_WATCH_DEBOUNCE must be positive")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

// validateRateLimits validates rate limiting bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
