// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"fmt"
	"time"
)

// MalformedPolicy selects what a build does with a record whose nested columns
// cannot be decoded.
type MalformedPolicy string

const (
	// MalformedAbort fails the whole build on the first malformed record.
	MalformedAbort MalformedPolicy = "abort"
	// MalformedSkip drops the record, logs a warning and continues.
	MalformedSkip MalformedPolicy = "skip"
)

// TokenPattern selects how tag strings are split into vocabulary tokens.
type TokenPattern string

const (
	// TokenWhitespace splits on runs of whitespace.
	TokenWhitespace TokenPattern = "whitespace"
	// TokenWord keeps runs of two or more letters, digits or underscores.
	TokenWord TokenPattern = "word"
)

// TitlePolicy selects how a lookup treats titles shared by several movies.
type TitlePolicy string

const (
	// TitleFirst resolves to the earliest movie in corpus order.
	TitleFirst TitlePolicy = "first"
	// TitleReject fails with ErrAmbiguousTitle.
	TitleReject TitlePolicy = "reject"
)

// Config contains all configuration for building and querying models.
type Config struct {
	Features   FeatureConfig    `json:"features"`
	Vectorizer VectorizerConfig `json:"vectorizer"`
	Similarity SimilarityConfig `json:"similarity"`
	Lookup     LookupConfig     `json:"lookup"`
	Cache      CacheConfig      `json:"cache"`
}

// FeatureConfig controls tag extraction.
type FeatureConfig struct {
	// CastLimit is how many leading cast members contribute tags.
	CastLimit int `json:"cast_limit"`

	// IncludeKeywords adds keyword names to the tags. Off by default.
	IncludeKeywords bool `json:"include_keywords"`

	// Stem applies the Porter stemmer to every tag token.
	Stem bool `json:"stem"`

	OnMalformed MalformedPolicy `json:"on_malformed"`
}

// VectorizerConfig controls the bag-of-words vocabulary.
type VectorizerConfig struct {
	MaxFeatures  int          `json:"max_features"`
	TokenPattern TokenPattern `json:"token_pattern"`
}

// SimilarityConfig controls the all-pairs similarity computation.
type SimilarityConfig struct {
	// Workers bounds the number of rows computed concurrently.
	Workers int `json:"workers"`

	// MaxCorpus is the largest corpus a matrix is allocated for.
	MaxCorpus int `json:"max_corpus"`
}

// LookupConfig controls recommendation queries.
type LookupConfig struct {
	TopK        int         `json:"top_k"`
	MaxK        int         `json:"max_k"`
	TitlePolicy TitlePolicy `json:"title_policy"`
}

// CacheConfig controls the Engine lookup cache.
type CacheConfig struct {
	Enabled bool          `json:"enabled"`
	Size    int           `json:"size"`
	TTL     time.Duration `json:"ttl"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	return &Config{
		Features: FeatureConfig{
			CastLimit:       3,
			IncludeKeywords: false,
			Stem:            true,
			OnMalformed:     MalformedAbort,
		},
		Vectorizer: VectorizerConfig{
			MaxFeatures:  5000,
			TokenPattern: TokenWhitespace,
		},
		Similarity: SimilarityConfig{
			Workers:   1,
			MaxCorpus: 20000,
		},
		Lookup: LookupConfig{
			TopK:        5,
			MaxK:        50,
			TitlePolicy: TitleFirst,
		},
		Cache: CacheConfig{
			Enabled: true,
			Size:    1000,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Features.CastLimit < 0 {
		return fmt.Errorf("features.cast_limit must be non-negative, got %d", c.Features.CastLimit)
	}
	switch c.Features.OnMalformed {
	case MalformedAbort, MalformedSkip:
	default:
		return fmt.Errorf("features.on_malformed must be %q or %q, got %q", MalformedAbort, MalformedSkip, c.Features.OnMalformed)
	}

	if c.Vectorizer.MaxFeatures < 1 {
		return fmt.Errorf("vectorizer.max_features must be positive, got %d", c.Vectorizer.MaxFeatures)
	}
	switch c.Vectorizer.TokenPattern {
	case TokenWhitespace, TokenWord:
	default:
		return fmt.Errorf("vectorizer.token_pattern must be %q or %q, got %q", TokenWhitespace, TokenWord, c.Vectorizer.TokenPattern)
	}

	if c.Similarity.Workers < 1 {
		return fmt.Errorf("similarity.workers must be positive, got %d", c.Similarity.Workers)
	}
	if c.Similarity.MaxCorpus < 1 {
		return fmt.Errorf("similarity.max_corpus must be positive, got %d", c.Similarity.MaxCorpus)
	}

	if c.Lookup.TopK < 1 {
		return fmt.Errorf("lookup.top_k must be positive, got %d", c.Lookup.TopK)
	}
	if c.Lookup.MaxK < c.Lookup.TopK {
		return fmt.Errorf("lookup.max_k (%d) must be at least lookup.top_k (%d)", c.Lookup.MaxK, c.Lookup.TopK)
	}
	switch c.Lookup.TitlePolicy {
	case TitleFirst, TitleReject:
	default:
		return fmt.Errorf("lookup.title_policy must be %q or %q, got %q", TitleFirst, TitleReject, c.Lookup.TitlePolicy)
	}

	if c.Cache.Enabled {
		if c.Cache.Size < 1 {
			return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
	}
	return nil
}
