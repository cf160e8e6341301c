// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/tomtom215/reelsense/internal/logging"
	"github.com/tomtom215/reelsense/internal/recommend"
)

// Config holds all application configuration
type Config struct {
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
	Storage   StorageConfig   `koanf:"storage"`
	Ratings   RatingsConfig   `koanf:"ratings"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatasetConfig locates the movie catalog CSV files.
//
// Environment Variables:
//   - MOVIES_CSV: movies file (default: tmdb_5000_movies.csv)
//   - CREDITS_CSV: credits file (default: tmdb_5000_credits.csv)
type DatasetConfig struct {
	MoviesCSV  string `koanf:"movies_csv"`
	CreditsCSV string `koanf:"credits_csv"`
}

// RecommendConfig holds model build and lookup settings.
//
// Environment Variables:
//   - RECOMMEND_CAST_LIMIT (default: 3)
//   - RECOMMEND_INCLUDE_KEYWORDS (default: false)
//   - RECOMMEND_STEM (default: true)
//   - RECOMMEND_ON_MALFORMED: abort or skip (default: abort)
//   - RECOMMEND_MAX_FEATURES (default: 5000)
//   - RECOMMEND_TOKEN_PATTERN: whitespace or word (default: whitespace)
//   - RECOMMEND_WORKERS: similarity workers, 0 = runtime.NumCPU() (default: 0)
//   - RECOMMEND_MAX_CORPUS (default: 20000)
//   - RECOMMEND_TOP_K (default: 5)
//   - RECOMMEND_MAX_K (default: 50)
//   - RECOMMEND_TITLE_POLICY: first or reject (default: first)
//   - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL
type RecommendConfig struct {
	CastLimit       int           `koanf:"cast_limit"`
	IncludeKeywords bool          `koanf:"include_keywords"`
	Stem            bool          `koanf:"stem"`
	OnMalformed     string        `koanf:"on_malformed"`
	MaxFeatures     int           `koanf:"max_features"`
	TokenPattern    string        `koanf:"token_pattern"`
	Workers         int           `koanf:"workers"`
	MaxCorpus       int           `koanf:"max_corpus"`
	TopK            int           `koanf:"top_k"`
	MaxK            int           `koanf:"max_k"`
	TitlePolicy     string        `koanf:"title_policy"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheSize       int           `koanf:"cache_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// StorageConfig holds artifact persistence settings.
//
// Environment Variables:
//   - ARTIFACT_DIR (default: ./artifacts)
//   - ARTIFACT_RETAIN: versions kept per artifact (default: 3)
//   - ARTIFACT_WATCH: hot-reload on new artifacts while serving (default: true)
//   - ARTIFACT_WATCH_DEBOUNCE (default: 500ms)
type StorageConfig struct {
	ArtifactDir   string        `koanf:"artifact_dir"`
	Retain        int           `koanf:"retain"`
	Watch         bool          `koanf:"watch"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// RatingsConfig holds the ratings sheet settings.
//
// Environment Variables:
//   - RATINGS_DB: Badger directory, empty for in-memory (default: ./data/ratings)
//   - RATINGS_SEED_CSV: sheet imported on serve startup when the store is empty
type RatingsConfig struct {
	DBPath  string `koanf:"db_path"`
	SeedCSV string `koanf:"seed_csv"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds request-level protections for the HTTP API.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ToLoggingConfig converts to the logging package configuration.
func (l *LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// EngineConfig converts to the recommend package configuration. A worker
// count of zero selects one worker per CPU.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &recommend.Config{
		Features: recommend.FeatureConfig{
			CastLimit:       r.CastLimit,
			IncludeKeywords: r.IncludeKeywords,
			Stem:            r.Stem,
			OnMalformed:     recommend.MalformedPolicy(r.OnMalformed),
		},
		Vectorizer: recommend.VectorizerConfig{
			MaxFeatures:  r.MaxFeatures,
			TokenPattern: recommend.TokenPattern(r.TokenPattern),
		},
		Similarity: recommend.SimilarityConfig{
			Workers:   workers,
			MaxCorpus: r.MaxCorpus,
		},
		Lookup: recommend.LookupConfig{
			TopK:        r.TopK,
			MaxK:        r.MaxK,
			TitlePolicy: recommend.TitlePolicy(r.TitlePolicy),
		},
		Cache: recommend.CacheConfig{
			Enabled: r.CacheEnabled,
			Size:    r.CacheSize,
			TTL:     r.CacheTTL,
		},
	}
}
