// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelsense/config.yaml",
	"/etc/reelsense/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			MoviesCSV:  "tmdb_5000_movies.csv",
			CreditsCSV: "tmdb_5000_credits.csv",
		},
		Recommend: RecommendConfig{
			CastLimit:       3,
			IncludeKeywords: false,
			Stem:            true,
			OnMalformed:     "abort",
			MaxFeatures:     5000,
			TokenPattern:    "whitespace",
			Workers:         0, // 0 = use runtime.NumCPU()
			MaxCorpus:       20000,
			TopK:            5,
			MaxK:            50,
			TitlePolicy:     "first",
			CacheEnabled:    true,
			CacheSize:       1000,
			CacheTTL:        10 * time.Minute,
		},
		Storage: StorageConfig{
			ArtifactDir:   "./artifacts",
			Retain:        3,
			Watch:         true,
			WatchDebounce: 500 * time.Millisecond,
		},
		Ratings: RatingsConfig{
			DBPath: "./data/ratings",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// MOVIES_CSV -> dataset.movies_csv, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Dataset
	"movies_csv":  "dataset.movies_csv",
	"credits_csv": "dataset.credits_csv",

	// Recommendation engine
	"recommend_cast_limit":       "recommend.cast_limit",
	"recommend_include_keywords": "recommend.include_keywords",
	"recommend_stem":             "recommend.stem",
	"recommend_on_malformed":     "recommend.on_malformed",
	"recommend_max_features":     "recommend.max_features",
	"recommend_token_pattern":    "recommend.token_pattern",
	"recommend_workers":          "recommend.workers",
	"recommend_max_corpus":       "recommend.max_corpus",
	"recommend_top_k":            "recommend.top_k",
	"recommend_max_k":            "recommend.max_k",
	"recommend_title_policy":     "recommend.title_policy",
	"recommend_cache_enabled":    "recommend.cache_enabled",
	"recommend_cache_size":       "recommend.cache_size",
	"recommend_cache_ttl":        "recommend.cache_ttl",

	// Artifact storage
	"artifact_dir":            "storage.artifact_dir",
	"artifact_retain":         "storage.retain",
	"artifact_watch":          "storage.watch",
	"artifact_watch_debounce": "storage.watch_debounce",

	// Ratings sheet
	"ratings_db":       "ratings.db_path",
	"ratings_seed_csv": "ratings.seed_csv",

	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MOVIES_CSV -> dataset.movies_csv
//   - ARTIFACT_DIR -> storage.artifact_dir
//   - HTTP_PORT -> server.port
//   - RECOMMEND_TOP_K -> recommend.top_k
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
