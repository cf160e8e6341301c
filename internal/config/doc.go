// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package config loads ReelSense configuration with Koanf v2.

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths
 3. Environment variables listed in envMappings

Unlisted environment variables are ignored. CORS_ORIGINS accepts a
comma-separated list.

# Environment Variables

Dataset:
  - MOVIES_CSV, CREDITS_CSV: catalog files read by the build

Recommendation engine:
  - RECOMMEND_CAST_LIMIT, RECOMMEND_INCLUDE_KEYWORDS, RECOMMEND_STEM
  - RECOMMEND_ON_MALFORMED: abort or skip
  - RECOMMEND_MAX_FEATURES, RECOMMEND_TOKEN_PATTERN
  - RECOMMEND_WORKERS, RECOMMEND_MAX_CORPUS
  - RECOMMEND_TOP_K, RECOMMEND_MAX_K, RECOMMEND_TITLE_POLICY
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_SIZE, RECOMMEND_CACHE_TTL

Artifacts:
  - ARTIFACT_DIR, ARTIFACT_RETAIN, ARTIFACT_WATCH, ARTIFACT_WATCH_DEBOUNCE

Ratings:
  - RATINGS_DB: Badger directory (empty for in-memory)
  - RATINGS_SEED_CSV: sheet imported at startup into an empty store

Server and security:
  - HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, SHUTDOWN_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example

	dataset:
	  movies_csv: /data/tmdb_5000_movies.csv
	  credits_csv: /data/tmdb_5000_credits.csv
	recommend:
	  include_keywords: true
	  workers: 4
	storage:
	  artifact_dir: /data/artifacts
	server:
	  port: 9000
*/
package config
