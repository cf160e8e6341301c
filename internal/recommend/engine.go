// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/cache"
	"github.com/tomtom215/reelsense/internal/recommend/storage"
)

// Engine owns the current model for a long-running process. It builds,
// persists and reloads models and answers cached lookups. It is safe for
// concurrent use.
type Engine struct {
	config *Config
	base   zerolog.Logger
	logger zerolog.Logger
	store  *storage.Store
	retain int

	model atomic.Pointer[Model]
	meta  atomic.Pointer[storage.ArtifactMetadata]

	buildMu   sync.Mutex
	lastBuild atomic.Pointer[BuildReport]

	cache *cache.LRUCache[[]Recommendation]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStore persists builds to store, keeping retain versions of each artifact.
func WithStore(store *storage.Store, retain int) EngineOption {
	return func(e *Engine) {
		e.store = store
		e.retain = retain
	}
}

// NewEngine creates an engine with no model loaded.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}

	e := &Engine{
		config: cfg,
		base:   logger,
		logger: logger.With().Str("component", "recommend").Logger(),
		retain: 3,
	}
	for _, opt := range opts {
		opt(e)
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRUCache[[]Recommendation](cfg.Cache.Size, cfg.Cache.TTL)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config { return e.config }

// Model returns the current model, or nil.
func (e *Engine) Model() *Model { return e.model.Load() }

// Metadata returns the artifact metadata of the current model, or nil when it
// was never persisted.
func (e *Engine) Metadata() *storage.ArtifactMetadata { return e.meta.Load() }

// Swap publishes m as the current model and drops cached lookups.
func (e *Engine) Swap(m *Model, meta *storage.ArtifactMetadata) {
	e.model.Store(m)
	e.meta.Store(meta)
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Build runs the pipeline over records, persists the result when a store is
// configured and swaps it in. Only one build runs at a time.
func (e *Engine) Build(ctx context.Context, records []Record) (*BuildReport, error) {
	if !e.buildMu.TryLock() {
		return nil, ErrBuildInProgress
	}
	defer e.buildMu.Unlock()

	buildID := uuid.New().String()
	base := e.base.With().Str("build_id", buildID).Logger()
	logger := base.With().Str("component", "recommend").Logger()
	logger.Info().Int("records", len(records)).Msg("starting model build")

	model, report, err := NewBuilder(e.config, base).Build(ctx, records)
	if err != nil {
		logger.Error().Err(err).Msg("model build failed")
		return report, err
	}

	var meta *storage.ArtifactMetadata
	if e.store != nil {
		meta, err = e.Persist(ctx, model, report, buildID)
		if err != nil {
			return report, err
		}
		model = model.WithVersion(meta.Version)
	}

	e.Swap(model, meta)
	e.lastBuild.Store(report)
	return report, nil
}

// Persist saves both artifacts of model under one new version and prunes old ones.
func (e *Engine) Persist(ctx context.Context, model *Model, report *BuildReport, buildID string) (*storage.ArtifactMetadata, error) {
	if e.store == nil {
		return nil, fmt.Errorf("persist: no artifact store configured")
	}
	if err := e.store.Refresh(); err != nil {
		return nil, err
	}
	version := e.store.NextVersion(storage.ArtifactMovies, storage.ArtifactSimilarity)

	movies, sim := ToArtifacts(model, e.config.BuildOptions())
	base := storage.ArtifactMetadata{
		BuildID: buildID,
		Rows:    model.Len(),
		BuiltAt: time.Now().UTC(),
	}
	if report != nil {
		base.BuiltAt = report.StartedAt.UTC()
		base.BuildDurationMS = report.Duration.Milliseconds()
		base.VocabularySize = report.VocabularySize
	}

	// movies first, so a watcher keyed on similarity never sees a half pair
	if _, err := e.store.Save(ctx, storage.ArtifactMovies, version, movies, base); err != nil {
		return nil, fmt.Errorf("save movies artifact: %w", err)
	}
	meta, err := e.store.Save(ctx, storage.ArtifactSimilarity, version, sim, base)
	if err != nil {
		return nil, fmt.Errorf("save similarity artifact: %w", err)
	}

	for _, name := range []string{storage.ArtifactMovies, storage.ArtifactSimilarity} {
		if _, err := e.store.Prune(ctx, name, e.retain); err != nil {
			e.logger.Warn().Err(err).Str("artifact", name).Msg("failed to prune old artifacts")
		}
	}

	e.logger.Info().
		Int("version", version).
		Int("rows", meta.Rows).
		Int64("similarity_bytes", meta.SizeBytes).
		Msg("artifacts saved")
	return meta, nil
}

// LoadLatest loads the newest artifact pair from the store and swaps it in.
// It returns the loaded model, or the current one if it is already the newest.
func (e *Engine) LoadLatest(ctx context.Context) (*Model, error) {
	if e.store == nil {
		return nil, fmt.Errorf("load: no artifact store configured")
	}
	if err := e.store.Refresh(); err != nil {
		return nil, err
	}

	latest, ok := e.store.LatestVersion(storage.ArtifactSimilarity)
	if !ok {
		return nil, fmt.Errorf("%w: no artifacts in %s", ErrModelNotLoaded, e.store.Dir())
	}
	if cur := e.model.Load(); cur != nil && cur.Version() == latest {
		return cur, nil
	}

	movies, sim, meta, err := e.store.LoadPair(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("load artifacts v%d: %w", latest, err)
	}
	model, err := FromArtifacts(movies, sim, e.config.Lookup, meta.Version)
	if err != nil {
		return nil, fmt.Errorf("load artifacts v%d: %w", latest, err)
	}

	e.Swap(model, meta)
	e.logger.Info().Int("version", meta.Version).Int("movies", model.Len()).Msg("model loaded")
	return model, nil
}

// LookupResult is the outcome of an Engine lookup.
type LookupResult struct {
	Recommendations []Recommendation
	ModelVersion    int
	Cached          bool
}

// Recommend answers a lookup against the current model. k <= 0 means TopK.
func (e *Engine) Recommend(ctx context.Context, title string, k int) (*LookupResult, error) {
	e.requestCount.Add(1)

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	model := e.model.Load()
	if model == nil {
		e.errorCount.Add(1)
		return nil, ErrModelNotLoaded
	}
	k = model.clampK(k)

	key := strconv.Itoa(model.Version()) + "|" + strconv.Itoa(k) + "|" + title
	if e.cache != nil {
		if recs, ok := e.cache.Get(key); ok {
			return &LookupResult{Recommendations: slices.Clone(recs), ModelVersion: model.Version(), Cached: true}, nil
		}
	}

	recs, err := model.RecommendScored(title, k)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if e.cache != nil {
		e.cache.Add(key, slices.Clone(recs))
	}
	return &LookupResult{Recommendations: recs, ModelVersion: model.Version()}, nil
}

// Status describes the engine state.
type Status struct {
	Loaded       bool                      `json:"loaded"`
	Building     bool                      `json:"building"`
	ModelVersion int                       `json:"model_version"`
	Movies       int                       `json:"movies"`
	Vocabulary   int                       `json:"vocabulary_size"`
	Artifact     *storage.ArtifactMetadata `json:"artifact,omitempty"`
	LastBuild    *BuildReport              `json:"last_build,omitempty"`
	Requests     int64                     `json:"requests"`
	CacheHits    int64                     `json:"cache_hits"`
	CacheMisses  int64                     `json:"cache_misses"`
	CacheEntries int                       `json:"cache_entries"`
	Errors       int64                     `json:"errors"`
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	s := Status{
		Artifact:  e.meta.Load(),
		LastBuild: e.lastBuild.Load(),
		Requests:  e.requestCount.Load(),
		Errors:    e.errorCount.Load(),
	}
	if e.cache != nil {
		s.CacheHits, s.CacheMisses, s.CacheEntries = e.cache.Stats()
	}
	if e.buildMu.TryLock() {
		e.buildMu.Unlock()
	} else {
		s.Building = true
	}
	if m := e.model.Load(); m != nil {
		s.Loaded = true
		s.ModelVersion = m.Version()
		s.Movies = m.Len()
		if m.Vocabulary() != nil {
			s.Vocabulary = m.Vocabulary().Len()
		}
	}
	return s
}
