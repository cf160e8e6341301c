// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Build stage names, used as metric labels.
const (
	StageExtract    = "extract"
	StageVectorize  = "vectorize"
	StageSimilarity = "similarity"
)

// BuildReport summarizes one build.
type BuildReport struct {
	Records        int                      `json:"records"`
	Skipped        int                      `json:"skipped"`
	Movies         int                      `json:"movies"`
	VocabularySize int                      `json:"vocabulary_size"`
	Stages         map[string]time.Duration `json:"stages"`
	Duration       time.Duration            `json:"duration"`
	StartedAt      time.Time                `json:"started_at"`
}

// Builder turns joined records into a Model.
type Builder struct {
	cfg    *Config
	logger zerolog.Logger
	stem   Stemmer
}

// NewBuilder creates a builder. A nil cfg means DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(cfg *Config, logger zerolog.Logger) *Builder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	b := &Builder{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Features.Stem {
		b.stem = PorterStem
	}
	return b
}

// Build runs extraction, vectorization and similarity over records in order.
func (b *Builder) Build(ctx context.Context, records []Record) (*Model, *BuildReport, error) {
	report := &BuildReport{
		Records:   len(records),
		Stages:    make(map[string]time.Duration, 3),
		StartedAt: time.Now(),
	}

	stageStart := time.Now()
	movies, docs, err := b.extract(ctx, records, report)
	if err != nil {
		return nil, report, err
	}
	report.Stages[StageExtract] = time.Since(stageStart)
	if len(movies) == 0 {
		return nil, report, ErrEmptyCorpus
	}
	report.Movies = len(movies)

	stageStart = time.Now()
	vocab, vectors := NewVectorizer(b.cfg.Vectorizer).FitTransform(docs)
	report.Stages[StageVectorize] = time.Since(stageStart)
	report.VocabularySize = vocab.Len()

	stageStart = time.Now()
	sim, err := CosineSimilarity(ctx, vectors, b.cfg.Similarity)
	if err != nil {
		return nil, report, err
	}
	report.Stages[StageSimilarity] = time.Since(stageStart)

	model, err := NewModel(movies, vocab, sim, b.cfg.Lookup)
	if err != nil {
		return nil, report, err
	}
	report.Duration = time.Since(report.StartedAt)

	b.logger.Info().
		Int("records", report.Records).
		Int("skipped", report.Skipped).
		Int("movies", report.Movies).
		Int("vocabulary", report.VocabularySize).
		Dur("duration", report.Duration).
		Msg("model built")

	return model, report, nil
}

func (b *Builder) extract(ctx context.Context, records []Record, report *BuildReport) ([]Movie, []string, error) {
	movies := make([]Movie, 0, len(records))
	docs := make([]string, 0, len(records))

	for i := range records {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("extract features: %w", err)
			}
		}
		rec := &records[i]
		f, err := Extract(rec, b.cfg.Features)
		if err != nil {
			if b.cfg.Features.OnMalformed != MalformedSkip {
				return nil, nil, fmt.Errorf("extract features: %w", err)
			}
			report.Skipped++
			b.logger.Warn().Err(err).Int64("movie_id", rec.ID).Msg("skipping malformed record")
			continue
		}
		tags := TagString(f.Tags(), b.stem)
		movies = append(movies, Movie{ID: rec.ID, Title: rec.Title, Tags: tags})
		docs = append(docs, tags)
	}
	return movies, docs, nil
}
