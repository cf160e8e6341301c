// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"github.com/tomtom215/reelsense/internal/recommend/storage"
)

// BuildOptions returns the persisted form of the settings that shape a build.
func (c *Config) BuildOptions() storage.BuildOptions {
	return storage.BuildOptions{
		CastLimit:       c.Features.CastLimit,
		IncludeKeywords: c.Features.IncludeKeywords,
		Stem:            c.Features.Stem,
		TokenPattern:    string(c.Vectorizer.TokenPattern),
		MaxFeatures:     c.Vectorizer.MaxFeatures,
	}
}

// ToArtifacts splits a model into its two persisted payloads.
func ToArtifacts(m *Model, opts storage.BuildOptions) (storage.MovieTable, storage.SimilarityState) {
	rows := make([]storage.MovieRow, len(m.movies))
	for i, mv := range m.movies {
		rows[i] = storage.MovieRow{ID: mv.ID, Title: mv.Title, Tags: mv.Tags}
	}
	var terms []string
	if m.vocab != nil {
		terms = m.vocab.Terms
	}
	return storage.MovieTable{Rows: rows, Terms: terms, Options: opts},
		storage.SimilarityState{N: m.sim.N, Values: m.sim.Values}
}

// FromArtifacts rebuilds a model from loaded payloads.
//
//nolint:gocritic // lookup passed by value is acceptable for small config
func FromArtifacts(movies *storage.MovieTable, sim *storage.SimilarityState, lookup LookupConfig, version int) (*Model, error) {
	rows := make([]Movie, len(movies.Rows))
	for i, r := range movies.Rows {
		rows[i] = Movie{ID: r.ID, Title: r.Title, Tags: r.Tags}
	}
	m, err := NewModel(rows, NewVocabulary(movies.Terms), &Matrix{N: sim.N, Values: sim.Values}, lookup)
	if err != nil {
		return nil, err
	}
	m.version = version
	return m, nil
}
