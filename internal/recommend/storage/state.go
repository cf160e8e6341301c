// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package storage

import "encoding/gob"

// Artifact names.
const (
	ArtifactMovies     = "movies"
	ArtifactSimilarity = "similarity"
)

// MovieRow is one row of the movie table, in corpus order.
type MovieRow struct {
	ID    int64
	Title string
	Tags  string
}

// BuildOptions records the settings an artifact pair was built with.
type BuildOptions struct {
	CastLimit       int
	IncludeKeywords bool
	Stem            bool
	TokenPattern    string
	MaxFeatures     int
}

// MovieTable is the payload of the movies artifact.
type MovieTable struct {
	Rows    []MovieRow
	Terms   []string
	Options BuildOptions
}

// SimilarityState is the payload of the similarity artifact.
type SimilarityState struct {
	N      int
	Values []float32
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(MovieTable{})
	gob.Register(SimilarityState{})
	gob.Register(ArtifactMetadata{})
	gob.Register(storedFile{})
}
