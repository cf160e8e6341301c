// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package recommend implements the content-based movie recommender.
//
// # Pipeline
//
// A build turns joined movie records into an immutable Model in four stages:
//
//   - Feature extraction: overview words, genre names, the leading cast
//     members and the director are flattened into one tag list per movie.
//     Multi-word names are collapsed ("Science Fiction" becomes
//     "ScienceFiction") so they survive tokenization as a single token.
//   - Tag string: tags are joined, lower-cased and Porter-stemmed.
//   - Vectorization: a bag of words over the corpus with English stop words
//     removed, truncated to the MaxFeatures most frequent tokens.
//   - Similarity: the all-pairs cosine similarity matrix, stored as float32.
//
// # Lookup
//
// Model.Recommend resolves a title by exact match and returns the TopK most
// similar other titles, sorted by similarity with ties kept in corpus order.
// Duplicate titles resolve to the first occurrence unless TitlePolicy is
// "reject".
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	builder := recommend.NewBuilder(cfg, logger)
//	model, report, err := builder.Build(ctx, records)
//	if err != nil {
//	    return err
//	}
//	titles, err := model.Recommend("Avatar")
//
// The Engine wraps a Model for long-running processes: it persists and
// reloads artifacts through the storage subpackage, swaps models atomically
// and caches lookups.
//
// # Thread Safety
//
// A Model is never mutated after Build and may be shared by any number of
// readers. Engine serializes builds and publishes new models with an atomic
// pointer swap, so lookups never block on a build.
package recommend
