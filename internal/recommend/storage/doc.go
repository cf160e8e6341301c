// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package storage persists recommender artifacts.
//
// A build writes two artifacts under the same version number:
//
//   - movies: the movie table (id, title, tags per row) together with the
//     vocabulary and the options the build ran with.
//   - similarity: the N×N float32 similarity matrix.
//
// Each artifact is loadable on its own. LoadPair loads both and checks that
// they belong together.
//
// # Storage Format
//
//	filename: {artifact}_v{version}.gob.gz
//
//	structure (gob):
//	  - Metadata (ArtifactMetadata, including FormatVersion and checksum)
//	  - CompressedData (gzip of the gob-encoded payload)
//
// The SHA-256 checksum covers the uncompressed payload and is verified on
// every load. Files are written to a temporary name in the same directory
// and renamed into place, so a reader never observes a partial artifact.
//
// # Versions
//
// Versions increase monotonically per store. NextVersion returns one more
// than the highest version of any artifact, and Prune keeps the newest N.
package storage
