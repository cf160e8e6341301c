// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no movie has the requested title.
	ErrNotFound = errors.New("movie not found")

	// ErrAmbiguousTitle is returned under TitlePolicyReject when several movies share a title.
	ErrAmbiguousTitle = errors.New("title matches more than one movie")

	// ErrEmptyCorpus is returned when a build has no usable records.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrCorpusTooLarge is returned before allocating a similarity matrix above MaxCorpus rows.
	ErrCorpusTooLarge = errors.New("corpus exceeds similarity capacity")

	// ErrModelNotLoaded is returned by Engine lookups before any model is available.
	ErrModelNotLoaded = errors.New("no recommendation model loaded")

	// ErrBuildInProgress is returned when a second build is started concurrently.
	ErrBuildInProgress = errors.New("build already in progress")

	// ErrMalformedRecord matches any *MalformedRecordError via errors.Is.
	ErrMalformedRecord = errors.New("malformed record")
)

// MalformedRecordError reports a nested column that could not be decoded.
type MalformedRecordError struct {
	ID     int64
	Title  string
	Column string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d (%q): column %s: %v", e.ID, e.Title, e.Column, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedRecord) true for every MalformedRecordError.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
