// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"context"
	"errors"
)

var (
	// ErrFilmNotFound is returned when no row has the requested name.
	ErrFilmNotFound = errors.New("film not found")

	// ErrFilmExists is returned by Append for a name already on the sheet.
	ErrFilmExists = errors.New("film already on sheet")
)

// Sheet is an ordered, name-indexed list of films.
type Sheet interface {
	// All returns every row in append order.
	All(ctx context.Context) ([]Film, error)

	// Find returns the row with the exact name, or ErrFilmNotFound.
	Find(ctx context.Context, name string) (Film, error)

	// UpdateScores replaces usr1, usr2 and mean of an existing row.
	UpdateScores(ctx context.Context, name string, usr1, usr2, mean float64) (Film, error)

	// Append adds a row at the end and returns it with its row number set.
	Append(ctx context.Context, film Film) (Film, error)
}
