// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tomtom215/reelsense/internal/ratings"
)

// Ratings sheet header names.
const (
	ColumnName     = "Name"
	ColumnGenre    = "Genre"
	ColumnSubGenre = "Sub-Genre"
	ColumnUsr1     = "usr1"
	ColumnUsr2     = "usr2"
	ColumnMean     = "Mean"
	ColumnDirector = "Director"
	ColumnBoB      = "BoB"
)

var (
	requiredRatingColumns = []string{ColumnName, ColumnGenre, ColumnUsr1, ColumnUsr2}
	optionalRatingColumns = []string{ColumnSubGenre, ColumnMean, ColumnDirector, ColumnBoB}
)

// LoadRatings reads a ratings sheet export in file order. Rows without a name
// are skipped; blank scores read as unrated. Mean is taken from the file when
// present and recomputed by the service on import.
func (r *Reader) LoadRatings(ctx context.Context, path string) ([]ratings.Film, error) {
	cols, err := r.verifyColumns(ctx, path, requiredRatingColumns...)
	if err != nil {
		return nil, err
	}

	selected := slices.Clone(requiredRatingColumns)
	exprs := make([]string, 0, len(requiredRatingColumns)+len(optionalRatingColumns))
	for _, c := range requiredRatingColumns {
		exprs = append(exprs, quoteIdent(c))
	}
	for _, c := range optionalRatingColumns {
		if slices.Contains(cols, c) {
			exprs = append(exprs, quoteIdent(c))
		} else {
			exprs = append(exprs, "NULL")
		}
		selected = append(selected, c)
	}

	query := "SELECT " + strings.Join(exprs, ", ") + " FROM " + csvSource(path)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var films []ratings.Film
	line := 1
	for rows.Next() {
		line++
		vals := make([]sql.NullString, len(selected))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan ratings row %d: %w", line, err)
		}

		get := func(col string) string {
			return strings.TrimSpace(vals[slices.Index(selected, col)].String)
		}
		name := get(ColumnName)
		if name == "" {
			r.logger.Debug().Int("line", line).Msg("skipping ratings row without a name")
			continue
		}

		f := ratings.Film{
			Name:        name,
			Genre:       get(ColumnGenre),
			SubGenre:    ratings.NormalizeSubGenre(get(ColumnSubGenre)),
			Director:    get(ColumnDirector),
			BasedOnBook: strings.ToUpper(get(ColumnBoB)),
		}
		for _, s := range []struct {
			col string
			dst *float64
		}{
			{ColumnUsr1, &f.Usr1},
			{ColumnUsr2, &f.Usr2},
			{ColumnMean, &f.Mean},
		} {
			if *s.dst, err = parseScore(get(s.col)); err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, s.col, err)
			}
		}
		if f.Mean == 0 {
			f.Mean = ratings.Mean(f.Usr1, f.Usr2)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	r.logger.Info().Str("path", path).Int("films", len(films)).Msg("ratings sheet loaded")
	return films, nil
}

// parseScore parses a score cell; blank means unrated.
func parseScore(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q: %w", s, err)
	}
	return v, nil
}
