// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/reelsense/internal/recommend"
)

var (
	movieColumns  = []string{"id", "title", "overview", "genres", "keywords"}
	creditColumns = []string{"title", "cast", "crew"}
)

// JoinStats describes a LoadMovies run.
type JoinStats struct {
	MovieRows  int           `json:"movie_rows"`
	CreditRows int           `json:"credit_rows"`
	Joined     int           `json:"joined"`
	Kept       int           `json:"kept"`
	Duration   time.Duration `json:"duration"`
}

// Dropped is the number of joined rows removed for missing values.
func (s *JoinStats) Dropped() int {
	return s.Joined - s.Kept
}

// joinCTE numbers both files in read order and joins them on title.
func joinCTE(moviesPath, creditsPath string) string {
	return `WITH m AS (
	SELECT row_number() OVER () AS movie_row, * FROM ` + csvSource(moviesPath) + `
), c AS (
	SELECT row_number() OVER () AS credit_row, * FROM ` + csvSource(creditsPath) + `
), j AS (
	SELECT m.movie_row, c.credit_row,
	       m.id, m.title, m.overview, m.genres, m.keywords, c."cast", c.crew
	FROM m JOIN c ON m.title = c.title
), kept AS (
	SELECT * FROM j
	WHERE id IS NOT NULL AND title IS NOT NULL AND overview IS NOT NULL
	  AND genres IS NOT NULL AND keywords IS NOT NULL
	  AND "cast" IS NOT NULL AND crew IS NOT NULL
)
`
}

// LoadMovies reads the movies and credits files and returns their joined
// records in movie-row then credit-row order.
func (r *Reader) LoadMovies(ctx context.Context, moviesPath, creditsPath string) ([]recommend.Record, *JoinStats, error) {
	start := time.Now()

	if _, err := r.verifyColumns(ctx, moviesPath, movieColumns...); err != nil {
		return nil, nil, err
	}
	if _, err := r.verifyColumns(ctx, creditsPath, creditColumns...); err != nil {
		return nil, nil, err
	}

	cte := joinCTE(moviesPath, creditsPath)
	stats := &JoinStats{}
	err := r.db.QueryRowContext(ctx, cte+`SELECT
	(SELECT count(*) FROM m), (SELECT count(*) FROM c),
	(SELECT count(*) FROM j), (SELECT count(*) FROM kept)`).
		Scan(&stats.MovieRows, &stats.CreditRows, &stats.Joined, &stats.Kept)
	if err != nil {
		return nil, nil, fmt.Errorf("count joined rows: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, cte+`SELECT id, title, overview, genres, keywords, "cast", crew
FROM kept ORDER BY movie_row, credit_row`)
	if err != nil {
		return nil, nil, fmt.Errorf("query joined rows: %w", err)
	}
	defer rows.Close()

	records := make([]recommend.Record, 0, stats.Kept)
	for rows.Next() {
		var rawID string
		var rec recommend.Record
		if err := rows.Scan(&rawID, &rec.Title, &rec.Overview, &rec.Genres, &rec.Keywords, &rec.Cast, &rec.Crew); err != nil {
			return nil, nil, fmt.Errorf("scan joined row: %w", err)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			return nil, nil, &recommend.MalformedRecordError{Title: rec.Title, Column: "id", Err: err}
		}
		rec.ID = id
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate joined rows: %w", err)
	}

	stats.Duration = time.Since(start)
	r.logger.Info().
		Int("movie_rows", stats.MovieRows).
		Int("credit_rows", stats.CreditRows).
		Int("joined", stats.Joined).
		Int("dropped", stats.Dropped()).
		Dur("duration", stats.Duration).
		Msg("movie catalog loaded")

	return records, stats, nil
}
