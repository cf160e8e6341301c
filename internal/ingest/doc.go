// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

/*
Package ingest loads the CSV inputs of ReelSense through an in-memory DuckDB
connection.

Two sources are supported:

  - The movie catalog: a movies CSV and a credits CSV, inner-joined on title.
    The result is a []recommend.Record ready for recommend.Builder.
  - A ratings sheet export with Name, Genre, Sub-Genre, usr1, usr2, Mean,
    Director and BoB columns, used to seed the ratings store.

Every column is read as text (read_csv with all_varchar) so that nested JSON
columns reach the feature extractor untouched; numbers are parsed in Go.

# Join Semantics

LoadMovies keeps the rows of the inner join whose id, title, overview, genres,
keywords, cast and crew are all present, ordered by movie file row and then
credits file row. A title that appears several times on either side yields one
record per pair.

# Usage

	r, err := ingest.NewReader(logger)
	if err != nil {
	    return err
	}
	defer r.Close()

	records, stats, err := r.LoadMovies(ctx, "tmdb_5000_movies.csv", "tmdb_5000_credits.csv")
*/
package ingest
