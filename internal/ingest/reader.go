// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	// DuckDB driver - reads CSV files in-process with read_csv
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"
)

// ErrMissingColumn is returned when a CSV file lacks a required column.
var ErrMissingColumn = errors.New("required column missing")

// Reader reads CSV inputs through an in-memory DuckDB connection.
type Reader struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewReader opens an in-memory DuckDB connection.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReader(logger zerolog.Logger) (*Reader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return &Reader{
		db:     db,
		logger: logger.With().Str("component", "ingest").Logger(),
	}, nil
}

// Close releases the DuckDB connection.
func (r *Reader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// csvSource returns a read_csv table expression for path with every column as text.
func csvSource(path string) string {
	return fmt.Sprintf("read_csv('%s', header = true, all_varchar = true)", strings.ReplaceAll(path, "'", "''"))
}

// columns returns the header of the CSV file at path.
func (r *Reader) columns(ctx context.Context, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+csvSource(path)+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return cols, rows.Err()
}

// verifyColumns checks that the CSV at path has every required column and
// returns its full header.
func (r *Reader) verifyColumns(ctx context.Context, path string, required ...string) ([]string, error) {
	cols, err := r.columns(ctx, path)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, c := range required {
		if !slices.Contains(cols, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s lacks %s", ErrMissingColumn, path, strings.Join(missing, ", "))
	}
	return cols, nil
}

// quoteIdent quotes a column name for DuckDB.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
