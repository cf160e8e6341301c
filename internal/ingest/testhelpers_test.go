// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeCSV(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", name, err)
	}
	return path
}

func newTestReader(t *testing.T) *Reader {
	t.Helper()
	r, err := NewReader(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

const (
	genresJSON   = `[{"id": 28, "name": "Action"}]`
	keywordsJSON = `[{"id": 1, "name": "heist"}]`
	castJSON     = `[{"name": "Al Pacino", "order": 0}]`
)

func crewJSON(director string) string {
	return `[{"name": "` + director + `", "job": "Director"}]`
}
