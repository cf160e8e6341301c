// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

// overviewRecord returns a record whose only content is its overview.
func overviewRecord(id int64, title, overview string) Record {
	return Record{
		ID:       id,
		Title:    title,
		Overview: overview,
		Genres:   "[]",
		Keywords: "[]",
		Cast:     "[]",
		Crew:     "[]",
	}
}

func scenarioRecords() []Record {
	return []Record{
		overviewRecord(1, "A", "space war hero"),
		overviewRecord(2, "B", "space battle hero"),
		overviewRecord(3, "C", "romance drama"),
	}
}

func buildModel(t *testing.T, cfg *Config, records []Record) *Model {
	t.Helper()
	model, _, err := NewBuilder(cfg, zerolog.Nop()).Build(context.Background(), records)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return model
}
