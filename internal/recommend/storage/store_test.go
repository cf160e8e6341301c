// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package storage

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testPair() (MovieTable, SimilarityState) {
	movies := MovieTable{
		Rows: []MovieRow{
			{ID: 1, Title: "Alien", Tags: "space crew"},
			{ID: 2, Title: "Aliens", Tags: "space marine"},
		},
		Terms:   []string{"space", "crew", "marine"},
		Options: BuildOptions{CastLimit: 3, Stem: true, TokenPattern: "whitespace", MaxFeatures: 5000},
	}
	sim := SimilarityState{N: 2, Values: []float32{1, 0.5, 0.5, 1}}
	return movies, sim
}

func savePair(t *testing.T, s *Store, version int, buildID string) {
	t.Helper()
	movies, sim := testPair()
	ctx := context.Background()
	if _, err := s.Save(ctx, ArtifactMovies, version, movies, ArtifactMetadata{BuildID: buildID, Rows: 2}); err != nil {
		t.Fatalf("Save movies: %v", err)
	}
	if _, err := s.Save(ctx, ArtifactSimilarity, version, sim, ArtifactMetadata{BuildID: buildID, Rows: 2}); err != nil {
		t.Fatalf("Save similarity: %v", err)
	}
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts", "nested")
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q", s.Dir())
	}
	if v := s.NextVersion(); v != 1 {
		t.Errorf("NextVersion() on empty store = %d, want 1", v)
	}
}

func TestStore_SaveAndLoadPair(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	savePair(t, s, 1, "b1")

	movies, sim, meta, err := s.LoadPair(context.Background(), 0)
	if err != nil {
		t.Fatalf("LoadPair: %v", err)
	}
	if meta.Version != 1 || meta.FormatVersion != FormatVersion {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Checksum == "" || meta.SizeBytes == 0 {
		t.Error("checksum and size should be filled in")
	}
	if len(movies.Rows) != 2 || movies.Rows[1].Title != "Aliens" {
		t.Errorf("movies = %+v", movies.Rows)
	}
	if movies.Options.MaxFeatures != 5000 || movies.Terms[2] != "marine" {
		t.Errorf("options/terms not round-tripped: %+v %v", movies.Options, movies.Terms)
	}
	if sim.N != 2 || sim.Values[1] != 0.5 {
		t.Errorf("sim = %+v", sim)
	}
}

func TestStore_VersionsAndRefresh(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	savePair(t, s, 1, "b1")
	savePair(t, s, 2, "b2")

	if v := s.NextVersion(ArtifactMovies, ArtifactSimilarity); v != 3 {
		t.Errorf("NextVersion = %d, want 3", v)
	}

	// a second process writes version 3
	other, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	savePair(t, other, 3, "b3")

	if v, _ := s.LatestVersion(ArtifactSimilarity); v != 2 {
		t.Errorf("stale store sees v%d before Refresh, want 2", v)
	}
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.LatestVersion(ArtifactSimilarity); v != 3 {
		t.Errorf("LatestVersion after Refresh = %d, want 3", v)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var sim SimilarityState
	if _, err := s.Load(context.Background(), ArtifactSimilarity, 0, &sim); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load latest on empty store: %v, want ErrNotFound", err)
	}
	if _, err := s.Load(context.Background(), ArtifactSimilarity, 7, &sim); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load v7: %v, want ErrNotFound", err)
	}
}

func TestStore_ChecksumValidation(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, sim := testPair()
	if _, err := s.Save(context.Background(), ArtifactSimilarity, 1, sim, ArtifactMetadata{}); err != nil {
		t.Fatal(err)
	}

	// rewrite the envelope with a wrong checksum
	path := filepath.Join(dir, "similarity_v1.gob.gz")
	sf, err := readStoredFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sf.Metadata.Checksum = "deadbeef"
	writeEnvelope(t, path, sf)

	var out SimilarityState
	if _, err := s.Load(context.Background(), ArtifactSimilarity, 1, &out); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Load corrupted: %v, want ErrChecksumMismatch", err)
	}
}

func TestStore_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_, sim := testPair()
	if _, err := s.Save(context.Background(), ArtifactSimilarity, 1, sim, ArtifactMetadata{}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "similarity_v1.gob.gz")
	sf, err := readStoredFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sf.Metadata.FormatVersion = FormatVersion + 1
	writeEnvelope(t, path, sf)

	var out SimilarityState
	if _, err := s.Load(context.Background(), ArtifactSimilarity, 1, &out); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load future format: %v, want ErrUnsupportedFormat", err)
	}
}

func TestStore_LoadPairMismatch(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, s *Store)
	}{
		{
			name: "missing movies",
			setup: func(t *testing.T, s *Store) {
				_, sim := testPair()
				if _, err := s.Save(context.Background(), ArtifactSimilarity, 1, sim, ArtifactMetadata{}); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "different builds",
			setup: func(t *testing.T, s *Store) {
				movies, sim := testPair()
				ctx := context.Background()
				if _, err := s.Save(ctx, ArtifactMovies, 1, movies, ArtifactMetadata{BuildID: "a"}); err != nil {
					t.Fatal(err)
				}
				if _, err := s.Save(ctx, ArtifactSimilarity, 1, sim, ArtifactMetadata{BuildID: "b"}); err != nil {
					t.Fatal(err)
				}
			},
		},
		{
			name: "row count",
			setup: func(t *testing.T, s *Store) {
				movies, _ := testPair()
				sim := SimilarityState{N: 1, Values: []float32{1}}
				ctx := context.Background()
				if _, err := s.Save(ctx, ArtifactMovies, 1, movies, ArtifactMetadata{}); err != nil {
					t.Fatal(err)
				}
				if _, err := s.Save(ctx, ArtifactSimilarity, 1, sim, ArtifactMetadata{}); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			tt.setup(t, s)
			if _, _, _, err := s.LoadPair(context.Background(), 1); !errors.Is(err, ErrArtifactMismatch) {
				t.Errorf("LoadPair: %v, want ErrArtifactMismatch", err)
			}
		})
	}
}

func TestStore_Prune(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for v := 1; v <= 4; v++ {
		savePair(t, s, v, "b")
	}

	removed, err := s.Prune(context.Background(), ArtifactSimilarity, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	for _, v := range []int{1, 2} {
		if _, err := os.Stat(s.path(ArtifactSimilarity, v)); !os.IsNotExist(err) {
			t.Errorf("similarity v%d should be pruned", v)
		}
	}
	if _, err := os.Stat(s.path(ArtifactMovies, 1)); err != nil {
		t.Error("pruning similarity must not touch movies")
	}
	if v, _ := s.LatestVersion(ArtifactSimilarity); v != 4 {
		t.Errorf("LatestVersion after prune = %d", v)
	}
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	savePair(t, s, 1, "b")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents = %v, want two artifact files", names)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		version int
		ok      bool
	}{
		{"similarity_v12.gob.gz", "similarity", 12, true},
		{"movies_v1.gob.gz", "movies", 1, true},
		{"my_model_v3.gob.gz", "my_model", 3, true},
		{"movies_v0.gob.gz", "", 0, false},
		{"movies_vx.gob.gz", "", 0, false},
		{"movies.gob.gz", "", 0, false},
		{"movies_v1.gob", "", 0, false},
		{".artifact-123.tmp", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, version, ok := ParseFilename(tt.in)
			if name != tt.name || version != tt.version || ok != tt.ok {
				t.Errorf("ParseFilename(%q) = %q, %d, %v", tt.in, name, version, ok)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	savePair(t, s, 1, "b")

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != ArtifactMovies || list[1].Name != ArtifactSimilarity {
		t.Errorf("List = %+v", list)
	}
}

func writeEnvelope(t *testing.T, path string, sf *storedFile) {
	t.Helper()
	f, err := os.Create(path) //nolint:gosec // test path
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := gob.NewEncoder(f).Encode(*sf); err != nil {
		t.Fatal(err)
	}
}
