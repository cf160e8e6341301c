// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FormatVersion is the artifact layout written by this package.
const FormatVersion = 1

const fileSuffix = ".gob.gz"

var (
	// ErrNotFound is returned when no artifact exists for a name or version.
	ErrNotFound = errors.New("artifact not found")

	// ErrUnsupportedFormat is returned for files written with another FormatVersion.
	ErrUnsupportedFormat = errors.New("unsupported artifact format")

	// ErrChecksumMismatch is returned when a payload fails verification.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")

	// ErrArtifactMismatch is returned when the movies and similarity artifacts disagree.
	ErrArtifactMismatch = errors.New("movies and similarity artifacts do not match")
)

// ArtifactMetadata describes a stored artifact.
type ArtifactMetadata struct {
	Name          string    `json:"name"`
	Version       int       `json:"version"`
	FormatVersion int       `json:"format_version"`
	BuildID       string    `json:"build_id,omitempty"`
	BuiltAt       time.Time `json:"built_at"`
	SavedAt       time.Time `json:"saved_at"`

	// Rows is the number of movies the artifact covers.
	Rows           int `json:"rows"`
	VocabularySize int `json:"vocabulary_size,omitempty"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum  string `json:"checksum"`
	SizeBytes int64  `json:"size_bytes"`

	BuildDurationMS int64 `json:"build_duration_ms"`
}

// storedFile is the on-disk format for artifact files.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store manages artifact files in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewStore opens or creates a store at baseDir.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifact storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{baseDir: baseDir, versions: make(map[string]int)}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory the store manages.
func (s *Store) Dir() string { return s.baseDir }

// Refresh rescans the directory, picking up artifacts written by other processes.
func (s *Store) Refresh() error {
	all, err := s.scan()
	if err != nil {
		return fmt.Errorf("scan artifacts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = make(map[string]int, len(all))
	for name, versions := range all {
		s.versions[name] = versions[0]
	}
	return nil
}

// scan returns every version per artifact name, newest first.
func (s *Store) scan() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := ParseFilename(entry.Name())
		if !ok {
			continue
		}
		out[name] = append(out[name], version)
	}
	for name := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(out[name])))
	}
	return out, nil
}

// ParseFilename splits "similarity_v12.gob.gz" into ("similarity", 12).
func ParseFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, fileSuffix)
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// NextVersion returns a version greater than any stored version of the given
// artifacts, or of every artifact when names is empty.
func (s *Store) NextVersion(names ...string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	highest := 0
	if len(names) == 0 {
		for _, v := range s.versions {
			highest = max(highest, v)
		}
	}
	for _, name := range names {
		highest = max(highest, s.versions[name])
	}
	return highest + 1
}

// Save writes data as artifact name at version.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data any, meta ArtifactMetadata) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, fmt.Errorf("invalid artifact version %d", version)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress %s: %w", name, err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.FormatVersion = FormatVersion
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeAtomic(s.path(name, version), storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, err
	}
	if version > s.versions[name] {
		s.versions[name] = version
	}
	return &meta, nil
}

func (s *Store) writeAtomic(target string, sf storedFile) error {
	tmp, err := os.CreateTemp(s.baseDir, ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) } //nolint:errcheck // best-effort cleanup

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("write artifact file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		cleanup()
		return fmt.Errorf("sync artifact file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("rename artifact file: %w", err)
	}
	return nil
}

// Load decodes artifact name at version into target. Version 0 means latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		v, ok := s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		version = v
	}

	sf, err := readStoredFile(s.path(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		return nil, err
	}
	if sf.Metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %s v%d has format %d, want %d",
			ErrUnsupportedFormat, name, version, sf.Metadata.FormatVersion, FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: %s v%d expected %s, got %s",
			ErrChecksumMismatch, name, version, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &sf.Metadata, nil
}

func readStoredFile(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory and artifact name
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return &sf, nil
}

// LoadPair loads the movies and similarity artifacts of one build. Version 0
// means the latest similarity version.
func (s *Store) LoadPair(ctx context.Context, version int) (*MovieTable, *SimilarityState, *ArtifactMetadata, error) {
	if version == 0 {
		v, ok := s.LatestVersion(ArtifactSimilarity)
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: %s", ErrNotFound, ArtifactSimilarity)
		}
		version = v
	}

	var sim SimilarityState
	simMeta, err := s.Load(ctx, ArtifactSimilarity, version, &sim)
	if err != nil {
		return nil, nil, nil, err
	}

	var movies MovieTable
	movieMeta, err := s.Load(ctx, ArtifactMovies, version, &movies)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: no movies artifact for version %d", ErrArtifactMismatch, version)
		}
		return nil, nil, nil, err
	}

	if movieMeta.BuildID != simMeta.BuildID {
		return nil, nil, nil, fmt.Errorf("%w: build %q vs %q", ErrArtifactMismatch, movieMeta.BuildID, simMeta.BuildID)
	}
	if len(movies.Rows) != sim.N || len(sim.Values) != sim.N*sim.N {
		return nil, nil, nil, fmt.Errorf("%w: %d movies, %d×%d matrix with %d values",
			ErrArtifactMismatch, len(movies.Rows), sim.N, sim.N, len(sim.Values))
	}
	return &movies, &sim, simMeta, nil
}

// LatestVersion returns the newest version of an artifact.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// List returns metadata for the latest version of every artifact, sorted by name.
func (s *Store) List(ctx context.Context) ([]ArtifactMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ArtifactMetadata
	for name, version := range s.versions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := readStoredFile(s.path(name, version))
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes one artifact version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := os.Remove(s.path(name, version)); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return s.Refresh()
}

// Prune keeps the newest keep versions of artifact name and removes the rest.
// It returns the number of files removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	all, err := s.scan()
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	removed := 0
	versions := all[name]
	for i := keep; i < len(versions); i++ {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.Remove(s.path(name, versions[i])); err == nil {
			removed++
		}
	}
	return removed, s.Refresh()
}

func (s *Store) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}
