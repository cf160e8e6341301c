// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"fmt"
	"sort"
)

// Model is a built recommender: the movie table, its vocabulary and the
// similarity matrix. It is immutable and safe for concurrent use.
type Model struct {
	movies  []Movie
	vocab   *Vocabulary
	sim     *Matrix
	lookup  LookupConfig
	byTitle map[string][]int
	version int
}

// NewModel assembles a model from its parts. The matrix must be len(movies) square.
func NewModel(movies []Movie, vocab *Vocabulary, sim *Matrix, lookup LookupConfig) (*Model, error) {
	if sim == nil || sim.N != len(movies) || len(sim.Values) != len(movies)*len(movies) {
		return nil, fmt.Errorf("similarity matrix does not match %d movies", len(movies))
	}
	m := &Model{
		movies:  movies,
		vocab:   vocab,
		sim:     sim,
		lookup:  lookup,
		byTitle: make(map[string][]int, len(movies)),
	}
	for i := range movies {
		m.byTitle[movies[i].Title] = append(m.byTitle[movies[i].Title], i)
	}
	return m, nil
}

// WithVersion returns a shallow copy tagged with an artifact version.
func (m *Model) WithVersion(version int) *Model {
	c := *m
	c.version = version
	return &c
}

// Version is the artifact version the model was saved or loaded as, 0 if never persisted.
func (m *Model) Version() int { return m.version }

// Len returns the number of movies.
func (m *Model) Len() int { return len(m.movies) }

// Movie returns row i.
func (m *Model) Movie(i int) Movie { return m.movies[i] }

// Movies returns the movie table. Callers must not modify it.
func (m *Model) Movies() []Movie { return m.movies }

// Vocabulary returns the model vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return m.vocab }

// Similarity returns the similarity matrix. Callers must not modify it.
func (m *Model) Similarity() *Matrix { return m.sim }

// Lookup returns the lookup settings the model answers with.
func (m *Model) Lookup() LookupConfig { return m.lookup }

// Resolve maps an exact title to its row index.
func (m *Model) Resolve(title string) (int, error) {
	rows := m.byTitle[title]
	switch {
	case len(rows) == 0:
		return -1, fmt.Errorf("%w: %q", ErrNotFound, title)
	case len(rows) > 1 && m.lookup.TitlePolicy == TitleReject:
		return -1, fmt.Errorf("%w: %q appears %d times", ErrAmbiguousTitle, title, len(rows))
	}
	return rows[0], nil
}

// Recommend returns the TopK titles most similar to title.
func (m *Model) Recommend(title string) ([]string, error) {
	recs, err := m.RecommendScored(title, m.lookup.TopK)
	if err != nil {
		return nil, err
	}
	return Titles(recs), nil
}

// RecommendScored returns up to k ranked results for title. k <= 0 means TopK;
// k is capped at MaxK. The queried row is never returned and equal scores keep
// corpus order.
func (m *Model) RecommendScored(title string, k int) ([]Recommendation, error) {
	idx, err := m.Resolve(title)
	if err != nil {
		return nil, err
	}
	return m.recommendRow(idx, m.clampK(k)), nil
}

func (m *Model) clampK(k int) int {
	if k <= 0 {
		k = m.lookup.TopK
	}
	if m.lookup.MaxK > 0 && k > m.lookup.MaxK {
		k = m.lookup.MaxK
	}
	return k
}

func (m *Model) recommendRow(idx, k int) []Recommendation {
	row := m.sim.Row(idx)
	candidates := make([]int, 0, len(row))
	for j := range row {
		if j != idx {
			candidates = append(candidates, j)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return row[candidates[a]] > row[candidates[b]]
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]Recommendation, len(candidates))
	for r, j := range candidates {
		out[r] = Recommendation{
			Rank:  r + 1,
			ID:    m.movies[j].ID,
			Title: m.movies[j].Title,
			Score: float64(row[j]),
		}
	}
	return out
}
