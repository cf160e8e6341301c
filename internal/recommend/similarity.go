// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Matrix is a dense symmetric N×N similarity matrix in row-major order.
type Matrix struct {
	N      int
	Values []float32
}

// At returns sim(i, j).
func (m *Matrix) At(i, j int) float32 {
	return m.Values[i*m.N+j]
}

// Row returns row i without copying. Callers must not modify it.
func (m *Matrix) Row(i int) []float32 {
	return m.Values[i*m.N : (i+1)*m.N]
}

// Cosine returns the cosine similarity of a and b, or 0 when either is all-zero.
func Cosine(a, b *CountVector) float64 {
	return cosine(a, b, a.Norm(), b.Norm())
}

// cosine takes precomputed norms. Rounding can push a self-similarity just
// above 1, so the result is clamped.
func cosine(a, b *CountVector, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	s := a.Dot(b) / (na * nb)
	if s > 1 {
		s = 1
	}
	return s
}

// CosineSimilarity computes the all-pairs matrix over vectors. Each unordered
// pair is computed once and written to both halves. Rows are distributed over
// at most workers goroutines; the result does not depend on the worker count.
func CosineSimilarity(ctx context.Context, vectors []CountVector, cfg SimilarityConfig) (*Matrix, error) {
	n := len(vectors)
	if cfg.MaxCorpus > 0 && n > cfg.MaxCorpus {
		return nil, fmt.Errorf("%w: %d movies, limit %d", ErrCorpusTooLarge, n, cfg.MaxCorpus)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	norms := make([]float64, n)
	for i := range vectors {
		norms[i] = vectors[i].Norm()
	}

	m := &Matrix{N: n, Values: make([]float32, n*n)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// row i owns every cell (i, j) and (j, i) with j >= i
			if norms[i] > 0 {
				m.Values[i*n+i] = 1
			}
			for j := i + 1; j < n; j++ {
				s := cosine(&vectors[i], &vectors[j], norms[i], norms[j])
				m.Values[i*n+j] = float32(s)
				m.Values[j*n+i] = float32(s)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	return m, nil
}
