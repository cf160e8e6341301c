// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize splits a tag string according to pattern and drops stop words.
func Tokenize(s string, pattern TokenPattern) []string {
	var raw []string
	switch pattern {
	case TokenWord:
		raw = wordPattern.FindAllString(s, -1)
	default:
		raw = strings.Fields(s)
	}
	out := raw[:0]
	for _, tok := range raw {
		if !IsStopWord(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Vocabulary maps tokens to vector dimensions. Terms are in rank order:
// descending corpus frequency, ties in first-seen order.
type Vocabulary struct {
	Terms []string
	index map[string]int
}

// NewVocabulary rebuilds a vocabulary from its ordered terms.
func NewVocabulary(terms []string) *Vocabulary {
	v := &Vocabulary{Terms: terms, index: make(map[string]int, len(terms))}
	for i, t := range terms {
		v.index[t] = i
	}
	return v
}

// Len returns the number of dimensions.
func (v *Vocabulary) Len() int { return len(v.Terms) }

// Index returns the dimension of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// CountVector is a sparse term-count vector. Indices are strictly increasing.
type CountVector struct {
	Indices []int
	Counts  []int
	dim     int
}

// Dim returns the full vector length.
func (c *CountVector) Dim() int { return c.dim }

// Dense returns the vector expanded to Dim entries.
func (c *CountVector) Dense() []int {
	out := make([]int, c.dim)
	for k, i := range c.Indices {
		out[i] = c.Counts[k]
	}
	return out
}

// Count returns the count stored for dimension i.
func (c *CountVector) Count(i int) int {
	k := sort.SearchInts(c.Indices, i)
	if k < len(c.Indices) && c.Indices[k] == i {
		return c.Counts[k]
	}
	return 0
}

// Norm returns the Euclidean length of the vector.
func (c *CountVector) Norm() float64 {
	var sum float64
	for _, n := range c.Counts {
		sum += float64(n) * float64(n)
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two sparse vectors.
func (c *CountVector) Dot(o *CountVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(c.Indices) && j < len(o.Indices) {
		switch {
		case c.Indices[i] == o.Indices[j]:
			sum += float64(c.Counts[i]) * float64(o.Counts[j])
			i++
			j++
		case c.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer builds a bag-of-words vocabulary and count vectors.
type Vectorizer struct {
	cfg   VectorizerConfig
	vocab *Vocabulary
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	return &Vectorizer{cfg: cfg}
}

// Vocabulary returns the fitted vocabulary, or nil before Fit.
func (v *Vectorizer) Vocabulary() *Vocabulary { return v.vocab }

// Fit selects the MaxFeatures most frequent non-stop-word tokens of docs.
func (v *Vectorizer) Fit(docs []string) *Vocabulary {
	counts := make(map[string]int)
	var order []string
	for _, doc := range docs {
		for _, tok := range Tokenize(doc, v.cfg.TokenPattern) {
			if _, seen := counts[tok]; !seen {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	// order is first-seen, so a stable sort keeps that as the tie break
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if v.cfg.MaxFeatures > 0 && len(order) > v.cfg.MaxFeatures {
		order = order[:v.cfg.MaxFeatures]
	}

	v.vocab = NewVocabulary(order)
	return v.vocab
}

// Transform converts docs to count vectors over the fitted vocabulary.
// Tokens outside the vocabulary are ignored.
func (v *Vectorizer) Transform(docs []string) []CountVector {
	out := make([]CountVector, len(docs))
	for d, doc := range docs {
		out[d] = VectorizeWith(v.vocab, doc, v.cfg.TokenPattern)
	}
	return out
}

// FitTransform is Fit followed by Transform on the same documents.
func (v *Vectorizer) FitTransform(docs []string) (*Vocabulary, []CountVector) {
	vocab := v.Fit(docs)
	return vocab, v.Transform(docs)
}

// VectorizeWith builds the count vector of one document over vocab.
func VectorizeWith(vocab *Vocabulary, doc string, pattern TokenPattern) CountVector {
	counts := make(map[int]int)
	for _, tok := range Tokenize(doc, pattern) {
		if i, ok := vocab.Index(tok); ok {
			counts[i]++
		}
	}
	vec := CountVector{
		Indices: make([]int, 0, len(counts)),
		Counts:  make([]int, 0, len(counts)),
		dim:     vocab.Len(),
	}
	for i := range counts {
		vec.Indices = append(vec.Indices, i)
	}
	sort.Ints(vec.Indices)
	for _, i := range vec.Indices {
		vec.Counts = append(vec.Counts, counts[i])
	}
	return vec
}
