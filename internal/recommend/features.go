// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	porterstemmer "github.com/reiver/go-porterstemmer"
)

// Column names as they appear in the source tables.
const (
	ColumnGenres   = "genres"
	ColumnKeywords = "keywords"
	ColumnCast     = "cast"
	ColumnCrew     = "crew"
)

const jobDirector = "Director"

var (
	errMissingName = errors.New("object has no string \"name\"")
	errMissingJob  = errors.New("object has no string \"job\"")
)

// entity is the wire shape shared by every nested column. Pointer fields
// distinguish an absent key from an empty value.
type entity struct {
	Name  *string `json:"name"`
	Job   *string `json:"job"`
	Order *int    `json:"order"`
}

func decodeEntities(raw string) ([]entity, error) {
	var out []entity
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode JSON array: %w", err)
	}
	for i := range out {
		if out[i].Name == nil {
			return nil, fmt.Errorf("element %d: %w", i, errMissingName)
		}
	}
	return out, nil
}

// DecodeGenres parses a genres column.
func DecodeGenres(raw string) ([]Genre, error) {
	ents, err := decodeEntities(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Genre, len(ents))
	for i, e := range ents {
		out[i] = Genre{Name: *e.Name}
	}
	return out, nil
}

// DecodeKeywords parses a keywords column.
func DecodeKeywords(raw string) ([]Keyword, error) {
	ents, err := decodeEntities(raw)
	if err != nil {
		return nil, err
	}
	out := make([]Keyword, len(ents))
	for i, e := range ents {
		out[i] = Keyword{Name: *e.Name}
	}
	return out, nil
}

// DecodeCast parses a cast column, keeping source order.
func DecodeCast(raw string) ([]CastMember, error) {
	ents, err := decodeEntities(raw)
	if err != nil {
		return nil, err
	}
	out := make([]CastMember, len(ents))
	for i, e := range ents {
		out[i] = CastMember{Name: *e.Name, Order: i}
		if e.Order != nil {
			out[i].Order = *e.Order
		}
	}
	return out, nil
}

// DecodeCrew parses a crew column. Every element must carry a job.
func DecodeCrew(raw string) ([]CrewMember, error) {
	ents, err := decodeEntities(raw)
	if err != nil {
		return nil, err
	}
	out := make([]CrewMember, len(ents))
	for i, e := range ents {
		if e.Job == nil {
			return nil, fmt.Errorf("element %d: %w", i, errMissingJob)
		}
		out[i] = CrewMember{Name: *e.Name, Job: *e.Job}
	}
	return out, nil
}

// Extract decodes the nested columns of rec and flattens them into Features.
// Decoding failures are returned as *MalformedRecordError.
func Extract(rec *Record, cfg FeatureConfig) (Features, error) {
	malformed := func(column string, err error) error {
		return &MalformedRecordError{ID: rec.ID, Title: rec.Title, Column: column, Err: err}
	}

	genres, err := DecodeGenres(rec.Genres)
	if err != nil {
		return Features{}, malformed(ColumnGenres, err)
	}
	keywords, err := DecodeKeywords(rec.Keywords)
	if err != nil {
		return Features{}, malformed(ColumnKeywords, err)
	}
	cast, err := DecodeCast(rec.Cast)
	if err != nil {
		return Features{}, malformed(ColumnCast, err)
	}
	crew, err := DecodeCrew(rec.Crew)
	if err != nil {
		return Features{}, malformed(ColumnCrew, err)
	}

	f := Features{Overview: strings.Fields(rec.Overview)}

	for _, g := range genres {
		f.Genres = append(f.Genres, collapse(g.Name))
	}

	if cfg.IncludeKeywords {
		for _, k := range keywords {
			f.Keywords = append(f.Keywords, collapse(k.Name))
		}
	}

	for i, c := range cast {
		if i >= cfg.CastLimit {
			break
		}
		f.Cast = append(f.Cast, collapse(c.Name))
	}

	for _, c := range crew {
		if c.Job == jobDirector {
			f.Director = collapse(c.Name)
			break
		}
	}

	return f, nil
}

// Tags returns overview tokens, genres, keywords, cast and director in that order.
// Empty names are dropped.
func (f *Features) Tags() []string {
	tags := make([]string, 0, len(f.Overview)+len(f.Genres)+len(f.Keywords)+len(f.Cast)+1)
	tags = append(tags, f.Overview...)
	for _, group := range [][]string{f.Genres, f.Keywords, f.Cast, {f.Director}} {
		for _, t := range group {
			if t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// Stemmer maps one lower-cased token to its stem.
type Stemmer func(string) string

// PorterStem stems a token with the Porter algorithm. Tokens of one or two
// characters are returned unchanged, as is any token the stemmer cannot
// handle (it indexes out of range on words such as "eed" and "eing").
func PorterStem(token string) (stem string) {
	if len([]rune(token)) <= 2 {
		return token
	}
	defer func() {
		if recover() != nil {
			stem = token
		}
	}()
	return porterstemmer.StemString(token)
}

// TagString joins tags with single spaces, lower-cases the result and, when
// stem is non-nil, replaces each whitespace-delimited token with its stem.
func TagString(tags []string, stem Stemmer) string {
	joined := strings.ToLower(strings.Join(tags, " "))
	if stem == nil {
		return strings.Join(strings.Fields(joined), " ")
	}
	tokens := strings.Fields(joined)
	for i, tok := range tokens {
		tokens[i] = stem(tok)
	}
	return strings.Join(tokens, " ")
}

// collapse removes every whitespace rune from a name.
func collapse(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
