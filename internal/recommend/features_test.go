// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

const avatarCast = `[
	{"cast_id": 242, "character": "Jake Sully", "name": "Sam Worthington", "order": 0},
	{"cast_id": 3, "character": "Neytiri", "name": "Zoe Saldana", "order": 1},
	{"cast_id": 25, "character": "Dr. Grace Augustine", "name": "Sigourney Weaver", "order": 2},
	{"cast_id": 4, "character": "Col. Quaritch", "name": "Stephen Lang", "order": 3}
]`

const avatarCrew = `[
	{"department": "Editing", "job": "Editor", "name": "Stephen E. Rivkin"},
	{"department": "Directing", "job": "Director", "name": "James Cameron"},
	{"department": "Directing", "job": "Director", "name": "Someone Else"}
]`

func avatarRecord() Record {
	return Record{
		ID:       19995,
		Title:    "Avatar",
		Overview: "In the 22nd century, a paraplegic Marine",
		Genres:   `[{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]`,
		Keywords: `[{"id": 1463, "name": "culture clash"}, {"id": 2964, "name": "future"}]`,
		Cast:     avatarCast,
		Crew:     avatarCrew,
	}
}

func TestExtract(t *testing.T) {
	rec := avatarRecord()
	f, err := Extract(&rec, DefaultConfig().Features)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := Features{
		Overview: []string{"In", "the", "22nd", "century,", "a", "paraplegic", "Marine"},
		Genres:   []string{"Action", "ScienceFiction"},
		Cast:     []string{"SamWorthington", "ZoeSaldana", "SigourneyWeaver"},
		Director: "JamesCameron",
	}
	if !reflect.DeepEqual(f, want) {
		t.Errorf("Extract =\n%+v\nwant\n%+v", f, want)
	}

	wantTags := []string{
		"In", "the", "22nd", "century,", "a", "paraplegic", "Marine",
		"Action", "ScienceFiction",
		"SamWorthington", "ZoeSaldana", "SigourneyWeaver",
		"JamesCameron",
	}
	if got := f.Tags(); !reflect.DeepEqual(got, wantTags) {
		t.Errorf("Tags() = %v", got)
	}
}

func TestExtract_IncludeKeywords(t *testing.T) {
	rec := avatarRecord()
	cfg := DefaultConfig().Features
	cfg.IncludeKeywords = true

	f, err := Extract(&rec, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f.Keywords, []string{"cultureclash", "future"}) {
		t.Errorf("Keywords = %v", f.Keywords)
	}
	tags := f.Tags()
	// keywords sit between genres and cast
	if tags[9] != "cultureclash" || tags[11] != "SamWorthington" {
		t.Errorf("tag order = %v", tags)
	}
}

func TestExtract_EdgeCases(t *testing.T) {
	tests := []struct {
		name         string
		cast         string
		crew         string
		wantCast     []string
		wantDirector string
	}{
		{
			name:         "no director",
			cast:         `[{"name": "Solo Actor"}]`,
			crew:         `[{"name": "Jane Doe", "job": "Producer"}]`,
			wantCast:     []string{"SoloActor"},
			wantDirector: "",
		},
		{
			name:         "fewer than limit keeps all in order",
			cast:         `[{"name": "B Actor", "order": 1}, {"name": "A Actor", "order": 0}]`,
			crew:         `[]`,
			wantCast:     []string{"BActor", "AActor"},
			wantDirector: "",
		},
		{
			name:         "empty cast",
			cast:         `[]`,
			crew:         `[{"name": "Ann Lee", "job": "Director"}]`,
			wantCast:     nil,
			wantDirector: "AnnLee",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{ID: 1, Title: "T", Overview: "x", Genres: "[]", Keywords: "[]", Cast: tt.cast, Crew: tt.crew}
			f, err := Extract(&rec, DefaultConfig().Features)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if !reflect.DeepEqual(f.Cast, tt.wantCast) {
				t.Errorf("Cast = %v, want %v", f.Cast, tt.wantCast)
			}
			if f.Director != tt.wantDirector {
				t.Errorf("Director = %q, want %q", f.Director, tt.wantDirector)
			}
			for _, tag := range f.Tags() {
				if tag == "" {
					t.Error("Tags() contains an empty tag")
				}
			}
		})
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Record)
		column string
	}{
		{"genres not JSON", func(r *Record) { r.Genres = "[{'name': 'Action'}]" }, ColumnGenres},
		{"genre without name", func(r *Record) { r.Genres = `[{"id": 28}]` }, ColumnGenres},
		{"name not a string", func(r *Record) { r.Cast = `[{"name": 12}]` }, ColumnCast},
		{"keywords empty string", func(r *Record) { r.Keywords = "" }, ColumnKeywords},
		{"crew without job", func(r *Record) { r.Crew = `[{"name": "X"}]` }, ColumnCrew},
		{"not an array", func(r *Record) { r.Crew = `{"name": "X", "job": "Director"}` }, ColumnCrew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := avatarRecord()
			tt.mutate(&rec)

			_, err := Extract(&rec, DefaultConfig().Features)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("err = %v, want ErrMalformedRecord", err)
			}
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("err is %T, want *MalformedRecordError", err)
			}
			if mre.ID != 19995 || mre.Column != tt.column {
				t.Errorf("MalformedRecordError = %+v, want column %s", mre, tt.column)
			}
		})
	}
}

func TestCollapse(t *testing.T) {
	tests := map[string]string{
		"Science Fiction":   "ScienceFiction",
		"Sam  Worthington":  "SamWorthington",
		"Tab\tand\nnewline": "Tabandnewline",
		"Jean\u00a0Reno":    "JeanReno",
		"AlreadyCollapsed":  "AlreadyCollapsed",
		"":                  "",
	}
	for in, want := range tests {
		if got := collapse(in); got != want {
			t.Errorf("collapse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTagString(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		stem Stemmer
		want string
	}{
		{"lowercase only", []string{"Space", "WAR", "ScienceFiction"}, nil, "space war sciencefiction"},
		{"porter", []string{"Running", "movies", "battles", "is"}, PorterStem, "run movi battl is"},
		{"empty", nil, PorterStem, ""},
		{"words the stemmer cannot handle", []string{"Bees", "EED", "the", "flowers", "eing"}, PorterStem, "bee eed the flower eing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TagString(tt.tags, tt.stem); got != tt.want {
				t.Errorf("TagString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPorterStem_OddTokens(t *testing.T) {
	tokens := []string{
		"eed", "eeds", "eing", "eed!", "(eing)",
		"don't", "a.i.", "(1999)", "--", "...", "'", "x", "xy",
		"héros", "naïve", "café", "日本語", "Ωmega", "ß",
		"sss", "yyy", "eee", "iii", "ing", "ed", "ies",
	}
	for _, tok := range tokens {
		t.Run(tok, func(t *testing.T) {
			got := PorterStem(tok)
			if got == "" {
				t.Fatalf("PorterStem(%q) is empty", tok)
			}
			if strings.ContainsFunc(got, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }) {
				t.Errorf("PorterStem(%q) = %q contains whitespace", tok, got)
			}
			if utf8.RuneCountInString(got) > utf8.RuneCountInString(tok) {
				t.Errorf("PorterStem(%q) = %q is longer than the token", tok, got)
			}
			if again := PorterStem(tok); again != got {
				t.Errorf("PorterStem(%q) not deterministic: %q then %q", tok, got, again)
			}
		})
	}

	for _, tok := range []string{"eed", "eeds", "eing"} {
		if got := PorterStem(tok); got != tok {
			t.Errorf("PorterStem(%q) = %q, want the token unchanged", tok, got)
		}
	}
}
