// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"slices"
	"strings"
)

// Rater column names.
const (
	RaterUsr1 = "usr1"
	RaterUsr2 = "usr2"
)

// SubGenreNone is the sub-genre choice stored as an empty string.
const SubGenreNone = "N/A"

// Outcome reports what a submission did to the sheet.
type Outcome string

const (
	// OutcomeUpdated means an existing row had its scores replaced.
	OutcomeUpdated Outcome = "updated"
	// OutcomeAppended means a new row was added.
	OutcomeAppended Outcome = "appended"
)

// Film is one row of the ratings sheet.
type Film struct {
	Row         int     `json:"row"`
	Name        string  `json:"name"`
	Genre       string  `json:"genre"`
	SubGenre    string  `json:"sub_genre"`
	Usr1        float64 `json:"usr1"`
	Usr2        float64 `json:"usr2"`
	Mean        float64 `json:"mean"`
	Director    string  `json:"director"`
	BasedOnBook string  `json:"bob"`
}

var allGenres = []string{
	"Drama", "Action", "Horror", "Comedy", "Thriller", "Sci-fi", "Romance", "Western", "Crime", "Adventure",
	"Fantasy", "Historical", "War", "Noir", "Mystery", "Gangster", "Psychological Thriller", "Rom Com",
	"Superhero", "Anime", "Dark Comedy", "Hidden Camera", "Suspense",
}

// Genres returns the selectable genres, sorted.
func Genres() []string {
	out := slices.Clone(allGenres)
	slices.Sort(out)
	return slices.Compact(out)
}

// SubGenres returns the selectable sub-genres: "N/A" followed by Genres().
func SubGenres() []string {
	return append([]string{SubGenreNone}, Genres()...)
}

// IsGenre reports whether g is a selectable genre.
func IsGenre(g string) bool {
	return slices.Contains(allGenres, g)
}

// Mean combines two scores. An unrated (zero) score defers to the other one.
func Mean(usr1, usr2 float64) float64 {
	switch {
	case usr1 == 0:
		return usr2
	case usr2 == 0:
		return usr1
	default:
		return (usr1 + usr2) / 2
	}
}

// NormalizeSubGenre maps the "N/A" choice to the stored empty value.
func NormalizeSubGenre(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), SubGenreNone) {
		return ""
	}
	return strings.TrimSpace(s)
}
