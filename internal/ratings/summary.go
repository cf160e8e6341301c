// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"math"
	"slices"
)

const (
	topGenres    = 5
	topDirectors = 10
	topFilms     = 3
)

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GroupStat is a label with its occurrence count and mean score.
type GroupStat struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Disagreement is the usr2 minus usr1 difference for a film both raters scored.
type Disagreement struct {
	Name string  `json:"name"`
	Diff float64 `json:"diff"`
}

// Summary holds the descriptive statistics of a ratings sheet.
type Summary struct {
	TotalFilms   int      `json:"total_films"`
	HighestMean  float64  `json:"highest_mean"`
	HighestRated []string `json:"highest_rated"`

	// GenreCounts counts Genre and Sub-Genre together, most frequent first.
	GenreCounts []Count `json:"genre_counts"`

	MostWatchedGenre    GroupStat   `json:"most_watched_genre"`
	MostWatchedGenreTop []string    `json:"most_watched_genre_top"`
	TopGenreAverages    []GroupStat `json:"top_genre_averages"`
	BestGenre           GroupStat   `json:"best_genre"`
	BestGenreTop        []string    `json:"best_genre_top"`

	TopDirectors        []GroupStat `json:"top_directors"`
	MostWatchedDirector GroupStat   `json:"most_watched_director"`
	BestDirector        GroupStat   `json:"best_director"`
	BestDirectorTop     []string    `json:"best_director_top"`

	RaterAverages map[string]float64 `json:"rater_averages"`
	HarsherRater  string             `json:"harsher_rater,omitempty"`

	Disagreements []Disagreement `json:"disagreements"`
	MostDisagreed string         `json:"most_disagreed,omitempty"`

	Alphabetical []Film `json:"alphabetical"`
	ByScore      []Film `json:"by_score"`
}

// Summarize computes every dashboard figure from the rows in sheet order.
// Ties in counts and averages resolve to the label seen first.
func Summarize(films []Film) *Summary {
	s := &Summary{
		TotalFilms:    len(films),
		RaterAverages: map[string]float64{},
		Alphabetical:  SortedByName(films),
		ByScore:       SortedByMean(films),
	}
	if len(films) == 0 {
		return s
	}

	s.HighestMean = math.Inf(-1)
	for _, f := range films {
		s.HighestMean = max(s.HighestMean, f.Mean)
	}
	for _, f := range films {
		if f.Mean == s.HighestMean {
			s.HighestRated = append(s.HighestRated, f.Name)
		}
	}

	summarizeGenres(s, films)
	summarizeDirectors(s, films)
	summarizeRaters(s, films)
	return s
}

// genreEntry is one (film, genre) pair from either genre column.
type genreEntry struct {
	genre string
	mean  float64
}

// genreEntries lists the Genre column for all films, then the Sub-Genre column,
// skipping empty values.
func genreEntries(films []Film) []genreEntry {
	entries := make([]genreEntry, 0, 2*len(films))
	for _, f := range films {
		if f.Genre != "" {
			entries = append(entries, genreEntry{f.Genre, f.Mean})
		}
	}
	for _, f := range films {
		if f.SubGenre != "" {
			entries = append(entries, genreEntry{f.SubGenre, f.Mean})
		}
	}
	return entries
}

func summarizeGenres(s *Summary, films []Film) {
	entries := genreEntries(films)
	labels := make([]string, len(entries))
	means := make([]float64, len(entries))
	for i, e := range entries {
		labels[i], means[i] = e.genre, e.mean
	}
	stats := groupStats(labels, means)
	if len(stats) == 0 {
		return
	}

	s.GenreCounts = make([]Count, len(stats))
	for i, g := range stats {
		s.GenreCounts[i] = Count{Label: g.Label, Count: g.Count}
	}

	s.MostWatchedGenre = stats[0]
	s.MostWatchedGenreTop = topByMean(films, func(f Film) bool { return f.Genre == stats[0].Label })

	s.TopGenreAverages = stats[:min(topGenres, len(stats))]
	s.BestGenre = bestAverage(s.TopGenreAverages)
	s.BestGenreTop = topByMean(films, func(f Film) bool { return f.Genre == s.BestGenre.Label })
}

func summarizeDirectors(s *Summary, films []Film) {
	var labels []string
	var means []float64
	for _, f := range films {
		if f.Director != "" {
			labels = append(labels, f.Director)
			means = append(means, f.Mean)
		}
	}
	stats := groupStats(labels, means)
	if len(stats) == 0 {
		return
	}

	s.TopDirectors = stats[:min(topDirectors, len(stats))]
	s.MostWatchedDirector = s.TopDirectors[0]
	s.BestDirector = bestAverage(s.TopDirectors)
	s.BestDirectorTop = topByMean(films, func(f Film) bool { return f.Director == s.BestDirector.Label })
}

func summarizeRaters(s *Summary, films []Film) {
	var sum1, sum2 float64
	var n1, n2 int
	for _, f := range films {
		if f.Usr1 != 0 {
			sum1 += f.Usr1
			n1++
		}
		if f.Usr2 != 0 {
			sum2 += f.Usr2
			n2++
		}
		if f.Usr1 != 0 && f.Usr2 != 0 && f.Mean != 0 && f.Usr1 != f.Usr2 {
			s.Disagreements = append(s.Disagreements, Disagreement{Name: f.Name, Diff: f.Usr2 - f.Usr1})
		}
	}
	if n1 > 0 {
		s.RaterAverages[RaterUsr1] = sum1 / float64(n1)
	}
	if n2 > 0 {
		s.RaterAverages[RaterUsr2] = sum2 / float64(n2)
	}
	if n1 > 0 && n2 > 0 {
		switch a1, a2 := s.RaterAverages[RaterUsr1], s.RaterAverages[RaterUsr2]; {
		case a1 < a2:
			s.HarsherRater = RaterUsr1
		case a2 < a1:
			s.HarsherRater = RaterUsr2
		}
	}

	var widest float64
	for _, d := range s.Disagreements {
		if math.Abs(d.Diff) > widest {
			widest = math.Abs(d.Diff)
			s.MostDisagreed = d.Name
		}
	}
}

// groupStats counts labels and averages their means, most frequent first with
// first-seen order breaking ties.
func groupStats(labels []string, means []float64) []GroupStat {
	index := make(map[string]int)
	var stats []GroupStat
	sums := []float64{}
	for i, label := range labels {
		k, ok := index[label]
		if !ok {
			k = len(stats)
			index[label] = k
			stats = append(stats, GroupStat{Label: label})
			sums = append(sums, 0)
		}
		stats[k].Count++
		sums[k] += means[i]
	}
	for k := range stats {
		stats[k].Average = sums[k] / float64(stats[k].Count)
	}
	slices.SortStableFunc(stats, func(a, b GroupStat) int { return b.Count - a.Count })
	return stats
}

// bestAverage returns the entry with the highest average, the earliest on ties.
func bestAverage(stats []GroupStat) GroupStat {
	best := stats[0]
	for _, g := range stats[1:] {
		if g.Average > best.Average {
			best = g
		}
	}
	return best
}

// topByMean returns up to three names of films matching keep, highest mean first.
func topByMean(films []Film, keep func(Film) bool) []string {
	var names []string
	for _, f := range SortedByMean(films) {
		if keep(f) {
			names = append(names, f.Name)
			if len(names) == topFilms {
				break
			}
		}
	}
	return names
}
