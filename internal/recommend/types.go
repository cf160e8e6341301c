// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package recommend

// Record is one row of the joined movies and credits tables.
// Genres, Keywords, Cast and Crew hold the raw JSON array text of the source columns.
type Record struct {
	ID       int64
	Title    string
	Overview string
	Genres   string
	Keywords string
	Cast     string
	Crew     string
}

// Genre is one element of the genres column.
type Genre struct {
	Name string
}

// Keyword is one element of the keywords column.
type Keyword struct {
	Name string
}

// CastMember is one element of the cast column.
type CastMember struct {
	Name  string
	Order int
}

// CrewMember is one element of the crew column.
type CrewMember struct {
	Name string
	Job  string
}

// Features are the decoded and flattened content fields of a record.
type Features struct {
	Overview []string
	Genres   []string
	Keywords []string
	Cast     []string
	Director string
}

// Movie is one row of a built model.
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
}

// Recommendation is a single ranked lookup result.
type Recommendation struct {
	Rank  int     `json:"rank"`
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Titles returns the titles of recs in rank order.
func Titles(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}
