// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/validation"
)

func newTestSheet(t *testing.T) *BadgerSheet {
	t.Helper()
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBadgerSheet(db)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestSheet(t), zerolog.Nop())
}

func validSubmission(name string) Submission {
	return Submission{
		Name:        name,
		Director:    "Ridley Scott",
		Genre:       "Sci-fi",
		SubGenre:    "Horror",
		Usr1:        8,
		Usr2:        9,
		BasedOnBook: "N",
	}
}

func TestSubmit_FindOrAppend(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	res, err := svc.Submit(ctx, validSubmission("Alien"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Outcome != OutcomeAppended {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeAppended)
	}
	if res.Film.Row != 1 || res.Film.Mean != 8.5 {
		t.Errorf("Film = %+v, want row 1 mean 8.5", res.Film)
	}

	if _, err := svc.Submit(ctx, validSubmission("Blade Runner")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// resubmitting replaces only the scores
	update := validSubmission("Alien")
	update.Genre = "Drama"
	update.Director = "Someone Else"
	update.Usr1 = 0
	update.Usr2 = 7.5
	res, err = svc.Submit(ctx, update)
	if err != nil {
		t.Fatalf("Submit update: %v", err)
	}
	if res.Outcome != OutcomeUpdated {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeUpdated)
	}

	films, err := svc.Films(ctx)
	if err != nil {
		t.Fatalf("Films: %v", err)
	}
	if len(films) != 2 {
		t.Fatalf("len(films) = %d, want 2", len(films))
	}
	alien := films[0]
	if alien.Name != "Alien" || alien.Row != 1 {
		t.Errorf("films[0] = %+v, want Alien in row 1", alien)
	}
	if alien.Genre != "Sci-fi" || alien.Director != "Ridley Scott" {
		t.Errorf("update changed non-score columns: %+v", alien)
	}
	if alien.Usr1 != 0 || alien.Usr2 != 7.5 || alien.Mean != 7.5 {
		t.Errorf("scores = %v/%v/%v, want 0/7.5/7.5", alien.Usr1, alien.Usr2, alien.Mean)
	}
	if films[1].Name != "Blade Runner" || films[1].Row != 2 {
		t.Errorf("films[1] = %+v, want Blade Runner in row 2", films[1])
	}
}

func TestSubmit_NormalizesInput(t *testing.T) {
	svc := newTestService(t)
	sub := validSubmission("  Heat ")
	sub.SubGenre = "N/A"
	sub.BasedOnBook = "y"

	res, err := svc.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Film.Name != "Heat" {
		t.Errorf("Name = %q, want trimmed", res.Film.Name)
	}
	if res.Film.SubGenre != "" {
		t.Errorf("SubGenre = %q, want empty for N/A", res.Film.SubGenre)
	}
	if res.Film.BasedOnBook != "Y" {
		t.Errorf("BasedOnBook = %q, want Y", res.Film.BasedOnBook)
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		field  string
	}{
		{"missing name", func(s *Submission) { s.Name = "  " }, "name"},
		{"unknown genre", func(s *Submission) { s.Genre = "Musical" }, "genre"},
		{"unknown sub-genre", func(s *Submission) { s.SubGenre = "Musical" }, "sub_genre"},
		{"score above range", func(s *Submission) { s.Usr1 = 10.5 }, "usr1"},
		{"negative score", func(s *Submission) { s.Usr2 = -1 }, "usr2"},
		{"not a half step", func(s *Submission) { s.Usr1 = 7.3 }, "usr1"},
		{"bad bob", func(s *Submission) { s.BasedOnBook = "maybe" }, "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			sub := validSubmission("Alien")
			tt.mutate(&sub)

			_, err := svc.Submit(context.Background(), sub)
			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Submit error = %v, want RequestValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors() {
				if fe.Field() == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.field, verr)
			}

			films, _ := svc.Films(context.Background())
			if len(films) != 0 {
				t.Errorf("rejected submission was stored: %+v", films)
			}
		})
	}
}

func TestBadgerSheet(t *testing.T) {
	ctx := context.Background()
	sheet := newTestSheet(t)

	if _, err := sheet.Find(ctx, "Alien"); !errors.Is(err, ErrFilmNotFound) {
		t.Errorf("Find on empty sheet = %v, want ErrFilmNotFound", err)
	}
	if _, err := sheet.UpdateScores(ctx, "Alien", 1, 1, 1); !errors.Is(err, ErrFilmNotFound) {
		t.Errorf("UpdateScores missing = %v, want ErrFilmNotFound", err)
	}

	f, err := sheet.Append(ctx, Film{Name: "Alien", Genre: "Sci-fi", Mean: 8})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if f.Row != 1 {
		t.Errorf("Row = %d, want 1", f.Row)
	}
	if _, err := sheet.Append(ctx, Film{Name: "Alien"}); !errors.Is(err, ErrFilmExists) {
		t.Errorf("duplicate Append = %v, want ErrFilmExists", err)
	}

	// names match exactly
	if _, err := sheet.Find(ctx, "alien"); !errors.Is(err, ErrFilmNotFound) {
		t.Errorf("Find(alien) = %v, want ErrFilmNotFound", err)
	}
	got, err := sheet.Find(ctx, "Alien")
	if err != nil || got.Genre != "Sci-fi" {
		t.Errorf("Find(Alien) = %+v, %v", got, err)
	}
}

func TestBadgerSheet_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "ratings")

	db, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	sheet := NewBadgerSheet(db)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := sheet.Append(ctx, Film{Name: name}); err != nil {
			t.Fatalf("Append(%s): %v", name, err)
		}
	}
	db.Close()

	db, err = OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	sheet = NewBadgerSheet(db)

	f, err := sheet.Append(ctx, Film{Name: "D"})
	if err != nil {
		t.Fatalf("Append(D): %v", err)
	}
	if f.Row != 4 {
		t.Errorf("Row after reopen = %d, want 4", f.Row)
	}
	films, err := sheet.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	var names []string
	for _, f := range films {
		names = append(names, f.Name)
	}
	if want := []string{"A", "B", "C", "D"}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	if _, err := svc.Submit(ctx, validSubmission("Alien")); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	stats, err := svc.Import(ctx, []Film{
		{Name: "Alien", Genre: "Sci-fi", Usr1: 10, Usr2: 10},
		{Name: "Heat", Genre: "Crime", SubGenre: "Thriller", Usr1: 7, Director: "Michael Mann"},
		{Name: "Bad", Genre: "Musical", Usr1: 5},
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Updated != 1 || stats.Appended != 1 || stats.Rejected != 1 {
		t.Errorf("stats = %+v, want 1 updated 1 appended 1 rejected", stats)
	}
	if len(stats.Errors) != 1 {
		t.Errorf("Errors = %v, want one entry", stats.Errors)
	}

	heat, err := svc.sheet.Find(ctx, "Heat")
	if err != nil {
		t.Fatalf("Find(Heat): %v", err)
	}
	if heat.BasedOnBook != "N" || heat.Mean != 7 {
		t.Errorf("Heat = %+v, want BoB N and mean 7", heat)
	}
}

func TestImport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := newTestService(t).Import(ctx, []Film{{Name: "Alien", Genre: "Sci-fi"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if stats.Appended != 0 {
		t.Errorf("Appended = %d, want 0", stats.Appended)
	}
}
