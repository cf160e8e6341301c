// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelsense/internal/validation"
)

// Submission is a film entered through the form or API.
type Submission struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Director    string  `json:"director" validate:"max=200"`
	Genre       string  `json:"genre" validate:"required,film_genre"`
	SubGenre    string  `json:"sub_genre" validate:"omitempty,film_subgenre"`
	Usr1        float64 `json:"usr1" validate:"gte=0,lte=10,half_step"`
	Usr2        float64 `json:"usr2" validate:"gte=0,lte=10,half_step"`
	BasedOnBook string  `json:"bob" validate:"required,oneof=Y N"`
}

// SubmitResult is the outcome of one submission.
type SubmitResult struct {
	Outcome Outcome `json:"outcome"`
	Film    Film    `json:"film"`
}

var registerOnce sync.Once

func registerValidators() {
	registerOnce.Do(func() {
		//nolint:errcheck // tags are non-empty constants
		validation.RegisterValidation("film_genre", func(fl validator.FieldLevel) bool {
			return IsGenre(fl.Field().String())
		})
		//nolint:errcheck // tags are non-empty constants
		validation.RegisterValidation("film_subgenre", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return v == SubGenreNone || IsGenre(v)
		})
	})
}

// Validate trims the submission and checks it against the sheet rules.
func (s *Submission) Validate() *validation.RequestValidationError {
	registerValidators()
	s.Name = strings.TrimSpace(s.Name)
	s.Director = strings.TrimSpace(s.Director)
	s.Genre = strings.TrimSpace(s.Genre)
	s.SubGenre = strings.TrimSpace(s.SubGenre)
	s.BasedOnBook = strings.ToUpper(strings.TrimSpace(s.BasedOnBook))
	return validation.ValidateStruct(s)
}

// Service applies submissions to a Sheet.
type Service struct {
	sheet  Sheet
	logger zerolog.Logger

	// serializes find-or-append so two submissions of a new name cannot both append
	mu sync.Mutex
}

// NewService creates a ratings service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(sheet Sheet, logger zerolog.Logger) *Service {
	return &Service{
		sheet:  sheet,
		logger: logger.With().Str("component", "ratings").Logger(),
	}
}

// Films returns every row in append order.
func (s *Service) Films(ctx context.Context) ([]Film, error) {
	return s.sheet.All(ctx)
}

// Summary computes the dashboard figures over the current sheet.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	films, err := s.sheet.All(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(films), nil
}

// Submit validates sub and applies find-or-append: an existing name only has
// usr1, usr2 and mean replaced; a new name is appended as a full row.
// Validation failures are returned as *validation.RequestValidationError.
func (s *Service) Submit(ctx context.Context, sub Submission) (*SubmitResult, error) {
	if verr := sub.Validate(); verr != nil {
		return nil, verr
	}
	mean := Mean(sub.Usr1, sub.Usr2)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.sheet.Find(ctx, sub.Name)
	switch {
	case err == nil:
		film, err := s.sheet.UpdateScores(ctx, sub.Name, sub.Usr1, sub.Usr2, mean)
		if err != nil {
			return nil, fmt.Errorf("update %q: %w", sub.Name, err)
		}
		s.logger.Info().Str("film", sub.Name).Float64("mean", mean).Msg("film scores updated")
		return &SubmitResult{Outcome: OutcomeUpdated, Film: film}, nil

	case errors.Is(err, ErrFilmNotFound):
		film, err := s.sheet.Append(ctx, Film{
			Name:        sub.Name,
			Genre:       sub.Genre,
			SubGenre:    NormalizeSubGenre(sub.SubGenre),
			Usr1:        sub.Usr1,
			Usr2:        sub.Usr2,
			Mean:        mean,
			Director:    sub.Director,
			BasedOnBook: sub.BasedOnBook,
		})
		if err != nil {
			return nil, fmt.Errorf("append %q: %w", sub.Name, err)
		}
		s.logger.Info().Str("film", sub.Name).Int("row", film.Row).Msg("film appended")
		return &SubmitResult{Outcome: OutcomeAppended, Film: film}, nil

	default:
		return nil, fmt.Errorf("find %q: %w", sub.Name, err)
	}
}

// ImportStats summarizes an Import.
type ImportStats struct {
	Appended int      `json:"appended"`
	Updated  int      `json:"updated"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// Import submits every film in order. Rows that fail validation are counted
// and reported but do not stop the import.
func (s *Service) Import(ctx context.Context, films []Film) (*ImportStats, error) {
	stats := &ImportStats{}
	for _, f := range films {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		sub := Submission{
			Name:        f.Name,
			Director:    f.Director,
			Genre:       f.Genre,
			SubGenre:    f.SubGenre,
			Usr1:        f.Usr1,
			Usr2:        f.Usr2,
			BasedOnBook: f.BasedOnBook,
		}
		if sub.BasedOnBook == "" {
			sub.BasedOnBook = "N"
		}

		res, err := s.Submit(ctx, sub)
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			stats.Rejected++
			stats.Errors = append(stats.Errors, fmt.Sprintf("%q: %s", f.Name, verr.Error()))
			s.logger.Warn().Str("film", f.Name).Str("reason", verr.Error()).Msg("rejected imported row")
			continue
		case err != nil:
			return stats, err
		}

		if res.Outcome == OutcomeUpdated {
			stats.Updated++
		} else {
			stats.Appended++
		}
	}
	return stats, nil
}

// SortedByName returns films sorted alphabetically by name.
func SortedByName(films []Film) []Film {
	out := slices.Clone(films)
	slices.SortStableFunc(out, func(a, b Film) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// SortedByMean returns films sorted by mean, highest first; equal means keep sheet order.
func SortedByMean(films []Film) []Film {
	out := slices.Clone(films)
	slices.SortStableFunc(out, func(a, b Film) int {
		switch {
		case a.Mean > b.Mean:
			return -1
		case a.Mean < b.Mean:
			return 1
		}
		return 0
	})
	return out
}
