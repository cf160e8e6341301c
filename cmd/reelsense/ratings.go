// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelsense/internal/ingest"
	"github.com/tomtom215/reelsense/internal/ratings"
	"github.com/tomtom215/reelsense/internal/validation"
)

// runRatings dispatches the ratings subcommands.
func (a *app) runRatings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: ratings needs a subcommand (import, submit, summary, report)", errUsage)
	}

	svc, db, err := a.openRatings()
	if err != nil {
		return err
	}
	defer a.closeDB(db)

	sub, rest := args[0], args[1:]
	switch sub {
	case "import":
		return a.ratingsImport(ctx, svc, rest)
	case "submit":
		return a.ratingsSubmit(ctx, svc, rest)
	case "summary":
		return a.ratingsSummary(ctx, svc, rest)
	case "report":
		return a.ratingsReport(ctx, svc, rest)
	default:
		return fmt.Errorf("%w: unknown ratings subcommand %q", errUsage, sub)
	}
}

func (a *app) ratingsImport(ctx context.Context, svc *ratings.Service, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: ratings import needs one CSV file", errUsage)
	}
	stats, err := a.importRatings(ctx, svc, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "imported %s: %d appended, %d updated, %d rejected\n",
		args[0], stats.Appended, stats.Updated, stats.Rejected)
	for _, e := range stats.Errors {
		fmt.Fprintf(a.stdout, "  rejected %s\n", e)
	}
	return nil
}

// importRatings reads a sheet export with DuckDB and applies it row by row.
func (a *app) importRatings(ctx context.Context, svc *ratings.Service, path string) (*ratings.ImportStats, error) {
	reader, err := ingest.NewReader(a.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing ingest reader")
		}
	}()

	films, err := reader.LoadRatings(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return svc.Import(ctx, films)
}

func (a *app) ratingsSubmit(ctx context.Context, svc *ratings.Service, args []string) error {
	fs := newFlagSet("ratings submit")
	var sub ratings.Submission
	fs.StringVar(&sub.Name, "name", "", "film name")
	fs.StringVar(&sub.Genre, "genre", "", "genre: "+strings.Join(ratings.Genres(), ", "))
	fs.StringVar(&sub.SubGenre, "sub-genre", "", "sub-genre or N/A")
	fs.StringVar(&sub.Director, "director", "", "director")
	fs.Float64Var(&sub.Usr1, "usr1", 0, "first rater score, 0-10 in 0.5 steps (0 = not rated)")
	fs.Float64Var(&sub.Usr2, "usr2", 0, "second rater score, 0-10 in 0.5 steps (0 = not rated)")
	fs.StringVar(&sub.BasedOnBook, "bob", "N", "based on a book: Y or N")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	res, err := svc.Submit(ctx, sub)
	if err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", errUsage, verr.Error())
		}
		return err
	}
	fmt.Fprintf(a.stdout, "%s %q (row %d, mean %.2f)\n", res.Outcome, res.Film.Name, res.Film.Row, res.Film.Mean)
	return nil
}

func (a *app) ratingsSummary(ctx context.Context, svc *ratings.Service, args []string) error {
	fs := newFlagSet("ratings summary")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	s, err := svc.Summary(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return writeSummary(a.stdout, s)
}

// writeSummary prints the headline figures as aligned columns.
func writeSummary(out io.Writer, s *ratings.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Films watched\t%d\n", s.TotalFilms)
	if s.TotalFilms == 0 {
		return tw.Flush()
	}
	fmt.Fprintf(tw, "Highest mean\t%.2f (%s)\n", s.HighestMean, strings.Join(s.HighestRated, ", "))
	fmt.Fprintf(tw, "Most watched genre\t%s (%d films, avg %.2f)\n",
		s.MostWatchedGenre.Label, s.MostWatchedGenre.Count, s.MostWatchedGenre.Average)
	fmt.Fprintf(tw, "  top films\t%s\n", strings.Join(s.MostWatchedGenreTop, ", "))
	fmt.Fprintf(tw, "Best genre\t%s (avg %.2f)\n", s.BestGenre.Label, s.BestGenre.Average)
	fmt.Fprintf(tw, "  top films\t%s\n", strings.Join(s.BestGenreTop, ", "))
	if s.MostWatchedDirector.Label != "" {
		fmt.Fprintf(tw, "Most watched director\t%s (%d films)\n", s.MostWatchedDirector.Label, s.MostWatchedDirector.Count)
		fmt.Fprintf(tw, "Best director\t%s (avg %.2f)\n", s.BestDirector.Label, s.BestDirector.Average)
		fmt.Fprintf(tw, "  top films\t%s\n", strings.Join(s.BestDirectorTop, ", "))
	}
	for _, rater := range []string{ratings.RaterUsr1, ratings.RaterUsr2} {
		if avg, ok := s.RaterAverages[rater]; ok {
			fmt.Fprintf(tw, "Average %s\t%.2f\n", rater, avg)
		}
	}
	if s.HarsherRater != "" {
		fmt.Fprintf(tw, "Harsher rater\t%s\n", s.HarsherRater)
	}
	if s.MostDisagreed != "" {
		fmt.Fprintf(tw, "Most disagreed\t%s\n", s.MostDisagreed)
	}
	return tw.Flush()
}

func (a *app) ratingsReport(ctx context.Context, svc *ratings.Service, args []string) (err error) {
	fs := newFlagSet("ratings report")
	byScore := fs.Bool("by-score", false, "order the per-film chart by mean")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: ratings report needs one output file", errUsage)
	}
	path := fs.Arg(0)

	films, err := svc.Films(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	cfg := ratings.DefaultDashboardConfig()
	cfg.SortByScore = *byScore
	if err := ratings.RenderDashboard(f, films, cfg); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	fmt.Fprintf(a.stdout, "wrote %s (%d films)\n", path, len(films))
	return nil
}
