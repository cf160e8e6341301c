// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelsense/internal/models"
)

// runRecommend prints the recommendations for a title from the latest model.
func (a *app) runRecommend(ctx context.Context, args []string) error {
	fs := newFlagSet("recommend")
	k := fs.Int("k", 0, "number of recommendations (0 = configured default)")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: recommend needs a title", errUsage)
	}
	if *k < 0 {
		return fmt.Errorf("%w: -k must not be negative", errUsage)
	}

	engine, err := a.openEngine()
	if err != nil {
		return err
	}
	if _, err := engine.LoadLatest(ctx); err != nil {
		return fmt.Errorf("load model (run build first): %w", err)
	}

	result, err := engine.Recommend(ctx, title, *k)
	if err != nil {
		return fmt.Errorf("recommend %q: %w", title, err)
	}

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models.RecommendationsResponse{
			Title:           title,
			K:               len(result.Recommendations),
			Recommendations: result.Recommendations,
		})
	}
	for _, r := range result.Recommendations {
		fmt.Fprintf(a.stdout, "%d. %s (%.4f)\n", r.Rank, r.Title, r.Score)
	}
	return nil
}
