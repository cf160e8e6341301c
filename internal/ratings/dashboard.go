// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// DashboardConfig holds the page and chart settings.
type DashboardConfig struct {
	Title  string
	Width  string
	Height string
	Theme  string
	// SortByScore orders the per-film chart by mean instead of by name.
	SortByScore bool
}

// DefaultDashboardConfig returns the default dashboard settings.
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Title:  "Film Ratings",
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
	}
}

// RenderDashboard writes a self-contained HTML page of rating charts.
func RenderDashboard(w io.Writer, films []Film, cfg DashboardConfig) error {
	s := Summarize(films)

	page := components.NewPage()
	page.PageTitle = cfg.Title
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		genrePie(s, cfg),
		genreAverageBar(s, cfg),
		directorPie(s, cfg),
		directorAverageBar(s, cfg),
		densityLines(Density(films), cfg),
		filmScoreBar(s, cfg),
		disagreementBar(s, cfg),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return nil
}

func globalOpts(cfg DashboardConfig, title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  cfg.Width,
			Height: cfg.Height,
			Theme:  cfg.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	}
}

func donut(name string, data []opts.PieData, cfg DashboardConfig, title, subtitle string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(cfg, title, subtitle)...)
	pie.AddSeries(name, data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"40%", "70%"},
			}),
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)
	return pie
}

func genrePie(s *Summary, cfg DashboardConfig) *charts.Pie {
	data := make([]opts.PieData, len(s.GenreCounts))
	for i, g := range s.GenreCounts {
		data[i] = opts.PieData{Name: g.Label, Value: g.Count}
	}
	subtitle := ""
	if s.MostWatchedGenre.Label != "" {
		subtitle = fmt.Sprintf("Most watched: %s (%d films)", s.MostWatchedGenre.Label, s.MostWatchedGenre.Count)
	}
	return donut("Genres", data, cfg, "Genres Watched", subtitle)
}

func directorPie(s *Summary, cfg DashboardConfig) *charts.Pie {
	data := make([]opts.PieData, len(s.TopDirectors))
	for i, d := range s.TopDirectors {
		data[i] = opts.PieData{Name: d.Label, Value: d.Count}
	}
	subtitle := ""
	if s.MostWatchedDirector.Label != "" {
		subtitle = "Most watched: " + s.MostWatchedDirector.Label
	}
	return donut("Directors", data, cfg, "Top Directors", subtitle)
}

func averageBar(stats []GroupStat, cfg DashboardConfig, title, subtitle string) *charts.Bar {
	labels := make([]string, len(stats))
	values := make([]opts.BarData, len(stats))
	for i, g := range stats {
		labels[i] = g.Label
		values[i] = opts.BarData{Value: round2(g.Average)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(cfg, title, subtitle),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 10}),
	)...)
	bar.SetXAxis(labels).AddSeries("Average", values)
	return bar
}

func genreAverageBar(s *Summary, cfg DashboardConfig) *charts.Bar {
	subtitle := ""
	if s.BestGenre.Label != "" {
		subtitle = "Best: " + s.BestGenre.Label
	}
	return averageBar(s.TopGenreAverages, cfg, "Average Score by Genre", subtitle)
}

func directorAverageBar(s *Summary, cfg DashboardConfig) *charts.Bar {
	subtitle := ""
	if s.BestDirector.Label != "" {
		subtitle = "Best: " + s.BestDirector.Label
	}
	return averageBar(s.TopDirectors, cfg, "Average Score by Director", subtitle)
}

func densityLines(series []DensitySeries, cfg DashboardConfig) *charts.Line {
	line := charts.NewLine()
	global := globalOpts(cfg, "Density of Ratings", "")
	global = append(global, charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}))
	line.SetGlobalOptions(global...)

	if len(series) == 0 {
		return line
	}
	xLabels := make([]string, len(series[0].Points))
	for i, p := range series[0].Points {
		xLabels[i] = strconv.FormatFloat(p.Score, 'f', 1, 64)
	}
	line.SetXAxis(xLabels)

	for _, s := range series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.LineData{Value: p.Density}
		}
		line.AddSeries(s.Name, data)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
	)
	return line
}

func filmScoreBar(s *Summary, cfg DashboardConfig) *charts.Bar {
	films := s.Alphabetical
	if cfg.SortByScore {
		films = s.ByScore
	}
	labels := make([]string, len(films))
	values := make([]opts.BarData, len(films))
	for i, f := range films {
		labels[i] = f.Name
		values[i] = opts.BarData{Name: f.Genre, Value: f.Mean}
	}

	subtitle := ""
	if len(s.HighestRated) > 0 {
		subtitle = "Highest rated: " + s.HighestRated[0]
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(cfg, "Film Scores", subtitle)...)
	bar.SetXAxis(labels).AddSeries("Mean", values)
	return bar
}

func disagreementBar(s *Summary, cfg DashboardConfig) *charts.Bar {
	labels := make([]string, len(s.Disagreements))
	values := make([]opts.BarData, len(s.Disagreements))
	for i, d := range s.Disagreements {
		labels[i] = d.Name
		values[i] = opts.BarData{Value: d.Diff}
	}

	subtitle := ""
	if s.MostDisagreed != "" {
		subtitle = "Most disagreed: " + s.MostDisagreed
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(cfg, "Rating Difference (usr2 - usr1)", subtitle)...)
	bar.SetXAxis(labels).AddSeries("Difference", values)
	return bar
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
