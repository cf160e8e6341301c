// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import "math"

const (
	// DensityBandwidth is the standard deviation of the Gaussian kernel.
	DensityBandwidth = 0.3

	// DensitySteps is the number of intervals on the 0-10 score grid.
	DensitySteps = 100

	// SeriesAverage labels the Mean column in density output.
	SeriesAverage = "Average"
)

// DensityPoint is one sample of an estimated density curve.
type DensityPoint struct {
	Score   float64 `json:"score"`
	Density float64 `json:"density"`
}

// DensitySeries is a named density curve.
type DensitySeries struct {
	Name   string         `json:"name"`
	Points []DensityPoint `json:"points"`
}

// Density estimates the score distributions of the Mean, usr1 and usr2 columns
// using only films that both raters scored. Series come back in that order.
// With no qualifying films every curve is flat zero.
func Density(films []Film) []DensitySeries {
	var means, usr1, usr2 []float64
	for _, f := range films {
		if f.Usr1 == 0 || f.Usr2 == 0 || f.Mean == 0 {
			continue
		}
		means = append(means, f.Mean)
		usr1 = append(usr1, f.Usr1)
		usr2 = append(usr2, f.Usr2)
	}
	return []DensitySeries{
		{Name: SeriesAverage, Points: kde(means, DensityBandwidth)},
		{Name: RaterUsr1, Points: kde(usr1, DensityBandwidth)},
		{Name: RaterUsr2, Points: kde(usr2, DensityBandwidth)},
	}
}

// kde samples a Gaussian kernel density estimate on [0, 10].
func kde(samples []float64, bandwidth float64) []DensityPoint {
	points := make([]DensityPoint, DensitySteps+1)
	norm := 1 / (float64(len(samples)) * bandwidth * math.Sqrt(2*math.Pi))
	for i := range points {
		x := 10 * float64(i) / DensitySteps
		var sum float64
		for _, s := range samples {
			z := (x - s) / bandwidth
			sum += math.Exp(-0.5 * z * z)
		}
		points[i] = DensityPoint{Score: x}
		if len(samples) > 0 {
			points[i].Density = sum * norm
		}
	}
	return points
}
