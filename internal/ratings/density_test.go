// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package ratings

import (
	"math"
	"testing"
)

// integrate applies the trapezoid rule over the sampled grid.
func integrate(points []DensityPoint) float64 {
	var area float64
	for i := 1; i < len(points); i++ {
		dx := points[i].Score - points[i-1].Score
		area += dx * (points[i].Density + points[i-1].Density) / 2
	}
	return area
}

func TestDensity(t *testing.T) {
	films := []Film{
		{Name: "A", Usr1: 6, Usr2: 7, Mean: 6.5},
		{Name: "B", Usr1: 4, Usr2: 5.5, Mean: 4.75},
		{Name: "C", Usr1: 7.5, Usr2: 7, Mean: 7.25},
		{Name: "D", Usr1: 9, Mean: 9}, // usr2 unrated
	}
	series := Density(films)
	if len(series) != 3 {
		t.Fatalf("len(series) = %d, want 3", len(series))
	}
	wantNames := []string{SeriesAverage, RaterUsr1, RaterUsr2}
	for i, s := range series {
		if s.Name != wantNames[i] {
			t.Errorf("series[%d].Name = %q, want %q", i, s.Name, wantNames[i])
		}
		if len(s.Points) != DensitySteps+1 {
			t.Errorf("%s: %d points, want %d", s.Name, len(s.Points), DensitySteps+1)
		}
		if s.Points[0].Score != 0 || s.Points[len(s.Points)-1].Score != 10 {
			t.Errorf("%s: grid spans %v..%v, want 0..10", s.Name, s.Points[0].Score, s.Points[len(s.Points)-1].Score)
		}
		if area := integrate(s.Points); math.Abs(area-1) > 1e-3 {
			t.Errorf("%s integrates to %v, want 1", s.Name, area)
		}
	}

	// D was excluded, so nothing peaks at 9
	usr1 := series[1].Points
	if usr1[90].Density > 1e-4 {
		t.Errorf("usr1 density at 9 = %v, want ~0", usr1[90].Density)
	}
	if usr1[60].Density < usr1[50].Density {
		t.Errorf("usr1 density should peak near a sample")
	}
}

func TestDensity_NoQualifyingFilms(t *testing.T) {
	series := Density([]Film{{Name: "A", Usr1: 5, Mean: 5}})
	for _, s := range series {
		for _, p := range s.Points {
			if p.Density != 0 || math.IsNaN(p.Density) {
				t.Fatalf("%s density = %v at %v, want 0", s.Name, p.Density, p.Score)
			}
		}
	}
}
