// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package ratings implements the film ratings sheet: two raters score each film
// from 0 to 10 in half steps, with 0 meaning "not rated".
//
// A Sheet is an ordered list of Film rows. Service.Submit applies the
// find-or-append rule: a film whose name already exists only has its scores
// and mean replaced; any other name is appended as a new row. BadgerSheet is
// the durable Sheet used by the CLI and the HTTP server.
//
// Summarize, Density and RenderDashboard are pure functions of the rows and
// back the ratings summary endpoint and the static chart page.
package ratings
