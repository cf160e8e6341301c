// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use once custom validators are
// registered. Errors are translated into the VALIDATION_ERROR shape the API
// returns, with field names taken from json tags.
//
// Built in:
//   - half_step: a number that is a whole multiple of 0.5 (rating scores)
//
// Domain packages add their own tags through RegisterValidation:
//
//	type Submission struct {
//	    Name  string  `json:"name" validate:"required,max=200"`
//	    Genre string  `json:"genre" validate:"required,film_genre"`
//	    Usr1  float64 `json:"usr1" validate:"gte=0,lte=10,half_step"`
//	}
//
//	if err := validation.ValidateStruct(&sub); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message)
//	    return
//	}
package validation
