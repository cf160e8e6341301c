// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package validation

import (
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
)

type scoreRequest struct {
	Title string  `json:"title" validate:"required,max=20"`
	Score float64 `json:"score" validate:"gte=0,lte=10,half_step"`
	Kind  string  `json:"kind" validate:"omitempty,oneof=Y N"`
}

func TestGetValidator_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*validator.Validate, 10)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetValidator()
		}(i)
	}
	wg.Wait()
	for i := range got {
		if got[i] != got[0] {
			t.Fatal("GetValidator returned different instances")
		}
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		req       scoreRequest
		wantField string
		wantTag   string
	}{
		{"valid", scoreRequest{Title: "Heat", Score: 8.5, Kind: "Y"}, "", ""},
		{"zero score allowed", scoreRequest{Title: "Heat", Score: 0}, "", ""},
		{"missing title", scoreRequest{Score: 5}, "title", "required"},
		{"title too long", scoreRequest{Title: strings.Repeat("x", 21), Score: 5}, "title", "max"},
		{"above range", scoreRequest{Title: "Heat", Score: 10.5}, "score", "lte"},
		{"negative", scoreRequest{Title: "Heat", Score: -1}, "score", "gte"},
		{"quarter step", scoreRequest{Title: "Heat", Score: 7.25}, "score", "half_step"},
		{"bad oneof", scoreRequest{Title: "Heat", Score: 5, Kind: "maybe"}, "kind", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			first := err.Errors()[0]
			if first.Field() != tt.wantField || first.Tag() != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", first.Field(), first.Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	err := ValidateStruct(&scoreRequest{Score: 7.25})
	if err == nil {
		t.Fatal("expected errors")
	}
	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "title is required") ||
		!strings.Contains(apiErr.Message, "score must be a multiple of 0.5") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error details should list fields")
	}

	single := ValidateStruct(&scoreRequest{Title: "Heat", Score: 11}).ToAPIError()
	if single.Details["field"] != "score" {
		t.Errorf("single error details = %v", single.Details)
	}
}

func TestRegisterValidation(t *testing.T) {
	if err := RegisterValidation("even_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String())%2 == 0
	}); err != nil {
		t.Fatal(err)
	}

	type req struct {
		Code string `json:"code" validate:"even_len"`
	}
	if err := ValidateStruct(&req{Code: "ab"}); err != nil {
		t.Errorf("even length rejected: %v", err)
	}
	err := ValidateStruct(&req{Code: "abc"})
	if err == nil || err.Errors()[0].Tag() != "even_len" {
		t.Errorf("odd length accepted: %v", err)
	}
	if !strings.Contains(err.Error(), "code failed even_len validation") {
		t.Errorf("fallback message = %q", err.Error())
	}

	if err := RegisterValidation("", nil); err == nil {
		t.Error("empty tag should fail")
	}
}
