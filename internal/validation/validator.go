// ReelSense - Film Ratings Analytics and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsense

package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrorCode is the API error code for every validation failure.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError describes one field that failed one rule.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field is the json name of the failing field.
func (e *ValidationError) Field() string { return e.field }

// Tag is the rule that failed, e.g. "lte" or "film_genre".
func (e *ValidationError) Tag() string { return e.tag }

// Param is the rule argument, e.g. "10" for lte=10.
func (e *ValidationError) Param() string { return e.param }

func (e *ValidationError) Value() any { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failing field of one struct.
type RequestValidationError struct {
	errors []ValidationError
}

func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.errors))
	for i := range ve.errors {
		msgs[i] = ve.errors[i].message
	}
	return strings.Join(msgs, "; ")
}

// APIError has the fields of models.APIError; models imports packages that
// import this one, so the conversion happens at the handler.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError shapes the failure for a 400 response. A single failure reports
// its field, tag and value; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: ErrorCode, Message: "Validation failed"}
	case 1:
		e := ve.errors[0]
		return &APIError{
			Code:    ErrorCode,
			Message: e.message,
			Details: map[string]any{"field": e.field, "tag": e.tag, "value": e.value},
		}
	}

	fields := make([]map[string]any, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]any{"field": e.field, "tag": e.tag, "message": e.message}
	}
	return &APIError{
		Code:    ErrorCode,
		Message: ve.Error(),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the shared validator. Field names in errors come from
// json tags so clients see the names they sent.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		//nolint:errcheck // constant, non-empty tag
		validate.RegisterValidation("half_step", halfStep)
	})
	return validate
}

// RegisterValidation adds a rule to the shared validator. Call it before the
// first ValidateStruct that uses the tag.
func RegisterValidation(tag string, fn validator.Func) error {
	if err := GetValidator().RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validator %q: %w", tag, err)
	}
	return nil
}

// halfStep accepts finite floats that are whole multiples of 0.5, and any int.
func halfStep(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	case reflect.Float32, reflect.Float64:
		v := f.Float()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		return math.Mod(v*2, 1) == 0
	default:
		return false
	}
}

// ValidateStruct runs the struct's validate tags. It returns nil on success.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{{
			field: "unknown", tag: "unknown", message: err.Error(),
		}}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: message(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// message renders a FieldError for people. Unknown tags get a generic line.
func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "half_step":
		return field + " must be a multiple of 0.5"
	case "film_genre":
		return field + " must be one of the listed genres"
	case "film_subgenre":
		return field + " must be one of the listed genres or N/A"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
