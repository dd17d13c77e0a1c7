// FridgeCook - Ingredient-Based Recipe Search
// Copyright 2026 FridgeCook Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fridgecook/fridgecook

// Package validation provides struct validation using go-playground/validator
// v10 through a thread-safe singleton instance.
//
// Example:
//
//	type NamesRequest struct {
//	    IDs []int64 `validate:"required,min=1,max=200,dive,min=1"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fridgecook/fridgecook/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// instance returns the singleton validator, creating it on first use.
// The singleton caches struct metadata, making repeated validation cheap.
func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError describes a single failed field.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Error returns a human-readable message for the field failure.
func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("field %s failed validation rule %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("field %s failed validation rule %s", e.Field, e.Tag)
}

// RequestValidationError aggregates all field failures for one struct.
type RequestValidationError struct {
	fields []FieldError
}

// Fields returns the individual field failures.
func (ve *RequestValidationError) Fields() []FieldError {
	return ve.fields
}

// Error implements error.
func (ve *RequestValidationError) Error() string {
	msgs := make([]string, len(ve.fields))
	for i, f := range ve.fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

// ToAPIError converts the failure set into the standard API error payload.
func (ve *RequestValidationError) ToAPIError() *models.APIError {
	details := make(map[string]interface{}, len(ve.fields))
	for _, f := range ve.fields {
		details[f.Field] = f.Error()
	}
	return &models.APIError{
		Code:    models.CodeValidationError,
		Message: "request validation failed",
		Details: details,
	}
}

// ValidateStruct validates v against its `validate` tags. Returns nil on
// success, or a *RequestValidationError describing every failed field.
func ValidateStruct(v interface{}) *RequestValidationError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Non-field error (nil pointer, unsupported type). Surface it as a
		// single synthetic field failure rather than panicking.
		return &RequestValidationError{fields: []FieldError{{Field: "request", Tag: "invalid"}}}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return &RequestValidationError{fields: fields}
}
