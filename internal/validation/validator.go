// Janitarr - Media Library Janitor
// Copyright 2026 M. Pellat
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mpellat/janitarr

// Package validation provides struct validation for API request bodies
// using go-playground/validator v10, with custom validators for
// integration service names and whitelist flavors.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mpellat/janitarr/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// service: one of the known integration names.
		_ = validate.RegisterValidation("service", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			for _, s := range models.KnownServices {
				if s == name {
					return true
				}
			}
			return false
		})

		// flavor: one of the known whitelist flavors.
		_ = validate.RegisterValidation("flavor", func(fl validator.FieldLevel) bool {
			name := models.WhitelistFlavor(fl.Field().String())
			for _, f := range models.KnownWhitelistFlavors {
				if f == name {
					return true
				}
			}
			return false
		})
	})
	return validate
}

// FieldError is one field's validation failure, phrased for API
// consumers.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestError aggregates the failures of one request body.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Message
	}
	return strings.Join(parts, "; ")
}

// Var validates a single value against a tag, for route parameters
// that never pass through struct decoding.
func Var(value interface{}, tag string) error {
	return getValidator().Var(value, tag)
}

// ValidateStruct validates a request struct. Returns a *RequestError
// describing every failing field, or nil.
func ValidateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	reqErr := &RequestError{}
	for _, fe := range verrs {
		reqErr.Fields = append(reqErr.Fields, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return reqErr
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "service":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(models.KnownServices, ", "))
	case "flavor":
		flavors := make([]string, len(models.KnownWhitelistFlavors))
		for i, f := range models.KnownWhitelistFlavors {
			flavors[i] = string(f)
		}
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.Join(flavors, ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
