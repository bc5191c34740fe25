// LIM Core
// Copyright (c) 2026 The LevelImposter Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LIM Core.
//
// LIM Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LIM Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LIM Core.  If not, see <http://www.gnu.org/licenses/>.

package publish

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength is the longest map name, in runes, the catalog accepts.
const MaxNameLength = 64

// ValidationError lists every metadata field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

// FieldError represents a single field validation error.
type FieldError struct {
	Value   any
	Field   string
	Tag     string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Fields: make([]FieldError, len(errs))}
	for i, fe := range errs {
		ve.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: formatValidationError(fe),
		}
	}
	return ve
}

func formatValidationError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid":
		return field + " must be a UUID"
	case "mapname":
		return fmt.Sprintf("%s must be 1 to %d characters", field, MaxNameLength)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

type metadataValidator struct {
	validate *validator.Validate
}

func newMetadataValidator() *metadataValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mapname", validateMapName)
	return &metadataValidator{validate: v}
}

var defaultValidator = newMetadataValidator()

func (v *metadataValidator) Validate(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return newValidationError(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// validateMapName checks a name is not blank and fits the catalog.
func validateMapName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= MaxNameLength
}
