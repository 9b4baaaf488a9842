// Package validator runs struct-tag validation on request DTOs and turns
// failures into client-facing field errors keyed by JSON name.
package validator

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

// FieldError describes one failing field. Submitted values are never
// echoed back since they may be passwords.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// %[1]s is the field name, %[2]s the tag parameter.
var messages = map[string]string{
	"required": "%[1]s is required",
	"email":    "%[1]s must be a valid email address",
	"min":      "%[1]s must be at least %[2]s characters long",
	"max":      "%[1]s must be at most %[2]s characters long",
	"url":      "%[1]s must be a valid URL",
	"oneof":    "%[1]s must be one of [%[2]s]",
	"uuid":     "%[1]s must be a valid UUID",
	"isodate":  "%[1]s must be an ISO 8601 date",
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("isodate", isoDate)
	return &Validator{validate: v}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// isoDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func isoDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Validate returns one FieldError per failing field, nil when i is valid.
func (v *Validator) Validate(i interface{}) []FieldError {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return []FieldError{{Tag: "invalid", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed validation for tag: %s", fe.Field(), fe.Tag())
}
