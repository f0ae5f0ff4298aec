// Package validate checks request payloads against their declared
// required-field sets before any store access happens.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trendtactics/academy-api/internal/apperr"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Struct validates payload and returns a BadRequest carrying message when any
// rule fails. An empty message lists the offending fields instead.
func Struct(payload any, message string) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Service("validation failed", err)
	}
	if message != "" {
		return apperr.BadRequest(message)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return apperr.BadRequest("Missing or invalid fields: " + strings.Join(fields, ", "))
}

// Field validates a single value against tag, returning a BadRequest with
// message on failure.
func Field(value any, tag, message string) error {
	if err := v.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperr.Service("validation failed", err)
		}
		return apperr.BadRequest(message)
	}
	return nil
}
