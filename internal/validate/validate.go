// Package validate wraps a shared go-playground validator instance and
// formats its failures into API-friendly messages.
package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"campus-lostfound/pkg/apierror"
)

var instance = validator.New()

// Struct validates a request DTO against its `validate` tags and returns a
// BAD_REQUEST APIError listing the offending fields.
func Struct(s any) error {
	err := instance.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierror.BadRequest("invalid request body", err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}

	return apierror.BadRequest("validation failed", strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "uuid4":
		return field + " must be a valid UUID"
	case "url":
		return field + " must be a valid URL"
	default:
		return field + " is invalid"
	}
}
