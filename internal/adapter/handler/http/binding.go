package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

// bindingFields turns a gin binding failure into field errors. Anything that
// is not a validator failure is a body that could not be decoded.
func bindingFields(err error) []domain.FieldError {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []domain.FieldError{{Field: "body", Message: "Invalid JSON format"}}
	}

	fields := make([]domain.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		name := strings.ToLower(fe.Field())
		fields = append(fields, domain.FieldError{
			Field:   name,
			Message: strings.ToUpper(name[:1]) + name[1:] + " is required",
		})
	}
	return fields
}
