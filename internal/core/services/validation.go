package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// NewValidator returns a validator with the account rules registered and
// field names reported by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration cannot fail for these tags; an error here is a programming error.
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "password_strength", func(fl validator.FieldLevel) bool {
		var letter, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsLetter(r) && r < unicode.MaxASCII:
				letter = true
			case unicode.IsDigit(r) && r < unicode.MaxASCII:
				digit = true
			}
		}
		return letter && digit
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// normalizeRegistration trims the free-text fields.
// Passwords are taken verbatim.
func normalizeRegistration(in domain.RegisterInput) domain.RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

func validateRegistration(v *validator.Validate, in domain.RegisterInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return domain.NewValidationError(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	label := map[string]string{
		"name":             "Name",
		"username":         "Username",
		"email":            "Email",
		"password":         "Password",
		"confirm_password": "Confirm password",
	}[fe.Field()]
	if label == "" {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return label + " must be at least " + fe.Param() + " characters long"
	case "max":
		return label + " must be at most " + fe.Param() + " characters long"
	case "email":
		return "Email must be a valid email address"
	case "username":
		return "Username can only contain letters, numbers, and underscores"
	case "password_strength":
		return "Password must contain at least one letter and one number"
	case "eqfield":
		return "Passwords do not match"
	default:
		return label + " is invalid"
	}
}
