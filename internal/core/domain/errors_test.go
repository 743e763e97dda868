package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", NewValidationError(FieldError{Field: "name", Message: "required"}), KindValidation},
		{"wrapped validation", fmt.Errorf("register: %w", NewValidationError()), KindValidation},
		{"duplicate email", ErrDuplicateEmail, KindDuplicate},
		{"duplicate username wrapped", fmt.Errorf("create: %w", ErrDuplicateUsername), KindDuplicate},
		{"invalid credentials", ErrInvalidCredentials, KindUnauthenticated},
		{"expired token", ErrTokenExpired, KindUnauthenticated},
		{"malformed token", fmt.Errorf("verify: %w", ErrTokenMalformed), KindUnauthenticated},
		{"not found", ErrAccountNotFound, KindNotFound},
		{"internal", ErrInternal, KindInternal},
		{"unknown", errors.New("connection refused"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestTokenErrorsAreDistinct(t *testing.T) {
	assert.ErrorIs(t, ErrTokenExpired, ErrUnauthenticated)
	assert.ErrorIs(t, ErrTokenSignatureInvalid, ErrUnauthenticated)
	assert.NotErrorIs(t, ErrTokenExpired, ErrTokenMalformed)
	assert.NotErrorIs(t, ErrTokenSignatureInvalid, ErrTokenExpired)
	assert.NotErrorIs(t, ErrInvalidCredentials, ErrTokenExpired)
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError(
		FieldError{Field: "username", Message: "too short"},
		FieldError{Field: "password", Message: "too weak"},
	)
	assert.Equal(t, "validation failed: username: too short; password: too weak", err.Error())
}

func TestAccountViewOmitsHash(t *testing.T) {
	created := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	a := &Account{Name: "Ada L", Username: "adal", Email: "ada@example.com", PasswordHash: "$2a$secret", CreatedAt: created}

	v := a.View()
	assert.Equal(t, "adal", v.Username)
	assert.Equal(t, created, time.Time(v.CreatedAt))
	assert.NotContains(t, fmt.Sprintf("%+v", v), "$2a$secret")
}
