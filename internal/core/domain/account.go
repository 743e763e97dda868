package domain

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// swagger:model domain.Account
type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountDraft is an account that has not been persisted yet.
type AccountDraft struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
}

// AccountView is the outward projection of an account. It never carries the password hash.
type AccountView struct {
	Name      string          `json:"name" example:"Ada L"`
	Username  string          `json:"username" example:"adal"`
	Email     string          `json:"email" example:"ada@example.com"`
	CreatedAt strfmt.DateTime `json:"created_at" swaggertype:"string" example:"2026-01-02T15:04:05.000Z"`
}

func (a *Account) View() AccountView {
	return AccountView{
		Name:      a.Name,
		Username:  a.Username,
		Email:     a.Email,
		CreatedAt: strfmt.DateTime(a.CreatedAt),
	}
}

// AuthResult is returned by both registration and sign in.
type AuthResult struct {
	Account   AccountView
	Token     string
	TokenType string
	ExpiresAt time.Time
}

const TokenTypeBearer = "bearer"

// RegisterInput is the registration request as submitted by a caller.
type RegisterInput struct {
	Name            string `json:"name" validate:"required,min=2,max=50" example:"Ada L"`
	Username        string `json:"username" validate:"required,min=3,max=20,username" example:"AdaL"`
	Email           string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password        string `json:"password" validate:"required,min=8,max=128,password_strength" example:"Secret12"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"Secret12"`
}
