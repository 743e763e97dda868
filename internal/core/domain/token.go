package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims is what a verified bearer token says about its holder.
type TokenClaims struct {
	ID        uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
