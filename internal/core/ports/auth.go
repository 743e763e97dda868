package ports

import (
	"context"
	"time"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

type TokenService interface {
	Issue(subject string) (string, domain.TokenClaims, error)
	IssueWithTTL(subject string, ttl time.Duration) (string, domain.TokenClaims, error)
	Verify(token string) (domain.TokenClaims, error)
}

type CredentialCodec interface {
	Hash(ctx context.Context, password string) (string, error)
	// Verify reports whether password matches hash. The error is set only
	// when ctx ends before a hashing worker is free.
	Verify(ctx context.Context, password, hash string) (bool, error)
	// DummyHash is verified against when an identifier matches no account.
	DummyHash() string
}

type AuthService interface {
	SignIn(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*domain.AccountView, error)
}
