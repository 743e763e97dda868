package ports

import (
	"context"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

// AccountRepository persists accounts. Uniqueness of email and username is
// enforced by the store itself; Create reports violations as
// domain.ErrDuplicateEmail or domain.ErrDuplicateUsername.
type AccountRepository interface {
	Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type AccountService interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error)
}
