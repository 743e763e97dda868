// Package memory is an in-process account store. It enforces the same
// uniqueness rules as the Postgres schema and is used when STORE_DRIVER=memory
// and in tests.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

type AccountRepository struct {
	mu         sync.RWMutex
	byEmail    map[string]*domain.Account
	byUsername map[string]*domain.Account
	now        func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byEmail:    make(map[string]*domain.Account),
		byUsername: make(map[string]*domain.Account),
		now:        time.Now,
	}
}

func (r *AccountRepository) Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	username := strings.ToLower(draft.Username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[draft.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	if _, ok := r.byUsername[username]; ok {
		return nil, domain.ErrDuplicateUsername
	}

	account := &domain.Account{
		ID:           uuid.New(),
		Name:         draft.Name,
		Username:     username,
		Email:        draft.Email,
		PasswordHash: draft.PasswordHash,
		CreatedAt:    r.now().UTC().Truncate(time.Millisecond),
	}
	r.byEmail[account.Email] = account
	r.byUsername[account.Username] = account

	out := *account
	return &out, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.find(ctx, r.byEmail, email)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.find(ctx, r.byUsername, strings.ToLower(username))
}

func (r *AccountRepository) find(ctx context.Context, index map[string]*domain.Account, key string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := index[key]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := *account
	return &out, nil
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(r.FindByEmail(ctx, email))
}

func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.FindByUsername(ctx, username))
}

func exists(_ *domain.Account, err error) (bool, error) {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail), nil
}

func (r *AccountRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Remove deletes an account by email. The service never deletes accounts;
// this exists for tests that simulate removal behind a live token.
func (r *AccountRepository) Remove(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account, ok := r.byEmail[email]; ok {
		delete(r.byEmail, email)
		delete(r.byUsername, account.Username)
	}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
