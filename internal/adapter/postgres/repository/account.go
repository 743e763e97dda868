package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/samber/oops"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const (
	uniqueViolation    = "23505"
	emailConstraint    = "accounts_email_key"
	usernameConstraint = "accounts_username_key"
)

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		db,
	}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error) {
	query := `INSERT INTO accounts (name, username, email, password_hash)
    VALUES ($1, $2, $3, $4)
    RETURNING id, created_at`

	account := &domain.Account{
		Name:         draft.Name,
		Username:     strings.ToLower(draft.Username),
		Email:        draft.Email,
		PasswordHash: draft.PasswordHash,
	}

	err := r.db.QueryRowContext(ctx, query, account.Name, account.Username, account.Email, account.PasswordHash).Scan(
		&account.ID,
		&account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			switch pqErr.Constraint {
			case emailConstraint:
				return nil, domain.ErrDuplicateEmail
			case usernameConstraint:
				return nil, domain.ErrDuplicateUsername
			}
		}
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("username", account.Username).
			Wrap(err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT id, name, username, email, password_hash, created_at
              FROM accounts WHERE email = $1`

	return r.findOne(ctx, "email", query, email)
}

func (r *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT id, name, username, email, password_hash, created_at
              FROM accounts WHERE username = $1`

	return r.findOne(ctx, "username", query, strings.ToLower(username))
}

func (r *PostgresAccountRepository) findOne(ctx context.Context, field, query, value string) (*domain.Account, error) {
	account := &domain.Account{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&account.ID,
		&account.Name,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_LOOKUP_FAILED").
			With("operation", "find account by "+field).
			Wrap(err)
	}

	return account, nil
}

func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email)
}

func (r *PostgresAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, strings.ToLower(username))
}

func (r *PostgresAccountRepository) exists(ctx context.Context, field, query, value string) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, value).Scan(&found); err != nil {
		return false, oops.Code("ACCOUNT_LOOKUP_FAILED").
			With("operation", "check account "+field).
			Wrap(err)
	}
	return found, nil
}

func (r *PostgresAccountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, oops.Code("ACCOUNT_COUNT_FAILED").Wrap(err)
	}
	return n, nil
}

func (r *PostgresAccountRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

var _ ports.AccountRepository = (*PostgresAccountRepository)(nil)
