package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

type AccountService struct {
	repo      ports.AccountRepository
	codec     ports.CredentialCodec
	tokens    ports.TokenService
	logger    ports.LoggerPort
	metrics   ports.MetricsPort
	validator *validator.Validate
}

func NewAccountService(
	repo ports.AccountRepository,
	codec ports.CredentialCodec,
	tokens ports.TokenService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AccountService {
	return &AccountService{
		repo:      repo,
		codec:     codec,
		tokens:    tokens,
		logger:    logger,
		metrics:   metrics,
		validator: NewValidator(),
	}
}

// Register validates the input, creates the account and signs the caller in.
// The existence checks only fail fast; the store decides uniqueness.
func (s *AccountService) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	in = normalizeRegistration(in)

	if err := validateRegistration(s.validator, in); err != nil {
		s.metrics.RecordAuthOutcome("register", "invalid")
		return nil, err
	}

	username := strings.ToLower(in.Username)

	taken, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, s.fail(ctx, internalError("REGISTER_LOOKUP_FAILED", "check email", err))
	}
	if taken {
		s.metrics.RecordAuthOutcome("register", "duplicate")
		return nil, domain.ErrDuplicateEmail
	}

	taken, err = s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, s.fail(ctx, internalError("REGISTER_LOOKUP_FAILED", "check username", err))
	}
	if taken {
		s.metrics.RecordAuthOutcome("register", "duplicate")
		return nil, domain.ErrDuplicateUsername
	}

	hash, err := s.codec.Hash(ctx, in.Password)
	if err != nil {
		return nil, s.fail(ctx, internalError("REGISTER_HASH_FAILED", "hash password", err))
	}

	account, err := s.repo.Create(ctx, &domain.AccountDraft{
		Name:         in.Name,
		Username:     username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
			s.logger.InfoContext(ctx, "Registration lost a uniqueness race", map[string]interface{}{
				"email":    in.Email,
				"username": username,
				"error":    err.Error(),
			})
			s.metrics.RecordAuthOutcome("register", "duplicate")
			return nil, err
		}
		return nil, s.fail(ctx, internalError("REGISTER_CREATE_FAILED", "create account", err))
	}

	token, claims, err := s.tokens.Issue(account.Email)
	if err != nil {
		return nil, s.fail(ctx, internalError("REGISTER_TOKEN_FAILED", "issue token", err))
	}

	s.logger.InfoContext(ctx, "Account registered", map[string]interface{}{
		"account_id": account.ID.String(),
		"username":   account.Username,
	})
	s.metrics.RecordAuthOutcome("register", "success")

	return &domain.AuthResult{
		Account:   account.View(),
		Token:     token,
		TokenType: domain.TokenTypeBearer,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *AccountService) fail(ctx context.Context, err error) error {
	s.logger.ErrorContext(ctx, "Registration failed", map[string]interface{}{"error": err})
	s.metrics.RecordAuthOutcome("register", "error")
	return err
}
