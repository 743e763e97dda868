package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const DefaultCacheTTL = 10 * time.Minute

type AuthService struct {
	repo     ports.AccountRepository
	codec    ports.CredentialCodec
	tokens   ports.TokenService
	logger   ports.LoggerPort
	cache    ports.CachePort
	metrics  ports.MetricsPort
	cacheTTL time.Duration
}

func NewAuthService(
	repo ports.AccountRepository,
	codec ports.CredentialCodec,
	tokens ports.TokenService,
	logger ports.LoggerPort,
	cache ports.CachePort,
	metrics ports.MetricsPort,
	cacheTTL time.Duration,
) *AuthService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &AuthService{
		repo:     repo,
		codec:    codec,
		tokens:   tokens,
		logger:   logger,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
	}
}

// SignIn resolves identifier as an email when it contains "@", falling back
// to a username lookup, and checks password against the stored hash.
// An unknown identifier and a wrong password return the same error.
func (s *AuthService) SignIn(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)

	account, err := s.resolve(ctx, identifier)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		s.logger.ErrorContext(ctx, "Failed to resolve sign in identifier", map[string]interface{}{
			"error": err,
		})
		s.metrics.RecordAuthOutcome("signin", "error")
		return nil, err
	}

	hash := s.codec.DummyHash()
	if account != nil {
		hash = account.PasswordHash
	}
	// A miss verifies against the dummy hash so it costs as much as a wrong password.
	ok, err := s.codec.Verify(ctx, password, hash)
	if err != nil {
		err = internalError("SIGNIN_VERIFY_FAILED", "verify password", err)
		s.logger.ErrorContext(ctx, "Password verification did not run", map[string]interface{}{
			"error": err,
		})
		s.metrics.RecordAuthOutcome("signin", "error")
		return nil, err
	}

	if account == nil {
		s.logger.InfoContext(ctx, "Sign in with unknown identifier", map[string]interface{}{
			"identifier": identifier,
		})
		s.metrics.RecordAuthOutcome("signin", "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if !ok {
		s.logger.InfoContext(ctx, "Invalid password attempt", map[string]interface{}{
			"account_id": account.ID.String(),
		})
		s.metrics.RecordAuthOutcome("signin", "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(account.Email)
	if err != nil {
		err = internalError("SIGNIN_TOKEN_FAILED", "issue token", err)
		s.logger.ErrorContext(ctx, "Failed to create token", map[string]interface{}{
			"error":      err,
			"account_id": account.ID.String(),
		})
		s.metrics.RecordAuthOutcome("signin", "error")
		return nil, err
	}

	s.metrics.RecordAuthOutcome("signin", "success")
	return &domain.AuthResult{
		Account:   account.View(),
		Token:     token,
		TokenType: domain.TokenTypeBearer,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *AuthService) resolve(ctx context.Context, identifier string) (*domain.Account, error) {
	if identifier == "" {
		return nil, domain.ErrAccountNotFound
	}

	if strings.Contains(identifier, "@") {
		account, err := s.lookup(ctx, "email", identifier, s.repo.FindByEmail)
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return account, err
		}
	}

	return s.lookup(ctx, "username", strings.ToLower(identifier), s.repo.FindByUsername)
}

// cachedAccount is the cache encoding of an account. domain.Account hides
// the hash from JSON, so it is spelled out here.
type cachedAccount struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func accountCacheKey(field, value string) string {
	return fmt.Sprintf("account:%s:%s", field, value)
}

// lookup reads through the cache. Only hits are cached; accounts are never
// updated, so a cached entry can not go stale.
func (s *AuthService) lookup(
	ctx context.Context,
	field, value string,
	find func(context.Context, string) (*domain.Account, error),
) (*domain.Account, error) {
	key := accountCacheKey(field, value)

	data, err := s.cache.Get(key)
	switch {
	case err == nil:
		var cached cachedAccount
		if err := json.Unmarshal(data, &cached); err == nil {
			s.logger.Debug("Account found in cache", map[string]interface{}{"key": key})
			return &domain.Account{
				ID:           cached.ID,
				Name:         cached.Name,
				Username:     cached.Username,
				Email:        cached.Email,
				PasswordHash: cached.PasswordHash,
				CreatedAt:    cached.CreatedAt,
			}, nil
		}
		s.logger.Warn("Dropping unreadable cache entry", map[string]interface{}{"key": key})
		_ = s.cache.Delete(key)
	case !errors.Is(err, ports.ErrCacheMiss):
		s.logger.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	account, err := find(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, internalError("SIGNIN_LOOKUP_FAILED", "find account by "+field, err)
	}

	data, err = json.Marshal(cachedAccount{
		ID:           account.ID,
		Name:         account.Name,
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    account.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("Failed to marshal account for cache", map[string]interface{}{"key": key, "error": err.Error()})
		return account, nil
	}
	if err := s.cache.Set(key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache account", map[string]interface{}{"key": key, "error": err.Error()})
	}

	return account, nil
}

// Logout only checks the token. Tokens are stateless and stay valid until
// they expire.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.RecordAuthOutcome("logout", "unauthenticated")
		return err
	}

	s.logger.InfoContext(ctx, "Logout", map[string]interface{}{
		"subject":  claims.Subject,
		"token_id": claims.ID.String(),
	})
	s.metrics.RecordAuthOutcome("logout", "success")
	return nil
}

// Me returns the account a token was issued for. Token errors take
// precedence over a missing account.
func (s *AuthService) Me(ctx context.Context, token string) (*domain.AccountView, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.RecordAuthOutcome("me", "unauthenticated")
		return nil, err
	}

	account, err := s.repo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.WarnContext(ctx, "Token subject has no account", map[string]interface{}{
				"subject": claims.Subject,
			})
			s.metrics.RecordAuthOutcome("me", "not_found")
			return nil, err
		}
		err = internalError("ME_LOOKUP_FAILED", "find account by email", err)
		s.logger.ErrorContext(ctx, "Failed to load account", map[string]interface{}{"error": err})
		s.metrics.RecordAuthOutcome("me", "error")
		return nil, err
	}

	view := account.View()
	return &view, nil
}
