package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const DefaultDuration = 24 * time.Hour

type JWTTokenService struct {
	secretKey  []byte
	expiration time.Duration
	logger     ports.LoggerPort
	now        func() time.Time
}

type Option func(*JWTTokenService)

// WithClock replaces time.Now for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWTTokenService) {
		j.now = now
	}
}

func NewJWTTokenService(secretKey string, expiration time.Duration, logger ports.LoggerPort, opts ...Option) (*JWTTokenService, error) {
	if secretKey == "" {
		return nil, errors.New("token secret is empty")
	}
	if expiration <= 0 {
		expiration = DefaultDuration
	}

	j := &JWTTokenService{
		secretKey:  []byte(secretKey),
		expiration: expiration,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *JWTTokenService) Issue(subject string) (string, domain.TokenClaims, error) {
	return j.IssueWithTTL(subject, j.expiration)
}

func (j *JWTTokenService) IssueWithTTL(subject string, ttl time.Duration) (string, domain.TokenClaims, error) {
	if subject == "" {
		return "", domain.TokenClaims{}, errors.New("token subject is empty")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		j.logger.Error("Failed to generate uuid", map[string]interface{}{
			"error":  err.Error(),
			"method": "IssueWithTTL",
		})
		return "", domain.TokenClaims{}, err
	}

	issuedAt := j.now()
	expiresAt := ceilSecond(issuedAt.Add(ttl))

	claims := jwt.RegisteredClaims{
		ID:        id.String(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", domain.TokenClaims{}, fmt.Errorf("sign token: %w", err)
	}

	// NumericDate has second resolution; report what the token actually carries.
	return signed, domain.TokenClaims{
		ID:        id,
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (j *JWTTokenService) Verify(token string) (domain.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	})
	if err != nil {
		mapped := mapJWTError(err)
		j.logger.Debug("Token rejected", map[string]interface{}{
			"error":  err.Error(),
			"reason": mapped.Error(),
			"method": "Verify",
		})
		return domain.TokenClaims{}, mapped
	}
	if !parsed.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return domain.TokenClaims{}, domain.ErrTokenMalformed
	}

	out := domain.TokenClaims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if id, err := uuid.Parse(claims.ID); err == nil {
		out.ID = id
	}
	return out, nil
}

// ceilSecond rounds t up to a whole second. NumericDate drops fractions, and
// truncating exp would cut the token short of its TTL.
func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); r.Before(t) {
		return r.Add(time.Second)
	}
	return t
}

// mapJWTError collapses jwt library errors into the three token failures.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}

var _ ports.TokenService = (*JWTTokenService)(nil)
