package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sm8ta/auth_microservice/internal/adapter/hasher"
	"github.com/sm8ta/auth_microservice/internal/adapter/logger"
	"github.com/sm8ta/auth_microservice/internal/adapter/memory"
	"github.com/sm8ta/auth_microservice/internal/adapter/token"
	"github.com/sm8ta/auth_microservice/internal/core/domain"
	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

var errStoreDown = errors.New("connection refused")

// --- fakes ---

type fakeMetrics struct {
	mu        sync.Mutex
	outcomes map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{outcomes: make(map[string]int)}
}

func (m *fakeMetrics) IncrementCounter(string, map[string]string)              {}
func (m *fakeMetrics) RecordDuration(string, time.Duration, map[string]string) {}
func (m *fakeMetrics) RecordMetrics(*gin.Context, time.Time)                   {}

func (m *fakeMetrics) RecordAuthOutcome(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[operation+"/"+outcome]++
}

func (m *fakeMetrics) count(operation, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[operation+"/"+outcome]
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Incr(string, time.Duration) (int64, error) { return 0, nil }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// faultyRepo wraps a working store and fails the configured operations.
type faultyRepo struct {
	ports.AccountRepository
	existsErr error
	createErr error
	findErr   error
	creates   atomic.Int32
}

func (r *faultyRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.AccountRepository.ExistsByEmail(ctx, email)
}

func (r *faultyRepo) Create(ctx context.Context, draft *domain.AccountDraft) (*domain.Account, error) {
	r.creates.Add(1)
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.AccountRepository.Create(ctx, draft)
}

func (r *faultyRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.AccountRepository.FindByEmail(ctx, email)
}

// countingCodec records how many verifications a call performed.
type countingCodec struct {
	ports.CredentialCodec
	mu        sync.Mutex
	verifies  []string
	hashErr   error
	verifyErr error
}

func (c *countingCodec) Hash(ctx context.Context, password string) (string, error) {
	if c.hashErr != nil {
		return "", c.hashErr
	}
	return c.CredentialCodec.Hash(ctx, password)
}

func (c *countingCodec) Verify(ctx context.Context, password, hash string) (bool, error) {
	c.mu.Lock()
	c.verifies = append(c.verifies, hash)
	c.mu.Unlock()
	if c.verifyErr != nil {
		return false, c.verifyErr
	}
	return c.CredentialCodec.Verify(ctx, password, hash)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// --- fixture ---

type fixture struct {
	store    *memory.AccountRepository
	repo     *faultyRepo
	codec    *countingCodec
	tokens   *token.JWTTokenService
	cache    *fakeCache
	metrics  *fakeMetrics
	clock    *fakeClock
	accounts *AccountService
	auth     *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.NewLoggerAdapterTo("test", io.Discard)

	codec, err := hasher.NewCodec(hasher.AlgorithmBcrypt, 4, 4)
	require.NoError(t, err)

	clock := &fakeClock{t: time.Now()}
	tokens, err := token.NewJWTTokenService(testSecret, time.Hour, log, token.WithClock(clock.now))
	require.NoError(t, err)

	f := &fixture{
		store:   memory.NewAccountRepository(),
		codec:   &countingCodec{CredentialCodec: codec},
		tokens:  tokens,
		cache:   newFakeCache(),
		metrics: newFakeMetrics(),
		clock:   clock,
	}
	f.repo = &faultyRepo{AccountRepository: f.store}
	f.accounts = NewAccountService(f.repo, f.codec, f.tokens, log, f.metrics)
	f.auth = NewAuthService(f.repo, f.codec, f.tokens, log, f.cache, f.metrics, time.Minute)
	return f
}

func adaInput() domain.RegisterInput {
	return domain.RegisterInput{
		Name:            "Ada L",
		Username:        "AdaL",
		Email:           "ada@example.com",
		Password:        "Secret12",
		ConfirmPassword: "Secret12",
	}
}

func (f *fixture) registerAda(t *testing.T) *domain.AuthResult {
	t.Helper()
	res, err := f.accounts.Register(context.Background(), adaInput())
	require.NoError(t, err)
	return res
}
