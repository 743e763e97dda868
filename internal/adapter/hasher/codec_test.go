package hasher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCodec(t *testing.T, algorithm string) *Codec {
	t.Helper()
	cost := bcrypt.MinCost
	if algorithm == AlgorithmArgon2id {
		cost = 1
	}
	c, err := NewCodec(algorithm, cost, 2)
	require.NoError(t, err)
	return c
}

func mustVerify(t *testing.T, c *Codec, password, hash string) bool {
	t.Helper()
	ok, err := c.Verify(context.Background(), password, hash)
	require.NoError(t, err)
	return ok
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			c := newTestCodec(t, algorithm)
			ctx := context.Background()

			passwords := []string{"Secret12", "another1pass", strings.Repeat("a1", 64)}
			for _, p := range passwords {
				hash, err := c.Hash(ctx, p)
				require.NoError(t, err)
				assert.NotContains(t, hash, p)
				assert.True(t, mustVerify(t, c, p, hash), "password %q should verify", p)
				assert.False(t, mustVerify(t, c, p+"x", hash))
			}
		})
	}
}

func TestCodec_SaltedOutput(t *testing.T) {
	c := newTestCodec(t, AlgorithmBcrypt)

	h1, err := c.Hash(context.Background(), "Secret12")
	require.NoError(t, err)
	h2, err := c.Hash(context.Background(), "Secret12")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.Len(t, h2, len(h1))
}

func TestCodec_LongPasswordsAreNotTruncated(t *testing.T) {
	c := newTestCodec(t, AlgorithmBcrypt)

	base := strings.Repeat("p4ssword", 10) // 80 bytes
	hash, err := c.Hash(context.Background(), base+"A")
	require.NoError(t, err)

	assert.True(t, mustVerify(t, c, base+"A", hash))
	assert.False(t, mustVerify(t, c, base+"B", hash))
}

func TestCodec_VerifyMalformedHash(t *testing.T) {
	c := newTestCodec(t, AlgorithmBcrypt)

	malformed := []string{
		"",
		"plaintext",
		"$2a$",
		"$2a$04$tooshort",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$AAAA",
		"$argon2id$v=19$m=65536,t=0,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAA",
		"$argon2id$v=19$m=65536,t=1,p=0$AAAAAAAAAAAAAAAAAAAAAA$AAAA",
		"$argon2id$v=18$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAA",
		"$argon2id$garbage",
		"$scrypt$whatever",
	}
	for _, h := range malformed {
		assert.NotPanics(t, func() {
			assert.False(t, mustVerify(t, c, "Secret12", h), "hash %q", h)
		})
	}
}

func TestCodec_VerifiesEitherAlgorithm(t *testing.T) {
	bc := newTestCodec(t, AlgorithmBcrypt)
	ar := newTestCodec(t, AlgorithmArgon2id)

	argonHash, err := ar.Hash(context.Background(), "Secret12")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonHash, "$argon2id$v=19$m=65536,t=1,p=4$"))

	assert.True(t, mustVerify(t, bc, "Secret12", argonHash))
}

func TestCodec_DummyHashNeverMatches(t *testing.T) {
	c := newTestCodec(t, AlgorithmBcrypt)

	assert.NotEmpty(t, c.DummyHash())
	assert.False(t, mustVerify(t, c, "", c.DummyHash()))
	assert.False(t, mustVerify(t, c, "Secret12", c.DummyHash()))
}

func TestCodec_HashHonoursContext(t *testing.T) {
	c, err := NewCodec(AlgorithmBcrypt, bcrypt.MinCost, 1)
	require.NoError(t, err)

	require.NoError(t, c.gate.Acquire(context.Background(), 1))
	defer c.gate.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Hash(ctx, "Secret12")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCodec_VerifyHonoursContext(t *testing.T) {
	c, err := NewCodec(AlgorithmBcrypt, bcrypt.MinCost, 1)
	require.NoError(t, err)

	hash, err := c.Hash(context.Background(), "Secret12")
	require.NoError(t, err)

	require.NoError(t, c.gate.Acquire(context.Background(), 1))
	defer c.gate.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ok, err := c.Verify(ctx, "Secret12", hash)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ok)

	// Unknown hashes never wait for a worker.
	ok, err = c.Verify(ctx, "Secret12", "plaintext")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCodec_Errors(t *testing.T) {
	_, err := NewCodec("md5", 0, 1)
	assert.Error(t, err)

	_, err = NewCodec(AlgorithmBcrypt, 99, 1)
	assert.Error(t, err)

	_, err = NewCodec(AlgorithmArgon2id, 1000, 1)
	assert.Error(t, err)
}
