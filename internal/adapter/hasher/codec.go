// Package hasher implements the credential codec: slow salted password
// hashes with the salt embedded in the encoded output.
package hasher

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"runtime"

	"golang.org/x/sync/semaphore"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

type hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	Owns(hash string) bool
}

// Codec hashes with one configured algorithm and verifies any hash it
// recognises. Hash and Verify share a semaphore so CPU-bound work never
// exceeds the configured number of workers.
type Codec struct {
	primary hasher
	known   []hasher
	gate    *semaphore.Weighted
	dummy   string
}

func NewCodec(algorithm string, cost, workers int) (*Codec, error) {
	bc, err := NewBcryptHasher(costFor(algorithm, AlgorithmBcrypt, cost))
	if err != nil {
		return nil, err
	}
	ar, err := NewArgon2idHasher(costFor(algorithm, AlgorithmArgon2id, cost))
	if err != nil {
		return nil, err
	}

	var primary hasher
	switch algorithm {
	case AlgorithmBcrypt, "":
		primary = bc
	case AlgorithmArgon2id:
		primary = ar
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algorithm)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	c := &Codec{
		primary: primary,
		known:   []hasher{bc, ar},
		gate:    semaphore.NewWeighted(int64(workers)),
	}

	// Hash of a random secret, verified on unknown identifiers so a miss
	// costs the same as a wrong password.
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate dummy secret: %w", err)
	}
	c.dummy, err = primary.Hash(hex.EncodeToString(secret))
	if err != nil {
		return nil, fmt.Errorf("hash dummy secret: %w", err)
	}

	return c, nil
}

// costFor applies the configured cost to the selected algorithm only.
func costFor(selected, algorithm string, cost int) int {
	if selected == algorithm || (selected == "" && algorithm == AlgorithmBcrypt) {
		return cost
	}
	return 0
}

func (c *Codec) Hash(ctx context.Context, password string) (string, error) {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.gate.Release(1)

	return c.primary.Hash(password)
}

// Verify reports whether password matches hash. Unknown or malformed
// hashes never match. Waiting for a worker honours ctx.
func (c *Codec) Verify(ctx context.Context, password, hash string) (bool, error) {
	for _, h := range c.known {
		if !h.Owns(hash) {
			continue
		}
		if err := c.gate.Acquire(ctx, 1); err != nil {
			return false, err
		}
		defer c.gate.Release(1)
		return h.Verify(password, hash), nil
	}
	return false, nil
}

// DummyHash returns a valid hash that no caller-supplied password matches.
func (c *Codec) DummyHash() string {
	return c.dummy
}
