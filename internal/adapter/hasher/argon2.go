package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	DefaultArgon2Time = 3
	argon2Memory      = 64 * 1024 // KiB
	argon2Threads     = 4
	argon2SaltLen     = 16
	argon2KeyLen      = 32

	// upper bounds accepted when reading parameters back from a stored hash
	argon2MaxMemory = 1024 * 1024
	argon2MaxTime   = 64
)

const argon2Prefix = "$argon2id$"

type Argon2idHasher struct {
	time uint32
}

func NewArgon2idHasher(time int) (*Argon2idHasher, error) {
	if time == 0 {
		time = DefaultArgon2Time
	}
	if time < 1 || time > argon2MaxTime {
		return nil, fmt.Errorf("argon2id time %d out of range [1, %d]", time, argon2MaxTime)
	}
	return &Argon2idHasher{time: uint32(time)}, nil
}

// Hash encodes as $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, argon2Memory, argon2Threads, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, h.time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}
	if time < 1 || time > argon2MaxTime || threads < 1 || threads > 255 || memory > argon2MaxMemory {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 || len(expected) > 1024 {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func (h *Argon2idHasher) Owns(hash string) bool {
	return strings.HasPrefix(hash, argon2Prefix)
}
