// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Default Argon2id parameters, used when the config leaves them unset.
// The cost is fixed per deployment so hashing time stays deterministic.
const (
	defaultArgon2Time     = 1
	defaultArgon2MemoryKB = 64 * 1024
	defaultArgon2Threads  = 4
	defaultArgon2KeyLen   = 32
	defaultSaltLen        = 16
)

// argon2Hasher is a concrete implementation of the PasswordHasher interface
// using Argon2id with an explicitly managed salt, so that salt and hash can
// be stored and rotated as a pair.
type argon2Hasher struct {
	time     uint32
	memoryKB uint32
	threads  uint8
	keyLen   uint32
	saltLen  int
}

// NewArgon2Hasher is the constructor for argon2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	hasher := &argon2Hasher{
		time:     defaultArgon2Time,
		memoryKB: defaultArgon2MemoryKB,
		threads:  defaultArgon2Threads,
		keyLen:   defaultArgon2KeyLen,
		saltLen:  defaultSaltLen,
	}

	if cfg != nil && cfg.Auth != nil {
		if cfg.Auth.Argon2Time > 0 {
			hasher.time = cfg.Auth.Argon2Time
		}
		if cfg.Auth.Argon2MemoryKB > 0 {
			hasher.memoryKB = cfg.Auth.Argon2MemoryKB
		}
		if cfg.Auth.Argon2Threads > 0 {
			hasher.threads = cfg.Auth.Argon2Threads
		}
	}

	return hasher
}

// GenerateSalt produces a fresh random hex-encoded salt.
func (h *argon2Hasher) GenerateSalt() (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to read random salt")
	}

	return hex.EncodeToString(salt), nil
}

// Hash derives an Argon2id key from the password and the hex-encoded salt.
// Deterministic for a given (password, salt) pair; empty and very long
// passwords hash like any other input.
func (h *argon2Hasher) Hash(password, salt string) (string, error) {
	saltBytes, err := hex.DecodeString(salt)
	if err != nil {
		return "", errors.Wrap(err, "malformed salt")
	}

	key := argon2.IDKey([]byte(password), saltBytes, h.time, h.memoryKB, h.threads, h.keyLen)

	return hex.EncodeToString(key), nil
}

// Verify recomputes the hash and compares it in constant time.
func (h *argon2Hasher) Verify(password, salt, hash string) bool {
	computed, err := h.Hash(password, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
