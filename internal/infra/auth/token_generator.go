package auth

import (
	"crypto/rand"
	"encoding/hex"

	"gatekeeper/internal/domain/service"

	"github.com/pkg/errors"
)

// tokenByteLen is the raw entropy per token; hex encoding doubles the
// character length, so tokens are 64-character strings.
const tokenByteLen = 32

// randomTokenGenerator issues opaque tokens from the system CSPRNG.
type randomTokenGenerator struct{}

// NewTokenGenerator is the constructor for randomTokenGenerator.
func NewTokenGenerator() service.TokenGenerator {
	return &randomTokenGenerator{}
}

// Generate returns a fresh 64-character hex token.
func (g *randomTokenGenerator) Generate() (string, error) {
	buf := make([]byte, tokenByteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to read random token bytes")
	}

	return hex.EncodeToString(buf), nil
}
