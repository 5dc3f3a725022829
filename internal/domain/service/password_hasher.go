// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for salted password hashing and verification.
// The salt is managed explicitly so that hash and salt can be rotated together
// as a pair, keeping the domain independent of the hashing algorithm.
type PasswordHasher interface {
	// GenerateSalt produces a fresh random salt. A salt is never reused across
	// accounts or across a password rotation on the same account.
	GenerateSalt() (string, error)

	// Hash derives a hash from a plaintext password and a salt.
	// It is deterministic given the same (password, salt) pair.
	Hash(password, salt string) (string, error)

	// Verify recomputes the hash for (password, salt) and compares it against
	// the stored hash in constant time.
	Verify(password, salt, hash string) bool
}
