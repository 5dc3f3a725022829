// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing a registered user.
// PasswordHash, Salt, ConfirmationToken and RecoverToken are internal
// credential state and must never appear in outward-facing representations.
type Account struct {
	ID                uuid.UUID // The unique identifier for the account, immutable after creation.
	Email             string    // The account's login identifier. Unique across all accounts, case-insensitive.
	Name              string    // The account holder's display name.
	PasswordHash      string    // Hash of the current password under the current salt.
	Salt              string    // Per-account random salt. Rotated together with PasswordHash, never independently.
	Role              Role      // The account's role, defaults to RoleUser at signup.
	Status            bool      // Active flag. Inactive accounts cannot sign in.
	ConfirmationToken *string   // Single-use token proving control of the registered email. Nil once consumed.
	RecoverToken      *string   // Single-use token authorizing one password reset. Nil unless a reset is pending.
	CreatedAt         time.Time // Timestamp of when this account was created.
	UpdatedAt         time.Time // Timestamp of the last modification to this account.
}

// IsActive reports whether the account may authenticate.
func (a *Account) IsActive() bool {
	return a.Status
}
