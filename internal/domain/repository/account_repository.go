// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when a lookup misses.
var ErrAccountNotFound = errors.New("account not found")

// SearchAccountsQuery carries the filters and paging for account listings.
// Name and Email are case-insensitive substring matches. A nil Status is
// normalized to active-only by the use case before the query reaches the
// repository; Limit is already capped there as well.
type SearchAccountsQuery struct {
	Name   string
	Email  string
	Role   entity.Role
	Status bool
	Page   int
	Limit  int
}

// AccountRepository defines the persistence operations the credential core
// depends on. Mutations are atomic at the single-record level: token clears
// and credential rotations are single-statement updates so that two
// concurrent consumers of the same token cannot both observe it as present.
type AccountRepository interface {
	// Create persists a new account. A violated email uniqueness constraint
	// surfaces as the domain's duplicate-email error.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves a single account by its unique id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by email, case-insensitively.
	// With activeOnly set, inactive accounts are treated as absent.
	FindByEmail(ctx context.Context, email string, activeOnly bool) (*entity.Account, error)

	// FindByConfirmationToken retrieves the account awaiting confirmation for the token.
	FindByConfirmationToken(ctx context.Context, token string) (*entity.Account, error)

	// FindByRecoverToken retrieves the account with a pending reset for the token.
	FindByRecoverToken(ctx context.Context, token string) (*entity.Account, error)

	// ClearConfirmationToken consumes a confirmation token in a single atomic
	// update and returns the number of affected rows, so the caller can tell
	// "token not found" apart from "already cleared".
	ClearConfirmationToken(ctx context.Context, token string) (int64, error)

	// SetRecoverToken stores a fresh recovery token on the account,
	// overwriting any previously issued one.
	SetRecoverToken(ctx context.Context, id uuid.UUID, token string) error

	// UpdateCredentials rotates salt and hash and clears any pending recover
	// token as part of the same atomic update.
	UpdateCredentials(ctx context.Context, id uuid.UUID, newSalt, newHash string) error

	// Update modifies an existing account's name, email, role and status.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes an account by id.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search returns a sanitized page of accounts matching the query filters
	// together with the total match count.
	Search(ctx context.Context, query *SearchAccountsQuery) ([]*entity.Account, int64, error)
}
