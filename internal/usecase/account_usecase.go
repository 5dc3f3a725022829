package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/policy"

	"github.com/google/uuid"
)

// CreateAdminInput defines the data for administrative account provisioning.
type CreateAdminInput struct {
	Name                 string `json:"name" validate:"required,max=200"`
	Email                string `json:"email" validate:"required,email,max=200"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,min=6"`
}

// UpdateAccountInput defines the optional fields of an administrative update.
// Nil fields are left untouched.
type UpdateAccountInput struct {
	Name   *string      `json:"name" validate:"omitempty,max=200"`
	Email  *string      `json:"email" validate:"omitempty,email,max=200"`
	Role   *entity.Role `json:"role"`
	Status *bool        `json:"status"`
}

// ListAccountsInput carries the raw listing filters as received from the
// caller, before default and bound normalization.
type ListAccountsInput struct {
	Name   string      `query:"name"`
	Email  string      `query:"email"`
	Role   entity.Role `query:"role"`
	Status *bool       `query:"status"`
	Page   int         `query:"page"`
	Limit  int         `query:"limit"`
}

// ListAccountsOutput returns a page of accounts and the total match count.
type ListAccountsOutput struct {
	Accounts []*entity.Account
	Total    int64
}

// AccountUsecase defines the administrative account operations, all gated by
// the authorization policy.
type AccountUsecase interface {
	// CreateAdmin provisions an account with the admin role. Admin only.
	CreateAdmin(ctx context.Context, actor policy.Actor, input *CreateAdminInput) (*entity.Account, error)

	// GetAccount retrieves a single account. Admin only.
	GetAccount(ctx context.Context, actor policy.Actor, id uuid.UUID) (*entity.Account, error)

	// UpdateAccount modifies name, email, role or status. Admin only;
	// ownership alone is insufficient.
	UpdateAccount(ctx context.Context, actor policy.Actor, id uuid.UUID, input *UpdateAccountInput) (*entity.Account, error)

	// DeleteAccount removes an account. Admin only.
	DeleteAccount(ctx context.Context, actor policy.Actor, id uuid.UUID) error

	// ListAccounts searches accounts with filters, paging and bounded limits.
	// Admin only.
	ListAccounts(ctx context.Context, actor policy.Actor, input *ListAccountsInput) (*ListAccountsOutput, error)
}
