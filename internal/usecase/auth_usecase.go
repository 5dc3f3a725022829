// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/policy"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new account.
type SignUpInput struct {
	Name                 string `json:"name" validate:"required,max=200"`
	Email                string `json:"email" validate:"required,email,max=200"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,min=6"`
}

// SignInInput defines the credentials for signing in.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput defines the data for a password rotation, whether it
// is entered through the authorized change path or the token reset path.
type ChangePasswordInput struct {
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,min=6"`
}

// --- Output DTOs ---

// SignUpOutput returns the newly created account.
type SignUpOutput struct {
	Account *entity.Account
}

// SignInOutput returns the signed session token after a successful sign-in.
type SignInOutput struct {
	Token string `json:"token"`
}

// AuthUsecase defines the interface for credential and token lifecycle
// operations. This is the contract the delivery layer depends on.
type AuthUsecase interface {
	// SignUp registers a new active user account with a pending confirmation
	// token and sends the confirmation mail.
	SignUp(ctx context.Context, input *SignUpInput) (*SignUpOutput, error)

	// SignIn verifies credentials against the active account for the email
	// and issues a signed session token carrying the account id.
	SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error)

	// ConfirmEmail consumes a confirmation token. The token is single-use:
	// a second attempt with the same token fails.
	ConfirmEmail(ctx context.Context, token string) error

	// RequestPasswordReset issues a fresh recovery token for the email,
	// superseding any earlier one, and sends the recovery mail.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword rotates credentials for the account holding the recovery
	// token. The token is cleared as part of the rotation.
	ResetPassword(ctx context.Context, token string, input *ChangePasswordInput) error

	// ChangePassword rotates credentials for the target account, provided the
	// actor is the account itself or an admin. Any pending recovery token is
	// cleared by the rotation.
	ChangePassword(ctx context.Context, actor policy.Actor, targetID uuid.UUID, input *ChangePasswordInput) error
}
