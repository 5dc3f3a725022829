// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	"gatekeeper/config"
	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/policy"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	subjectEmailConfirmation = "Confirm your email address"
	subjectRecoverPassword   = "Password recovery"
)

// credentialService implements the AuthUsecase interface.
type credentialService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	tokenGen    service.TokenGenerator
	signer      service.TokenService
	mailer      service.MailService
	authPolicy  policy.AuthorizationPolicy
	mailFrom    string
	decoySalt   string
	decoyHash   string
	logger      *slog.Logger
}

// CredentialServiceParams holds dependencies for credentialService, injected by Fx.
type CredentialServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	TokenGen    service.TokenGenerator
	Signer      service.TokenService
	Mailer      service.MailService
	AuthPolicy  policy.AuthorizationPolicy
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCredentialService is the constructor for credentialService. It receives
// all dependencies as interfaces.
func NewCredentialService(params CredentialServiceParams) (usecase.AuthUsecase, error) {
	mailFrom := ""
	if params.Config != nil && params.Config.Mail != nil {
		mailFrom = params.Config.Mail.From
	}

	// A decoy credential pair is verified against when the email lookup
	// misses, so that unknown-email and wrong-password sign-ins share the
	// same timing profile.
	decoySalt, err := params.Hasher.GenerateSalt()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate decoy salt")
	}
	decoyToken, err := params.TokenGen.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate decoy secret")
	}
	decoyHash, err := params.Hasher.Hash(decoyToken, decoySalt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash decoy secret")
	}

	return &credentialService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		tokenGen:    params.TokenGen,
		signer:      params.Signer,
		mailer:      params.Mailer,
		authPolicy:  params.AuthPolicy,
		mailFrom:    mailFrom,
		decoySalt:   decoySalt,
		decoyHash:   decoyHash,
		logger:      params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *credentialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignUp orchestrates the complete account registration process.
func (srv *credentialService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email))

	account, err := buildCredentialedAccount(srv.hasher, srv.tokenGen, buildAccountInput{
		Name:                 input.Name,
		Email:                input.Email,
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
		Role:                 entity.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		srv.log(ctx).Warn("Failed to create account during signup", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create account during signup")
	}

	if err := srv.sendTokenMail(ctx, account.Email, subjectEmailConfirmation, service.TemplateEmailConfirmation, *account.ConfirmationToken); err != nil {
		// The account is already persisted; delivery failure must not roll it back.
		srv.log(ctx).Error("Failed to send confirmation mail", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, domainerrors.ErrMailDeliveryFailed.WrapMessage("failed to send confirmation mail")
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("accountID", account.ID))

	return &usecase.SignUpOutput{Account: account}, nil
}

// SignIn verifies credentials and issues a signed session token.
func (srv *credentialService) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.SignInOutput, error) {
	srv.log(ctx).Debug("Starting sign-in", slog.String("email", input.Email))

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email, true)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Burn the same hashing cost as a real verification so the
			// failure cannot be attributed to the email lookup.
			srv.hasher.Verify(input.Password, srv.decoySalt, srv.decoyHash)

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("sign-in failed")
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	if !srv.hasher.Verify(input.Password, account.Salt, account.PasswordHash) {
		srv.log(ctx).Warn("Sign-in failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("sign-in failed")
	}

	token, err := srv.signer.Sign(account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign session token")
	}

	srv.log(ctx).Debug("Sign-in completed", slog.Any("accountID", account.ID))

	return &usecase.SignInOutput{Token: token}, nil
}

// ConfirmEmail resolves the pending account by its confirmation token and
// consumes the token in a single atomic update.
func (srv *credentialService) ConfirmEmail(ctx context.Context, token string) error {
	account, err := srv.accountRepo.FindByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrInvalidToken.WrapMessage("email confirmation failed")
		}

		return errors.Wrap(err, "failed to find account by confirmation token")
	}

	affected, err := srv.accountRepo.ClearConfirmationToken(ctx, token)
	if err != nil {
		return errors.Wrap(err, "failed to clear confirmation token")
	}

	// The clear can still lose to a concurrent confirmation; zero affected
	// rows means the token was consumed between lookup and update, never a
	// silent no-op.
	if affected == 0 {
		return domainerrors.ErrInvalidToken.WrapMessage("email confirmation failed")
	}

	srv.log(ctx).Info("Email confirmed", slog.Any("accountID", account.ID))

	return nil
}

// RequestPasswordReset issues a fresh recovery token and mails it.
func (srv *credentialService) RequestPasswordReset(ctx context.Context, email string) error {
	srv.log(ctx).Info("Starting password reset request", slog.String("email", email))

	account, err := srv.accountRepo.FindByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound.WrapMessage("no account registered with this email")
		}

		return errors.Wrap(err, "failed to find account by email")
	}

	token, err := srv.tokenGen.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate recovery token")
	}

	// Overwrites any earlier pending token; only the latest request stays valid.
	if err := srv.accountRepo.SetRecoverToken(ctx, account.ID, token); err != nil {
		return errors.Wrap(err, "failed to store recovery token")
	}

	if err := srv.sendTokenMail(ctx, account.Email, subjectRecoverPassword, service.TemplateRecoverPassword, token); err != nil {
		srv.log(ctx).Error("Failed to send recovery mail", slog.Any("accountID", account.ID), slog.Any("error", err))

		return domainerrors.ErrMailDeliveryFailed.WrapMessage("failed to send recovery mail")
	}

	return nil
}

// ChangePassword rotates salt and hash for the target account and clears any
// pending recovery token, provided the actor is the target or an admin.
func (srv *credentialService) ChangePassword(ctx context.Context, actor policy.Actor, targetID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if !srv.authPolicy.CanActOn(actor, targetID) {
		srv.log(ctx).Warn("Password change rejected by policy", slog.Any("actorID", actor.ID), slog.Any("targetID", targetID))

		return domainerrors.ErrForbidden.WrapMessage("password change is restricted to the account owner or an admin")
	}

	return srv.rotatePassword(ctx, targetID, input)
}

// ResetPassword resolves the account by recovery token and delegates the
// rotation, which also clears the token. Failures propagate unchanged.
func (srv *credentialService) ResetPassword(ctx context.Context, token string, input *usecase.ChangePasswordInput) error {
	account, err := srv.accountRepo.FindByRecoverToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrInvalidToken.WrapMessage("password reset failed")
		}

		return errors.Wrap(err, "failed to find account by recovery token")
	}

	return srv.rotatePassword(ctx, account.ID, input)
}

// rotatePassword is the single rotation path shared by ChangePassword and
// ResetPassword. Both end with recoverToken cleared.
func (srv *credentialService) rotatePassword(ctx context.Context, accountID uuid.UUID, input *usecase.ChangePasswordInput) error {
	if input.Password != input.PasswordConfirmation {
		return domainerrors.ErrPasswordMismatch.WrapMessage("password rotation rejected")
	}

	salt, err := srv.hasher.GenerateSalt()
	if err != nil {
		return errors.Wrap(err, "failed to generate salt for rotation")
	}

	hash, err := srv.hasher.Hash(input.Password, salt)
	if err != nil {
		return errors.Wrap(err, "failed to hash password for rotation")
	}

	if err := srv.accountRepo.UpdateCredentials(ctx, accountID, salt, hash); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound.WrapMessage("password rotation failed")
		}

		return errors.Wrap(err, "failed to update credentials")
	}

	srv.log(ctx).Info("Password rotated", slog.Any("accountID", accountID))

	return nil
}

// sendTokenMail builds and dispatches a token-carrying notification mail.
func (srv *credentialService) sendTokenMail(ctx context.Context, to, subject, template, token string) error {
	mail := &service.Mail{
		To:       to,
		From:     srv.mailFrom,
		Subject:  subject,
		Template: template,
		Token:    token,
	}

	return srv.mailer.Send(ctx, mail)
}

// buildAccountInput carries the fields shared by the signup and the
// administrative provisioning paths.
type buildAccountInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 entity.Role
}

// buildCredentialedAccount constructs a fully credentialed account entity:
// fresh salt, password hash and confirmation token. Both registration paths
// share the password-match precondition.
func buildCredentialedAccount(hasher service.PasswordHasher, tokenGen service.TokenGenerator, input buildAccountInput) (*entity.Account, error) {
	if input.Password != input.PasswordConfirmation {
		return nil, domainerrors.ErrPasswordMismatch.WrapMessage("registration rejected")
	}

	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	hash, err := hasher.Hash(input.Password, salt)
	if err != nil {
		return nil, domainerrors.ErrHashingFailed.WrapMessage("failed to hash password")
	}

	confirmationToken, err := tokenGen.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate confirmation token")
	}

	return &entity.Account{
		Email:             strings.ToLower(strings.TrimSpace(input.Email)),
		Name:              input.Name,
		PasswordHash:      hash,
		Salt:              salt,
		Role:              input.Role,
		Status:            true,
		ConfirmationToken: &confirmationToken,
	}, nil
}
