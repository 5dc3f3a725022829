package impl

import (
	"context"
	"log/slog"
	"strings"

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

// maxListLimit caps the page size of account listings. Larger requested
// limits are silently bounded, a deliberate policy carried over from the
// listing defaults.
const maxListLimit = 100

// accountService implements the AccountUsecase interface.
type accountService struct {
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	tokenGen    service.TokenGenerator
	authPolicy  policy.AuthorizationPolicy
	logger      *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	TokenGen    service.TokenGenerator
	AuthPolicy  policy.AuthorizationPolicy
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		tokenGen:    params.TokenGen,
		authPolicy:  params.AuthPolicy,
		logger:      params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateAdmin provisions an account with the admin role. It mirrors signup's
// password-match check and duplicate-email failure, but no confirmation mail
// is sent on this path.
func (srv *accountService) CreateAdmin(ctx context.Context, actor policy.Actor, input *usecase.CreateAdminInput) (*entity.Account, error) {
	if !srv.authPolicy.IsAdmin(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("admin provisioning requires the admin role")
	}

	srv.log(ctx).Info("Provisioning admin account", slog.String("email", input.Email))

	account, err := buildCredentialedAccount(srv.hasher, srv.tokenGen, buildAccountInput{
		Name:                 input.Name,
		Email:                input.Email,
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
		Role:                 entity.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	if err := srv.accountRepo.Create(ctx, account); err != nil {
		srv.log(ctx).Warn("Failed to create admin account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create admin account")
	}

	srv.log(ctx).Debug("Admin account provisioned", slog.Any("accountID", account.ID))

	return account, nil
}

// GetAccount retrieves a single account for administrative inspection.
func (srv *accountService) GetAccount(ctx context.Context, actor policy.Actor, id uuid.UUID) (*entity.Account, error) {
	if !srv.authPolicy.IsAdmin(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("account lookup requires the admin role")
	}

	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return account, nil
}

// UpdateAccount applies an administrative update to name, email, role or status.
func (srv *accountService) UpdateAccount(ctx context.Context, actor policy.Actor, id uuid.UUID, input *usecase.UpdateAccountInput) (*entity.Account, error) {
	if !srv.authPolicy.IsAdmin(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("account update requires the admin role")
	}

	account, err := srv.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account update failed")
		}

		return nil, errors.Wrap(err, "failed to load account for update")
	}

	if input.Name != nil {
		account.Name = *input.Name
	}
	if input.Email != nil {
		account.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role")
		}
		account.Role = *input.Role
	}
	if input.Status != nil {
		account.Status = *input.Status
	}

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account update failed")
		}

		return nil, errors.Wrap(err, "failed to update account")
	}

	srv.log(ctx).Info("Account updated", slog.Any("accountID", account.ID))

	return account, nil
}

// DeleteAccount removes an account.
func (srv *accountService) DeleteAccount(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if !srv.authPolicy.IsAdmin(actor) {
		return domainerrors.ErrForbidden.WrapMessage("account deletion requires the admin role")
	}

	if err := srv.accountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound.WrapMessage("no account with the given id")
		}

		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.Any("accountID", id))

	return nil
}

// ListAccounts searches accounts with normalized filters: a missing status
// defaults to active-only, pages start at 1 and the limit is capped.
func (srv *accountService) ListAccounts(ctx context.Context, actor policy.Actor, input *usecase.ListAccountsInput) (*usecase.ListAccountsOutput, error) {
	if !srv.authPolicy.IsAdmin(actor) {
		return nil, domainerrors.ErrForbidden.WrapMessage("account listing requires the admin role")
	}

	query := normalizeSearchQuery(input)

	accounts, total, err := srv.accountRepo.Search(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search accounts")
	}

	return &usecase.ListAccountsOutput{Accounts: accounts, Total: total}, nil
}

// normalizeSearchQuery applies the listing default/bound policy.
func normalizeSearchQuery(input *usecase.ListAccountsInput) *repository.SearchAccountsQuery {
	status := true
	if input.Status != nil {
		status = *input.Status
	}

	page := input.Page
	if page < 1 {
		page = 1
	}

	limit := input.Limit
	if limit < 1 {
		limit = maxListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	return &repository.SearchAccountsQuery{
		Name:   input.Name,
		Email:  input.Email,
		Role:   input.Role,
		Status: status,
		Page:   page,
		Limit:  limit,
	}
}
