package impl

import (
	"context"
	"testing"

	"gatekeeper/config"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/policy"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// credentialServiceFixtures holds all test dependencies for credential service tests.
type credentialServiceFixtures struct {
	service     usecase.AuthUsecase
	accountRepo *mockAccountRepository
	hasher      *mockPasswordHasher
	tokenGen    *mockTokenGenerator
	signer      *mockTokenService
	mailer      *mockMailService
}

func createTestCredentialService(t *testing.T) credentialServiceFixtures {
	accountRepo := new(mockAccountRepository)
	hasher := new(mockPasswordHasher)
	tokenGen := new(mockTokenGenerator)
	signer := new(mockTokenService)
	mailer := new(mockMailService)

	// The constructor builds a decoy credential pair for timing-equal sign-in
	// failures.
	hasher.On("GenerateSalt").Return("decoy-salt", nil).Once()
	tokenGen.On("Generate").Return("decoy-secret", nil).Once()
	hasher.On("Hash", "decoy-secret", "decoy-salt").Return("decoy-hash", nil).Once()

	cfg := &config.Config{}
	cfg.Mail = &config.MailConfig{From: "noreply@example.com"}

	svc, err := NewCredentialService(CredentialServiceParams{
		AccountRepo: accountRepo,
		Hasher:      hasher,
		TokenGen:    tokenGen,
		Signer:      signer,
		Mailer:      mailer,
		AuthPolicy:  policy.NewRoleOwnershipPolicy(),
		Config:      cfg,
		Logger:      newDiscardLogger(),
	})
	require.NoError(t, err)

	return credentialServiceFixtures{
		service:     svc,
		accountRepo: accountRepo,
		hasher:      hasher,
		tokenGen:    tokenGen,
		signer:      signer,
		mailer:      mailer,
	}
}

func TestCredentialService_SignUp_Success(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	input := &usecase.SignUpInput{
		Name:                 "Test User",
		Email:                "Test@Example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}

	fixtures.hasher.On("GenerateSalt").Return("salt-1", nil).Once()
	fixtures.hasher.On("Hash", "secret123", "salt-1").Return("hash-1", nil).Once()
	fixtures.tokenGen.On("Generate").Return("confirmation-token", nil).Once()

	fixtures.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(*entity.Account)
			account.ID = uuid.New()
		}).
		Return(nil).Once()

	fixtures.mailer.On("Send", ctx, mock.MatchedBy(func(m *service.Mail) bool {
		return m.To == "test@example.com" &&
			m.From == "noreply@example.com" &&
			m.Template == service.TemplateEmailConfirmation &&
			m.Token == "confirmation-token"
	})).Return(nil).Once()

	output, err := fixtures.service.SignUp(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "test@example.com", output.Account.Email)
	assert.Equal(t, entity.RoleUser, output.Account.Role)
	assert.True(t, output.Account.Status)
	require.NotNil(t, output.Account.ConfirmationToken)
	assert.Equal(t, "confirmation-token", *output.Account.ConfirmationToken)
	assert.Equal(t, "hash-1", output.Account.PasswordHash)
	assert.Equal(t, "salt-1", output.Account.Salt)
	fixtures.accountRepo.AssertExpectations(t)
	fixtures.mailer.AssertExpectations(t)
}

func TestCredentialService_SignUp_PasswordMismatch(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	input := &usecase.SignUpInput{
		Name:                 "Test User",
		Email:                "test@example.com",
		Password:             "secret123",
		PasswordConfirmation: "different",
	}

	output, err := fixtures.service.SignUp(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
	// A rejected registration must leave no trace.
	fixtures.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	fixtures.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCredentialService_SignUp_DuplicateEmail(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	input := &usecase.SignUpInput{
		Name:                 "Test User",
		Email:                "taken@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}

	fixtures.hasher.On("GenerateSalt").Return("salt-1", nil).Once()
	fixtures.hasher.On("Hash", "secret123", "salt-1").Return("hash-1", nil).Once()
	fixtures.tokenGen.On("Generate").Return("confirmation-token", nil).Once()
	fixtures.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).
		Return(domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")).Once()

	output, err := fixtures.service.SignUp(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
	fixtures.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCredentialService_SignUp_MailDeliveryFailure(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	input := &usecase.SignUpInput{
		Name:                 "Test User",
		Email:                "test@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	}

	fixtures.hasher.On("GenerateSalt").Return("salt-1", nil).Once()
	fixtures.hasher.On("Hash", "secret123", "salt-1").Return("hash-1", nil).Once()
	fixtures.tokenGen.On("Generate").Return("confirmation-token", nil).Once()
	fixtures.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil).Once()
	fixtures.mailer.On("Send", ctx, mock.AnythingOfType("*service.Mail")).
		Return(errors.New("smtp unreachable")).Once()

	output, err := fixtures.service.SignUp(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrMailDeliveryFailed))
	// The account stays persisted; only the mail step failed.
	fixtures.accountRepo.AssertExpectations(t)
}

func TestCredentialService_SignIn_Success(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "hash-1",
		Salt:         "salt-1",
		Status:       true,
	}

	fixtures.accountRepo.On("FindByEmail", ctx, "test@example.com", true).Return(account, nil).Once()
	fixtures.hasher.On("Verify", "secret123", "salt-1", "hash-1").Return(true).Once()
	fixtures.signer.On("Sign", account.ID).Return("signed-session-token", nil).Once()

	output, err := fixtures.service.SignIn(ctx, &usecase.SignInInput{
		Email:    "test@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-session-token", output.Token)
}

func TestCredentialService_SignIn_UnknownEmail(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()

	fixtures.accountRepo.On("FindByEmail", ctx, "ghost@example.com", true).
		Return(nil, repository.ErrAccountNotFound).Once()
	// The decoy verification keeps the timing profile of a real check.
	fixtures.hasher.On("Verify", "secret123", "decoy-salt", "decoy-hash").Return(false).Once()

	output, err := fixtures.service.SignIn(ctx, &usecase.SignInInput{
		Email:    "ghost@example.com",
		Password: "secret123",
	})

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	fixtures.hasher.AssertExpectations(t)
	fixtures.signer.AssertNotCalled(t, "Sign", mock.Anything)
}

func TestCredentialService_SignIn_WrongPassword(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "hash-1",
		Salt:         "salt-1",
		Status:       true,
	}

	fixtures.accountRepo.On("FindByEmail", ctx, "test@example.com", true).Return(account, nil).Once()
	fixtures.hasher.On("Verify", "wrong", "salt-1", "hash-1").Return(false).Once()

	output, err := fixtures.service.SignIn(ctx, &usecase.SignInInput{
		Email:    "test@example.com",
		Password: "wrong",
	})

	assert.Nil(t, output)
	// Indistinguishable from the unknown-email failure.
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	fixtures.signer.AssertNotCalled(t, "Sign", mock.Anything)
}

func TestCredentialService_ConfirmEmail_Success(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	token := "valid-token"
	account := &entity.Account{ID: uuid.New(), ConfirmationToken: &token}

	fixtures.accountRepo.On("FindByConfirmationToken", ctx, "valid-token").Return(account, nil).Once()
	fixtures.accountRepo.On("ClearConfirmationToken", ctx, "valid-token").Return(int64(1), nil).Once()

	err := fixtures.service.ConfirmEmail(ctx, "valid-token")

	assert.NoError(t, err)
	fixtures.accountRepo.AssertExpectations(t)
}

func TestCredentialService_ConfirmEmail_TokenIsSingleUse(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	token := "used-token"
	account := &entity.Account{ID: uuid.New(), ConfirmationToken: &token}

	// First consumption clears the row, the replay no longer resolves.
	fixtures.accountRepo.On("FindByConfirmationToken", ctx, "used-token").Return(account, nil).Once()
	fixtures.accountRepo.On("ClearConfirmationToken", ctx, "used-token").Return(int64(1), nil).Once()
	fixtures.accountRepo.On("FindByConfirmationToken", ctx, "used-token").
		Return(nil, repository.ErrAccountNotFound).Once()

	require.NoError(t, fixtures.service.ConfirmEmail(ctx, "used-token"))

	err := fixtures.service.ConfirmEmail(ctx, "used-token")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestCredentialService_ConfirmEmail_ConcurrentConsumption(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	token := "racy-token"
	account := &entity.Account{ID: uuid.New(), ConfirmationToken: &token}

	// The token resolves but another request consumes it before the clear.
	fixtures.accountRepo.On("FindByConfirmationToken", ctx, "racy-token").Return(account, nil).Once()
	fixtures.accountRepo.On("ClearConfirmationToken", ctx, "racy-token").Return(int64(0), nil).Once()

	err := fixtures.service.ConfirmEmail(ctx, "racy-token")

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
}

func TestCredentialService_RequestPasswordReset_Success(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	account := &entity.Account{
		ID:    uuid.New(),
		Email: "test@example.com",
	}

	fixtures.accountRepo.On("FindByEmail", ctx, "test@example.com", false).Return(account, nil).Once()
	fixtures.tokenGen.On("Generate").Return("recover-token", nil).Once()
	fixtures.accountRepo.On("SetRecoverToken", ctx, account.ID, "recover-token").Return(nil).Once()
	fixtures.mailer.On("Send", ctx, mock.MatchedBy(func(m *service.Mail) bool {
		return m.To == "test@example.com" &&
			m.Template == service.TemplateRecoverPassword &&
			m.Token == "recover-token"
	})).Return(nil).Once()

	err := fixtures.service.RequestPasswordReset(ctx, "test@example.com")

	assert.NoError(t, err)
	fixtures.accountRepo.AssertExpectations(t)
	fixtures.mailer.AssertExpectations(t)
}

func TestCredentialService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	fixtures.accountRepo.On("FindByEmail", ctx, "ghost@example.com", false).
		Return(nil, repository.ErrAccountNotFound).Once()

	err := fixtures.service.RequestPasswordReset(ctx, "ghost@example.com")

	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
	fixtures.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestCredentialService_ResetPassword_Success(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	account := &entity.Account{ID: uuid.New()}

	fixtures.accountRepo.On("FindByRecoverToken", ctx, "recover-token").Return(account, nil).Once()
	fixtures.hasher.On("GenerateSalt").Return("salt-2", nil).Once()
	fixtures.hasher.On("Hash", "newsecret", "salt-2").Return("hash-2", nil).Once()
	fixtures.accountRepo.On("UpdateCredentials", ctx, account.ID, "salt-2", "hash-2").Return(nil).Once()

	err := fixtures.service.ResetPassword(ctx, "recover-token", &usecase.ChangePasswordInput{
		Password:             "newsecret",
		PasswordConfirmation: "newsecret",
	})

	assert.NoError(t, err)
	fixtures.accountRepo.AssertExpectations(t)
}

func TestCredentialService_ResetPassword_InvalidToken(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	fixtures.accountRepo.On("FindByRecoverToken", ctx, "stale-token").
		Return(nil, repository.ErrAccountNotFound).Once()

	err := fixtures.service.ResetPassword(ctx, "stale-token", &usecase.ChangePasswordInput{
		Password:             "newsecret",
		PasswordConfirmation: "newsecret",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	fixtures.accountRepo.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCredentialService_ResetPassword_SecondRequestSupersedesFirst(t *testing.T) {
	hasher := new(mockPasswordHasher)
	tokenGen := new(mockTokenGenerator)
	mailer := new(mockMailService)
	repo := &fakeRecoverTokenRepo{account: entity.Account{ID: uuid.New(), Email: "test@example.com"}}

	hasher.On("GenerateSalt").Return("decoy-salt", nil).Once()
	tokenGen.On("Generate").Return("decoy-secret", nil).Once()
	hasher.On("Hash", "decoy-secret", "decoy-salt").Return("decoy-hash", nil).Once()

	svc, err := NewCredentialService(CredentialServiceParams{
		AccountRepo: repo,
		Hasher:      hasher,
		TokenGen:    tokenGen,
		Signer:      new(mockTokenService),
		Mailer:      mailer,
		AuthPolicy:  policy.NewRoleOwnershipPolicy(),
		Config:      &config.Config{},
		Logger:      newDiscardLogger(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	tokenGen.On("Generate").Return("token-1", nil).Once()
	tokenGen.On("Generate").Return("token-2", nil).Once()
	mailer.On("Send", ctx, mock.AnythingOfType("*service.Mail")).Return(nil).Twice()
	hasher.On("GenerateSalt").Return("salt-2", nil).Once()
	hasher.On("Hash", "newsecret", "salt-2").Return("hash-2", nil).Once()

	require.NoError(t, svc.RequestPasswordReset(ctx, "test@example.com"))
	require.NoError(t, svc.RequestPasswordReset(ctx, "test@example.com"))

	input := &usecase.ChangePasswordInput{Password: "newsecret", PasswordConfirmation: "newsecret"}

	// The second request overwrote the slot, so the first token is dead.
	err = svc.ResetPassword(ctx, "token-1", input)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	require.NotNil(t, repo.recoverToken)
	assert.Equal(t, "token-2", *repo.recoverToken)

	// The latest token rotates the credentials and clears the slot.
	require.NoError(t, svc.ResetPassword(ctx, "token-2", input))
	assert.Nil(t, repo.recoverToken)
	assert.Equal(t, "hash-2", repo.account.PasswordHash)
}

func TestCredentialService_ResetPassword_PasswordMismatch(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	account := &entity.Account{ID: uuid.New()}

	fixtures.accountRepo.On("FindByRecoverToken", ctx, "recover-token").Return(account, nil).Once()

	err := fixtures.service.ResetPassword(ctx, "recover-token", &usecase.ChangePasswordInput{
		Password:             "newsecret",
		PasswordConfirmation: "other",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
	// The pending token survives a rejected rotation.
	fixtures.accountRepo.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCredentialService_ChangePassword_Self(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	accountID := uuid.New()
	actor := policy.Actor{ID: accountID, Role: entity.RoleUser}

	fixtures.hasher.On("GenerateSalt").Return("salt-2", nil).Once()
	fixtures.hasher.On("Hash", "newsecret", "salt-2").Return("hash-2", nil).Once()
	fixtures.accountRepo.On("UpdateCredentials", ctx, accountID, "salt-2", "hash-2").Return(nil).Once()

	err := fixtures.service.ChangePassword(ctx, actor, accountID, &usecase.ChangePasswordInput{
		Password:             "newsecret",
		PasswordConfirmation: "newsecret",
	})

	assert.NoError(t, err)
}

func TestCredentialService_ChangePassword_AdminOnOther(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	targetID := uuid.New()
	actor := policy.Actor{ID: uuid.New(), Role: entity.RoleAdmin}

	fixtures.hasher.On("GenerateSalt").Return("salt-2", nil).Once()
	fixtures.hasher.On("Hash", "newsecret", "salt-2").Return("hash-2", nil).Once()
	fixtures.accountRepo.On("UpdateCredentials", ctx, targetID, "salt-2", "hash-2").Return(nil).Once()

	err := fixtures.service.ChangePassword(ctx, actor, targetID, &usecase.ChangePasswordInput{
		Password:             "newsecret",
		PasswordConfirmation: "newsecret",
	})

	assert.NoError(t, err)
}

func TestCredentialService_ChangePassword_ForbiddenForOtherUser(t *testing.T) {
	fixtures := createTestCredentialService(t)

	ctx := context.Background()
	actor := policy.Actor{ID: uuid.New(), Role: entity.RoleUser}

	err := fixtures.service.ChangePassword(ctx, actor, uuid.New(), &usecase.ChangePasswordInput{
		Password:             "newsecret",
		PasswordConfirmation: "newsecret",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	fixtures.accountRepo.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
