package impl

import (
	"context"
	"io"
	"log/slog"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Repository mock ---

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string, activeOnly bool) (*entity.Account, error) {
	args := m.Called(ctx, email, activeOnly)
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByConfirmationToken(ctx context.Context, token string) (*entity.Account, error) {
	args := m.Called(ctx, token)
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByRecoverToken(ctx context.Context, token string) (*entity.Account, error) {
	args := m.Called(ctx, token)
	if account, ok := args.Get(0).(*entity.Account); ok {
		return account, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) ClearConfirmationToken(ctx context.Context, token string) (int64, error) {
	args := m.Called(ctx, token)

	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountRepository) SetRecoverToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)

	return args.Error(0)
}

func (m *mockAccountRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, newSalt, newHash string) error {
	args := m.Called(ctx, id, newSalt, newHash)

	return args.Error(0)
}

func (m *mockAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *mockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockAccountRepository) Search(ctx context.Context, query *repository.SearchAccountsQuery) ([]*entity.Account, int64, error) {
	args := m.Called(ctx, query)
	if accounts, ok := args.Get(0).([]*entity.Account); ok {
		return accounts, args.Get(1).(int64), args.Error(2)
	}

	return nil, args.Get(1).(int64), args.Error(2)
}

// --- Recover-token fake ---

// fakeRecoverTokenRepo backs the recovery flow with a single recover-token
// slot per account, the same shape as the recover_token column: a fresh
// SetRecoverToken overwrites whatever was pending. Methods not overridden
// fall through to the embedded mock.
type fakeRecoverTokenRepo struct {
	mockAccountRepository

	account      entity.Account
	recoverToken *string
}

func (f *fakeRecoverTokenRepo) FindByEmail(_ context.Context, _ string, _ bool) (*entity.Account, error) {
	account := f.account

	return &account, nil
}

func (f *fakeRecoverTokenRepo) SetRecoverToken(_ context.Context, _ uuid.UUID, token string) error {
	f.recoverToken = &token

	return nil
}

func (f *fakeRecoverTokenRepo) FindByRecoverToken(_ context.Context, token string) (*entity.Account, error) {
	if f.recoverToken == nil || *f.recoverToken != token {
		return nil, repository.ErrAccountNotFound
	}

	account := f.account
	account.RecoverToken = f.recoverToken

	return &account, nil
}

func (f *fakeRecoverTokenRepo) UpdateCredentials(_ context.Context, id uuid.UUID, newSalt, newHash string) error {
	if id != f.account.ID {
		return repository.ErrAccountNotFound
	}

	f.account.Salt = newSalt
	f.account.PasswordHash = newHash
	f.recoverToken = nil

	return nil
}

// --- Service mocks ---

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) GenerateSalt() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Hash(password, salt string) (string, error) {
	args := m.Called(password, salt)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Verify(password, salt, hash string) bool {
	args := m.Called(password, salt, hash)

	return args.Bool(0)
}

type mockTokenGenerator struct {
	mock.Mock
}

func (m *mockTokenGenerator) Generate() (string, error) {
	args := m.Called()

	return args.String(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Sign(accountID uuid.UUID) (string, error) {
	args := m.Called(accountID)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) Validate(tokenString string) (*service.SessionClaims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.SessionClaims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockMailService struct {
	mock.Mock
}

func (m *mockMailService) Send(ctx context.Context, mail *service.Mail) error {
	args := m.Called(ctx, mail)

	return args.Error(0)
}
