// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create persists a new account to the database.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Update the account entity with the generated ID and timestamps
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by email address, case-insensitively.
// With activeOnly set, inactive accounts are indistinguishable from absent ones.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string, activeOnly bool) (*entity.Account, error) {
	query := repo.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email)
	if activeOnly {
		query = query.Where("status = ?", true)
	}

	var accountM model.AccountModel
	if err := query.First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// FindByConfirmationToken retrieves the account holding the given confirmation token.
func (repo *accountRepository) FindByConfirmationToken(ctx context.Context, token string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("confirmation_token = ?", token).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by confirmation token")
	}

	return toAccountDomain(&accountM), nil
}

// FindByRecoverToken retrieves the account holding the given recovery token.
func (repo *accountRepository) FindByRecoverToken(ctx context.Context, token string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("recover_token = ?", token).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by recover token")
	}

	return toAccountDomain(&accountM), nil
}

// ClearConfirmationToken consumes a confirmation token with a single UPDATE.
// The affected-row count lets the caller distinguish a consumed token from an
// unknown one; two racing consumers can never both see one row affected.
func (repo *accountRepository) ClearConfirmationToken(ctx context.Context, token string) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("confirmation_token = ?", token).
		Update("confirmation_token", nil)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to clear confirmation token")
	}

	return result.RowsAffected, nil
}

// SetRecoverToken stores a fresh recovery token, superseding any earlier one.
func (repo *accountRepository) SetRecoverToken(ctx context.Context, id uuid.UUID, token string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", id).
		Update("recover_token", token)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set recover token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// UpdateCredentials rotates salt and hash and clears any pending recovery
// token in the same UPDATE, so a consumed reset token can never authorize a
// second rotation.
func (repo *accountRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, newSalt, newHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"salt":          newSalt,
			"password_hash": newHash,
			"recover_token": nil,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update credentials")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// Update modifies an existing account's profile fields. Credential columns are
// deliberately excluded; those only change through UpdateCredentials.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"name":   account.Name,
			"email":  account.Email,
			"role":   account.Role.String(),
			"status": account.Status,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already registered")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account by ID. This is a hard delete.
func (repo *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// Search returns a page of accounts matching the query filters plus the total
// match count. Name and email filter as case-insensitive substrings.
func (repo *accountRepository) Search(ctx context.Context, query *repository.SearchAccountsQuery) ([]*entity.Account, int64, error) {
	tx := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("status = ?", query.Status)

	if name := strings.TrimSpace(query.Name); name != "" {
		tx = tx.Where("name ILIKE ?", "%"+name+"%")
	}
	if email := strings.TrimSpace(query.Email); email != "" {
		tx = tx.Where("email ILIKE ?", "%"+email+"%")
	}
	if query.Role != "" {
		tx = tx.Where("role = ?", query.Role.String())
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count accounts")
	}

	var accountMs []*model.AccountModel
	err := tx.
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&accountMs).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to search accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for _, accountM := range accountMs {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, total, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:                data.ID,
		Email:             data.Email,
		Name:              data.Name,
		PasswordHash:      data.PasswordHash,
		Salt:              data.Salt,
		Role:              entity.Role(data.Role),
		Status:            data.Status,
		ConfirmationToken: data.ConfirmationToken,
		RecoverToken:      data.RecoverToken,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:                data.ID,
		Email:             data.Email,
		Name:              data.Name,
		PasswordHash:      data.PasswordHash,
		Salt:              data.Salt,
		Role:              data.Role.String(),
		Status:            data.Status,
		ConfirmationToken: data.ConfirmationToken,
		RecoverToken:      data.RecoverToken,
	}
}
