// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"gatekeeper/internal/domain/entity"

	"github.com/google/uuid"
)

// AccountView is the outward-facing representation of an account. Credential
// state (hash, salt, lifecycle tokens) never leaves the service.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// toAccountView maps a domain account to its sanitized view.
func toAccountView(account *entity.Account) *AccountView {
	if account == nil {
		return nil
	}

	return &AccountView{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Role:      account.Role.String(),
		Status:    account.Status,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// toAccountViews maps a page of domain accounts to sanitized views.
func toAccountViews(accounts []*entity.Account) []*AccountView {
	views := make([]*AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountView(account))
	}

	return views
}
