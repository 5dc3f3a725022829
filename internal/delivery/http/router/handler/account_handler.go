package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/delivery/http/response"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for administrative account handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// listAccountsResponse pairs the sanitized page with the total match count.
type listAccountsResponse struct {
	Accounts []*AccountView `json:"accounts"`
	Total    int64          `json:"total"`
}

// CreateAdmin handles administrative provisioning of admin accounts.
func (h *AccountHandler) CreateAdmin(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated actor")
	}

	var input *usecase.CreateAdminInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid admin account input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.CreateAdmin(c.Request().Context(), actor, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountView(account), "Admin account created successfully")
}

// Get retrieves a single account.
func (h *AccountHandler) Get(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated actor")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	account, err := h.uc.GetAccount(c.Request().Context(), actor, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(account), "Account retrieved successfully")
}

// Update applies an administrative account update.
func (h *AccountHandler) Update(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated actor")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	var input *usecase.UpdateAccountInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid account update input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.UpdateAccount(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountView(account), "Account updated successfully")
}

// Delete removes an account.
func (h *AccountHandler) Delete(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated actor")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid account ID")
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), actor, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deleted successfully")
}

// List searches accounts with filters and paging.
func (h *AccountHandler) List(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated actor")
	}

	var input usecase.ListAccountsInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing filters")
	}

	output, err := h.uc.ListAccounts(c.Request().Context(), actor, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listAccountsResponse{
		Accounts: toAccountViews(output.Accounts),
		Total:    output.Total,
	}, "Accounts retrieved successfully")
}
