package middleware

import (
	"net/http"
	"strings"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/policy"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for session token authentication and authorization.
type AuthMiddleware struct {
	tokenSvc    service.TokenService
	accountRepo repository.AccountRepository
	authPolicy  policy.AuthorizationPolicy
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, accountRepo repository.AccountRepository, authPolicy policy.AuthorizationPolicy) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc:    tokenSvc,
		accountRepo: accountRepo,
		authPolicy:  authPolicy,
	}
}

// Authenticate is the core middleware function that validates the session token.
// It resolves the token to a live account so revoked or deactivated accounts
// are rejected even while their token is still within its lifetime.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		accountID, err := claims.AccountID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid account ID in token")
		}

		account, err := m.accountRepo.FindByID(c.Request().Context(), accountID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account no longer exists")
		}
		if !account.IsActive() {
			return echo.NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
		}

		// Expose the actor to handlers for authorization decisions.
		deliverycontext.SetActor(c, policy.Actor{
			ID:   account.ID,
			Role: account.Role,
		})

		return next(c)
	}
}

// RequireAdmin restricts a route to actors the policy recognizes as admins.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := deliverycontext.GetActor(c)
		if !ok {
			return echo.NewHTTPError(http.StatusForbidden, "Permission denied: actor information missing")
		}

		if !m.authPolicy.IsAdmin(actor) {
			return echo.NewHTTPError(http.StatusForbidden, "Permission denied: admin role required")
		}

		return next(c)
	}
}
