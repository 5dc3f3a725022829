// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gatekeeper/internal/delivery/http/middleware"
	"gatekeeper/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/signin", r.authHandler.SignIn)
		authGroup.PATCH("/confirm/:token", r.authHandler.ConfirmEmail)
		authGroup.POST("/send-recover-password", r.authHandler.SendRecoverPassword)
		authGroup.PATCH("/reset-password/:token", r.authHandler.ResetPassword)
	}

	// Auth routes that require a valid session token
	sessionGroup := e.Group("/auth")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("/me", r.authHandler.Me)
		sessionGroup.PATCH("/:id/change-password", r.authHandler.ChangePassword)
	}

	// Administrative account routes, require authentication and the admin role
	accountGroup := e.Group("/accounts")
	accountGroup.Use(r.authMiddleware.Authenticate)
	accountGroup.Use(r.authMiddleware.RequireAdmin)
	{
		accountGroup.POST("", r.accountHandler.CreateAdmin)
		accountGroup.GET("", r.accountHandler.List)
		accountGroup.GET("/:id", r.accountHandler.Get)
		accountGroup.PATCH("/:id", r.accountHandler.Update)
		accountGroup.DELETE("/:id", r.accountHandler.Delete)
	}
}
