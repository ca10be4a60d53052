// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"userhub/internal/delivery/http/middleware"
	"userhub/internal/delivery/http/router/handler"
	"userhub/internal/domain/service"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthHandler    *handler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	authHandler    *handler.AuthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		authHandler:    params.AuthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
	}

	// Public account routes
	publicUsers := api.Group("/users")
	{
		publicUsers.POST("", r.accountHandler.Register)
		publicUsers.GET("/username/:username", r.accountHandler.GetByUsername)
	}

	// Account routes that require authentication; each route additionally
	// passes through the access policy for its operation.
	am := r.authMiddleware
	users := api.Group("/users", am.Authenticate)
	{
		users.GET("", r.accountHandler.List, am.Require(service.OpListAccounts))
		users.GET("/search", r.accountHandler.List, am.Require(service.OpSearchAccounts))
		users.GET("/advanced-search", r.accountHandler.AdvancedSearch, am.Require(service.OpAdvancedSearch))
		users.GET("/stats", r.accountHandler.Stats, am.Require(service.OpViewStats))
		users.GET("/export", r.accountHandler.Export, am.Require(service.OpExportAccounts))
		users.POST("/bulk-delete", r.accountHandler.BulkDelete, am.Require(service.OpBulkDelete))

		users.GET("/:id", r.accountHandler.GetByID, am.Require(service.OpViewAccount))
		users.PUT("/:id", r.accountHandler.Update, am.Require(service.OpUpdateAccount))
		users.PATCH("/:id", r.accountHandler.Update, am.Require(service.OpUpdateAccount))
		users.DELETE("/:id", r.accountHandler.Delete, am.Require(service.OpDeleteAccount))
		users.PUT("/:id/role", r.accountHandler.ChangeRole, am.Require(service.OpChangeRole))
		users.POST("/:id/activate", r.accountHandler.Activate, am.Require(service.OpActivate))
		users.POST("/:id/deactivate", r.accountHandler.Deactivate, am.Require(service.OpDeactivate))
		users.POST("/:id/change-password", r.accountHandler.ChangePassword, am.Require(service.OpChangePassword))
		users.POST("/:id/upload-avatar", r.accountHandler.UploadAvatar, am.Require(service.OpUploadAvatar))
		users.POST("/:id/verify-email", r.accountHandler.VerifyEmail, am.Require(service.OpVerifyEmail))
	}
}
