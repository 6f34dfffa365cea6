// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"strongbox/internal/delivery/http/middleware"
	"strongbox/internal/delivery/http/router/handler"
	"strongbox/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	FileHandler    *handler.FileHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	fileHandler    *handler.FileHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		fileHandler:    params.FileHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	// Service account registration requires an authenticated service principal.
	serviceGroup := e.Group("/service")
	serviceGroup.Use(r.authMiddleware.Authenticate)
	serviceGroup.Use(r.authMiddleware.RequireRole(entity.RoleService))
	{
		serviceGroup.POST("/register", r.authHandler.RegisterService)
		serviceGroup.PUT("/accounts/:id/role", r.authHandler.ChangeRole)
	}

	// Object storage routes, all owner-scoped via the authenticated principal.
	fileGroup := e.Group("/files")
	fileGroup.Use(r.authMiddleware.Authenticate)
	{
		fileGroup.POST("", r.fileHandler.Upload)
		fileGroup.GET("", r.fileHandler.List)
		fileGroup.GET("/stats", r.fileHandler.Stats)
		fileGroup.GET("/:id", r.fileHandler.Download)
		fileGroup.DELETE("/:id", r.fileHandler.Delete)
	}
}
