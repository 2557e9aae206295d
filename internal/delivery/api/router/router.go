// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"indicators/config"
	"indicators/internal/delivery/api/middleware"
	"indicators/internal/delivery/api/router/handler"
	"indicators/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	DatasetHandler *handler.DatasetHandler
	GoalHandler    *handler.GoalHandler
	KPIHandler     *handler.KPIHandler
	AuthMiddleware *middleware.AuthMiddleware
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	datasetHandler *handler.DatasetHandler
	goalHandler    *handler.GoalHandler
	kpiHandler     *handler.KPIHandler
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		datasetHandler: params.DatasetHandler,
		goalHandler:    params.GoalHandler,
		kpiHandler:     params.KPIHandler,
		authMiddleware: params.AuthMiddleware,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes under the configured prefix.
func (r *router) RegisterRoutes(e *echo.Echo) {
	api := e.Group(r.config.HTTP.APIPrefix)

	api.GET("/health", handler.HealthCheck)

	// Auth routes; the refresh cookie is scoped to this path.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/seed-admin", r.authHandler.SeedAdmin)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
	}

	// Everything below requires a valid access token.
	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate)

	writers := r.authMiddleware.RequireRoles(entity.RoleSupervisor, entity.RoleAdmin)
	admins := r.authMiddleware.RequireRoles(entity.RoleAdmin)

	usersGroup := protected.Group("/users")
	usersGroup.Use(admins)
	{
		usersGroup.GET("", r.userHandler.ListUsers)
		usersGroup.POST("", r.userHandler.CreateUser)
		usersGroup.PATCH("/:id", r.userHandler.PatchUser)
		usersGroup.DELETE("/:id", r.userHandler.DeleteUser)
	}

	datasetsGroup := protected.Group("/datasets/:kind")
	{
		datasetsGroup.GET("", r.datasetHandler.List)
		datasetsGroup.GET("/export", r.datasetHandler.Export)
		datasetsGroup.POST("", r.datasetHandler.Create, writers)
		datasetsGroup.POST("/import", r.datasetHandler.Import, writers)
	}

	goalsGroup := protected.Group("/metas")
	{
		goalsGroup.GET("", r.goalHandler.ListGoals)
		goalsGroup.POST("", r.goalHandler.UpsertGoal, admins)
	}

	protected.GET("/kpis/overview", r.kpiHandler.Overview)
}
