package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dietcare-service/internal/api/http/handlers"
	"github.com/spec-kit/dietcare-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Patients       *handlers.PatientsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Post("/logout", cfg.Auth.Logout)

	patients := app.Group("/patients", cfg.AuthMiddleware.Handle, auth.RequireRole())
	patients.Post("/profile", cfg.Patients.CreateProfile)
	patients.Get("/:userId/profile", cfg.Patients.GetProfile)
	patients.Put("/:userId/profile", cfg.Patients.UpdateProfile)
	patients.Get("/:userId/compliance", cfg.Patients.ListCompliance)
	patients.Post("/:userId/compliance", cfg.Patients.RecordCompliance)
}
