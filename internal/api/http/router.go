package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/survey-vote-service/internal/api/http/handlers"
	"github.com/spec-kit/survey-vote-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Votes           *handlers.VotesHandler
	Surveys         *handlers.SurveysHandler
	AdminSurveys    *handlers.AdminSurveysHandler
	Results         *handlers.ResultsHandler
	AdminMiddleware *auth.AdminMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/debug/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.StudentLogin)
	authGroup.Get("/session", cfg.Auth.SessionInfo)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)

	api.Post("/votes", cfg.Votes.Submit)

	api.Get("/surveys/active", cfg.Surveys.ListActive)
	api.Get("/surveys/:id", cfg.Surveys.Get)

	admin := api.Group("/admin", cfg.AdminMiddleware.Handle)
	admin.Get("/surveys", cfg.AdminSurveys.List)
	admin.Post("/surveys", cfg.AdminSurveys.Create)
	admin.Put("/surveys/:id", cfg.AdminSurveys.Update)
	admin.Patch("/surveys/:id/toggle", cfg.AdminSurveys.Toggle)
	admin.Delete("/surveys/:id", cfg.AdminSurveys.Delete)
	admin.Get("/results/:surveyId", cfg.Results.Get)
	admin.Get("/results/:surveyId/export", cfg.Results.Export)
}
