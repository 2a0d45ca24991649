package app

import (
	"study-buddy/internal/config"
	"study-buddy/internal/domain"
	"study-buddy/internal/handler"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// Dependencies are the long-lived components the HTTP layer needs.
type Dependencies struct {
	Questions service.QuestionService

	// RateLimiter is optional; nil leaves /api/questions unthrottled.
	RateLimiter domain.RateLimiter

	// HealthChecks lists the configured backing stores by name.
	HealthChecks map[string]handler.Pinger
}

// New builds the Fiber application with middleware and routes.
func New(cfg config.ServerConfig, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "study-buddy",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
		ExposeHeaders: middleware.RequestIDHeader + ",X-RateLimit-Limit,X-RateLimit-Remaining,Retry-After",
		MaxAge:        300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	questionHandler := handler.NewQuestionHandler(deps.Questions)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	questionRoute := []fiber.Handler{}
	if deps.RateLimiter != nil {
		questionRoute = append(questionRoute, middleware.RateLimit(deps.RateLimiter, "questions"))
	}
	questionRoute = append(questionRoute, questionHandler.GenerateQuestions)
	api.Post("/questions", questionRoute...)

	return app
}
