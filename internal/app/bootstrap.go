package app

import (
	"fmt"

	"study-buddy/internal/adapter"
	"study-buddy/internal/adapter/quizgen"
	"study-buddy/internal/cache"
	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/handler"
	"study-buddy/internal/logger"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"
	"study-buddy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Components is everything built from configuration at startup.
type Components struct {
	Questions   service.QuestionService
	RateLimiter domain.RateLimiter
	Events      domain.GenerationEventRepository
	Health      map[string]handler.Pinger

	closers []func() error
}

// Build constructs the generation pipeline and the optional redis and
// database components. Call Close when done.
func Build(cfg *config.Config) (*Components, error) {
	if err := cfg.ValidateForGeneration(); err != nil {
		return nil, err
	}
	appLogger := logger.Get()

	client, err := quizgen.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	generator, err := quizgen.NewOpenAIQuestionGenerator(client, quizgen.Options{
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		Store:       cfg.OpenAI.Store,
		Retry: quizgen.RetryPolicy{
			MaxAttempts:    cfg.Generation.MaxAttempts,
			AttemptTimeout: cfg.Generation.AttemptTimeout,
			TotalTimeout:   cfg.Generation.TotalTimeout,
			InitialBackoff: cfg.Generation.InitialBackoff,
			MaxBackoff:     cfg.Generation.MaxBackoff,
		},
	}, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create question generator: %w", err)
	}

	output, err := validation.NewOutputValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile output schema: %w", err)
	}

	c := &Components{Health: make(map[string]handler.Pinger)}

	if cfg.RedisEnabled() {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, redisClient.Close)

		limiter, err := adapter.NewRedisRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.RateLimiter = limiter
		c.Health["redis"] = limiter
		appLogger.Info("Rate limiting enabled",
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", cfg.RateLimit.Window),
		)
	} else {
		appLogger.Info("Redis not configured, rate limiting disabled")
	}

	if cfg.DBEnabled() {
		db, err := database.NewSQLXOracleDB(cfg.GetDSN())
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, db.Close)

		c.Events = repository.NewSQLXGenerationEventRepository(db)
		c.Health["database"] = c.Events
		appLogger.Info("Generation event log enabled")
	} else {
		appLogger.Info("Database not configured, generation event log disabled")
	}

	c.Questions = service.NewQuestionService(generator, validation.NewValidator(), output, c.Events)
	return c, nil
}

// NewFiberApp builds the HTTP application over the components.
func (c *Components) NewFiberApp(cfg config.ServerConfig) *fiber.App {
	return New(cfg, Dependencies{
		Questions:    c.Questions,
		RateLimiter:  c.RateLimiter,
		HealthChecks: c.Health,
	})
}

// Close releases the redis and database connections.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logger.Get().Warn("Failed to close component", zap.Error(err))
		}
	}
	c.closers = nil
}
