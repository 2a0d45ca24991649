package quizgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"study-buddy/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultModel = openai.GPT4oMini

// ChatCompleter is the slice of the OpenAI client the generator needs.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures the upstream request.
type Options struct {
	Model       string
	Temperature float32
	Store       bool
	Retry       RetryPolicy
}

// OpenAIQuestionGenerator implements domain.QuestionGenerator against an
// OpenAI-compatible chat-completion API using a strict JSON schema.
type OpenAIQuestionGenerator struct {
	client ChatCompleter
	opts   Options
	logger *zap.Logger
}

// NewOpenAIClient builds the upstream client once at startup.
// baseURL is optional and allows any OpenAI-compatible endpoint.
func NewOpenAIClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg), nil
}

// NewOpenAIQuestionGenerator creates a new instance of OpenAIQuestionGenerator.
func NewOpenAIQuestionGenerator(client ChatCompleter, opts Options, logger *zap.Logger) (*OpenAIQuestionGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("chat completion client cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	opts.Retry = opts.Retry.withDefaults()

	logger.Info("Initializing OpenAIQuestionGenerator",
		zap.String("model", opts.Model),
		zap.Int("max_attempts", opts.Retry.MaxAttempts),
		zap.Duration("attempt_timeout", opts.Retry.AttemptTimeout),
		zap.Duration("total_timeout", opts.Retry.TotalTimeout),
	)
	return &OpenAIQuestionGenerator{client: client, opts: opts, logger: logger}, nil
}

// GenerateQuestions sends the prompt and returns the first choice's content.
// Upstream errors are retried up to MaxAttempts within TotalTimeout; an empty
// completion is terminal.
func (g *OpenAIQuestionGenerator) GenerateQuestions(ctx context.Context, req domain.GenerationRequest) (*domain.Completion, error) {
	messages, err := buildMessages(req)
	if err != nil {
		return nil, domain.NewInternalError("failed to build prompt", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       g.opts.Model,
		Messages:    messages,
		Temperature: g.opts.Temperature,
		Store:       g.opts.Store,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   SchemaName,
				Schema: questionsSchema(),
				Strict: true,
			},
		},
	}

	budgetCtx, cancel := context.WithTimeout(ctx, g.opts.Retry.TotalTimeout)
	defer cancel()

	policy := g.opts.Retry
	var lastErr error
	attempt := 0
	for attempt < policy.MaxAttempts {
		attempt++

		resp, err := g.createOnce(budgetCtx, chatReq)
		if err == nil {
			if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
				return nil, domain.NewEmptyCompletionError().WithContext("attempts", attempt)
			}
			return &domain.Completion{
				Content:          resp.Choices[0].Message.Content,
				Model:            resp.Model,
				Attempts:         attempt,
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
			}, nil
		}

		lastErr = err
		g.logger.Warn("Question generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", policy.MaxAttempts),
			zap.Error(err),
		)

		if ctx.Err() != nil || budgetCtx.Err() != nil {
			break
		}
		if attempt == policy.MaxAttempts {
			break
		}

		if wait := policy.backoff(attempt); wait > 0 {
			select {
			case <-budgetCtx.Done():
				return nil, domain.NewUpstreamUnavailableError(attempt, errors.Join(lastErr, budgetCtx.Err()))
			case <-time.After(wait):
			}
		}
	}

	return nil, domain.NewUpstreamUnavailableError(attempt, lastErr)
}

func (g *OpenAIQuestionGenerator) createOnce(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.opts.Retry.AttemptTimeout)
	defer cancel()
	return g.client.CreateChatCompletion(attemptCtx, req)
}

// Static assertion to ensure OpenAIQuestionGenerator implements QuestionGenerator
var _ domain.QuestionGenerator = (*OpenAIQuestionGenerator)(nil)
