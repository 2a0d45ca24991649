package quizgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-buddy/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockChatCompleter struct {
	mock.Mock
}

func (m *mockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

const threeQuestions = `{"questions":[` +
	`{"text":"What does photosynthesis convert light into?","options":["Heat","Chemical energy","Sound","Magnetism"],"correctAnswer":1},` +
	`{"text":"Where does photosynthesis take place?","options":["Mitochondria","Nucleus","Chloroplasts","Ribosomes"],"correctAnswer":2},` +
	`{"text":"Which gas is released?","options":["Oxygen","Nitrogen","Helium","Argon"],"correctAnswer":0}]}`

func completionResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Model: "gpt-4o-mini",
		Choices: []openai.ChatCompletionChoice{
			{Index: 0, Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
		Usage: openai.Usage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200},
	}
}

func photosynthesisRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		SourceText: "Photosynthesis converts light into chemical energy",
		Difficulty: domain.DifficultyEasy,
		Count:      3,
	}
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, AttemptTimeout: time.Second, TotalTimeout: 5 * time.Second}
}

func newTestGenerator(t *testing.T, client ChatCompleter, logger *zap.Logger) *OpenAIQuestionGenerator {
	t.Helper()
	gen, err := NewOpenAIQuestionGenerator(client, Options{Temperature: 0.7, Store: true, Retry: fastPolicy()}, logger)
	require.NoError(t, err)
	return gen
}

func TestNewOpenAIQuestionGenerator(t *testing.T) {
	_, err := NewOpenAIQuestionGenerator(nil, Options{}, zap.NewNop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "client cannot be nil")

	gen, err := NewOpenAIQuestionGenerator(new(mockChatCompleter), Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, gen.opts.Model)
	assert.Equal(t, DefaultRetryPolicy().MaxAttempts, gen.opts.Retry.MaxAttempts)
	assert.Equal(t, DefaultRetryPolicy().TotalTimeout, gen.opts.Retry.TotalTimeout)
}

func TestNewOpenAIClient(t *testing.T) {
	_, err := NewOpenAIClient("", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key cannot be empty")

	client, err := NewOpenAIClient("sk-test", "http://localhost:9999/v1")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestGenerateQuestions_SuccessFirstAttempt(t *testing.T) {
	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(completionResponse(threeQuestions), nil).Once()

	gen := newTestGenerator(t, client, zap.NewNop())
	completion, err := gen.GenerateQuestions(context.Background(), photosynthesisRequest())

	require.NoError(t, err)
	assert.Equal(t, threeQuestions, completion.Content)
	assert.Equal(t, 1, completion.Attempts)
	assert.Equal(t, "gpt-4o-mini", completion.Model)
	assert.Equal(t, 120, completion.PromptTokens)
	assert.Equal(t, 80, completion.CompletionTokens)
	client.AssertNumberOfCalls(t, "CreateChatCompletion", 1)
}

func TestGenerateQuestions_RequestShape(t *testing.T) {
	client := new(mockChatCompleter)
	var captured openai.ChatCompletionRequest
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(openai.ChatCompletionRequest) }).
		Return(completionResponse(threeQuestions), nil).Once()

	gen := newTestGenerator(t, client, zap.NewNop())
	_, err := gen.GenerateQuestions(context.Background(), photosynthesisRequest())
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, captured.Model)
	assert.InDelta(t, 0.7, captured.Temperature, 0.0001)
	assert.True(t, captured.Store)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "exactly 4 answer options")
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[1].Role)
	assert.Equal(t,
		"Generate 3 easy difficulty questions about:\n\nPhotosynthesis converts light into chemical energy",
		captured.Messages[1].Content)

	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, captured.ResponseFormat.Type)
	require.NotNil(t, captured.ResponseFormat.JSONSchema)
	assert.Equal(t, SchemaName, captured.ResponseFormat.JSONSchema.Name)
	assert.True(t, captured.ResponseFormat.JSONSchema.Strict)
}

func TestGenerateQuestions_TemplateCharactersInSourceText(t *testing.T) {
	client := new(mockChatCompleter)
	var captured openai.ChatCompletionRequest
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(openai.ChatCompletionRequest) }).
		Return(completionResponse(threeQuestions), nil).Once()

	req := photosynthesisRequest()
	req.SourceText = "Go templates look like {{.Name}} and {{range .Items}}"

	gen := newTestGenerator(t, client, zap.NewNop())
	_, err := gen.GenerateQuestions(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, captured.Messages[1].Content, "{{.Name}} and {{range .Items}}")
}

func TestGenerateQuestions_FailsTwiceThenSucceeds(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("connection reset by peer")).Twice()
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionResponse(threeQuestions), nil).Once()

	gen := newTestGenerator(t, client, zap.New(core))
	completion, err := gen.GenerateQuestions(context.Background(), photosynthesisRequest())

	require.NoError(t, err)
	assert.Equal(t, threeQuestions, completion.Content)
	assert.Equal(t, 3, completion.Attempts)
	client.AssertNumberOfCalls(t, "CreateChatCompletion", 3)
	assert.Equal(t, 2, logs.FilterMessage("Question generation attempt failed").Len())
}

func TestGenerateQuestions_AlwaysFails(t *testing.T) {
	upstreamErr := &openai.APIError{HTTPStatusCode: 503, Message: "service unavailable"}
	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, upstreamErr)

	gen := newTestGenerator(t, client, zap.NewNop())
	completion, err := gen.GenerateQuestions(context.Background(), photosynthesisRequest())

	assert.Nil(t, completion)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrUpstreamUnavailable))
	var apiErr *openai.APIError
	assert.True(t, errors.As(err, &apiErr), "original upstream error must stay reachable")
	assert.Equal(t, 503, apiErr.HTTPStatusCode)
	client.AssertNumberOfCalls(t, "CreateChatCompletion", 3)
}

func TestGenerateQuestions_EmptyCompletionIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		resp openai.ChatCompletionResponse
	}{
		{name: "no choices", resp: openai.ChatCompletionResponse{Model: "gpt-4o-mini"}},
		{name: "empty content", resp: completionResponse("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockChatCompleter)
			client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(tt.resp, nil)

			gen := newTestGenerator(t, client, zap.NewNop())
			_, err := gen.GenerateQuestions(context.Background(), photosynthesisRequest())

			require.Error(t, err)
			assert.True(t, domain.IsCode(err, domain.ErrEmptyCompletion))
			client.AssertNumberOfCalls(t, "CreateChatCompletion", 1)
		})
	}
}

func TestGenerateQuestions_CallerCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, context.Canceled)

	gen := newTestGenerator(t, client, zap.NewNop())
	_, err := gen.GenerateQuestions(ctx, photosynthesisRequest())

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrUpstreamUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
	client.AssertNumberOfCalls(t, "CreateChatCompletion", 1)
}

func blockUntilDone(args mock.Arguments) {
	<-args.Get(0).(context.Context).Done()
}

func TestGenerateQuestions_PerAttemptTimeout(t *testing.T) {
	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(blockUntilDone).
		Return(openai.ChatCompletionResponse{}, context.DeadlineExceeded)

	gen, err := NewOpenAIQuestionGenerator(client, Options{Retry: RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: 10 * time.Millisecond,
		TotalTimeout:   2 * time.Second,
	}}, zap.NewNop())
	require.NoError(t, err)

	start := time.Now()
	_, err = gen.GenerateQuestions(context.Background(), photosynthesisRequest())

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrUpstreamUnavailable))
	client.AssertNumberOfCalls(t, "CreateChatCompletion", 3)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGenerateQuestions_TotalBudgetStopsRetries(t *testing.T) {
	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(blockUntilDone).
		Return(openai.ChatCompletionResponse{}, context.DeadlineExceeded)

	gen, err := NewOpenAIQuestionGenerator(client, Options{Retry: RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: time.Second,
		TotalTimeout:   30 * time.Millisecond,
	}}, zap.NewNop())
	require.NoError(t, err)

	_, err = gen.GenerateQuestions(context.Background(), photosynthesisRequest())

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrUpstreamUnavailable))
	client.AssertNumberOfCalls(t, "CreateChatCompletion", 1)
}

func TestGenerateQuestions_BackoffBetweenAttempts(t *testing.T) {
	client := new(mockChatCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("rate limited")).Twice()
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionResponse(threeQuestions), nil).Once()

	gen, err := NewOpenAIQuestionGenerator(client, Options{Retry: RetryPolicy{
		MaxAttempts:    3,
		AttemptTimeout: time.Second,
		TotalTimeout:   5 * time.Second,
		InitialBackoff: 20 * time.Millisecond,
		MaxBackoff:     time.Second,
	}}, zap.NewNop())
	require.NoError(t, err)

	start := time.Now()
	completion, err := gen.GenerateQuestions(context.Background(), photosynthesisRequest())

	require.NoError(t, err)
	assert.Equal(t, 3, completion.Attempts)
	// 20ms after the first failure, 40ms after the second.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRetryPolicy_Backoff(t *testing.T) {
	immediate := RetryPolicy{}
	assert.Equal(t, time.Duration(0), immediate.backoff(1))
	assert.Equal(t, time.Duration(0), immediate.backoff(2))

	exp := RetryPolicy{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, exp.backoff(1))
	assert.Equal(t, 200*time.Millisecond, exp.backoff(2))
	assert.Equal(t, 300*time.Millisecond, exp.backoff(3))
	assert.Equal(t, 300*time.Millisecond, exp.backoff(10))
}
