package service

import (
	"context"
	"time"

	"study-buddy/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuestionGenerator ---
type MockQuestionGenerator struct {
	mock.Mock
}

func (m *MockQuestionGenerator) GenerateQuestions(ctx context.Context, req domain.GenerationRequest) (*domain.Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Completion), args.Error(1)
}

// --- MockGenerationEventRepository ---
type MockGenerationEventRepository struct {
	mock.Mock
}

func (m *MockGenerationEventRepository) Record(ctx context.Context, event *domain.GenerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockGenerationEventRepository) CountByOutcomeSince(ctx context.Context, since time.Time) (map[string]int, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockGenerationEventRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
