package service

import (
	"context"
	"errors"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/util"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
)

const eventRecordTimeout = 2 * time.Second

// QuestionService defines the interface for question generation
type QuestionService interface {
	GenerateQuestions(ctx context.Context, requestID string, req *dto.GenerateQuestionsRequest) (*dto.QuestionsResponse, error)
}

// questionService implements QuestionService
type questionService struct {
	generator domain.QuestionGenerator
	validator *validation.Validator
	output    *validation.OutputValidator
	events    domain.GenerationEventRepository // nil when the event log is disabled
	now       func() time.Time
}

// NewQuestionService creates a new instance of questionService.
// events may be nil.
func NewQuestionService(
	generator domain.QuestionGenerator,
	validator *validation.Validator,
	output *validation.OutputValidator,
	events domain.GenerationEventRepository,
) QuestionService {
	return &questionService{
		generator: generator,
		validator: validator,
		output:    output,
		events:    events,
		now:       time.Now,
	}
}

// GenerateQuestions implements QuestionService
func (s *questionService) GenerateQuestions(ctx context.Context, requestID string, req *dto.GenerateQuestionsRequest) (*dto.QuestionsResponse, error) {
	genReq, err := s.validator.ValidateGenerateRequest(req)
	if err != nil {
		return nil, err
	}

	log := logger.Get().With(zap.String("request_id", requestID))
	start := s.now()

	completion, err := s.generator.GenerateQuestions(ctx, genReq)
	if err != nil {
		var domainErr *domain.DomainError
		if !errors.As(err, &domainErr) {
			err = domain.NewError(domain.ErrInternal, domain.GenerationFailedMessage, err)
		}
		s.recordEvent(ctx, requestID, genReq, nil, 0, start, err)
		return nil, err
	}

	log.Info("Received model output",
		zap.String("model", completion.Model),
		zap.Int("attempts", completion.Attempts),
		zap.Int("prompt_tokens", completion.PromptTokens),
		zap.Int("completion_tokens", completion.CompletionTokens),
		zap.String("content", completion.Content),
	)

	set, err := s.output.ParseQuestionSet(completion.Content)
	if err != nil {
		domainErr := domain.NewInvalidModelOutputError(err)
		s.recordEvent(ctx, requestID, genReq, completion, 0, start, domainErr)
		return nil, domainErr
	}

	questions := set.Questions
	switch {
	case len(questions) > genReq.Count:
		log.Warn("Model returned more questions than requested, trimming",
			zap.Int("requested", genReq.Count),
			zap.Int("returned", len(questions)),
		)
		questions = questions[:genReq.Count]
	case len(questions) < genReq.Count:
		log.Warn("Model returned fewer questions than requested",
			zap.Int("requested", genReq.Count),
			zap.Int("returned", len(questions)),
		)
	}

	s.recordEvent(ctx, requestID, genReq, completion, len(questions), start, nil)

	resp := &dto.QuestionsResponse{Questions: make([]dto.QuestionResponse, 0, len(questions))}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return resp, nil
}

// recordEvent writes one metadata row. A failing event log never fails the request.
func (s *questionService) recordEvent(
	ctx context.Context,
	requestID string,
	req domain.GenerationRequest,
	completion *domain.Completion,
	returned int,
	start time.Time,
	genErr error,
) {
	if s.events == nil {
		return
	}

	now := s.now()
	event := &domain.GenerationEvent{
		ID:             util.NewULID(),
		RequestID:      requestID,
		Difficulty:     req.Difficulty,
		RequestedCount: req.Count,
		ReturnedCount:  returned,
		Attempts:       domain.AttemptsOf(genErr),
		Outcome:        domain.OutcomeOf(genErr),
		LatencyMs:      now.Sub(start).Milliseconds(),
		CreatedAt:      now,
	}
	if completion != nil {
		event.Attempts = completion.Attempts
		event.Model = completion.Model
		event.PromptTokens = completion.PromptTokens
		event.CompletionTokens = completion.CompletionTokens
	}

	// Recorded even if the caller has gone away.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventRecordTimeout)
	defer cancel()

	if err := s.events.Record(recordCtx, event); err != nil {
		logger.Get().Warn("Failed to record generation event",
			zap.String("request_id", requestID),
			zap.String("outcome", event.Outcome),
			zap.Error(err),
		)
	}
}
