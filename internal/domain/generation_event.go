package domain

import (
	"context"
	"time"
)

// Generation outcomes recorded in the event log.
const (
	OutcomeSuccess = "SUCCESS"
)

// GenerationEvent is operational metadata about one generation request.
// It never carries the source text or the generated questions.
type GenerationEvent struct {
	ID               string
	RequestID        string
	Difficulty       Difficulty
	RequestedCount   int
	ReturnedCount    int
	Attempts         int
	Outcome          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMs        int64
	CreatedAt        time.Time
}

// GenerationEventRepository stores and summarizes generation events.
type GenerationEventRepository interface {
	Record(ctx context.Context, event *GenerationEvent) error
	CountByOutcomeSince(ctx context.Context, since time.Time) (map[string]int, error)
	Ping(ctx context.Context) error
}

// OutcomeOf maps a pipeline result to the outcome stored in the event log:
// SUCCESS for nil, otherwise the error code.
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return string(CodeOf(err))
}
