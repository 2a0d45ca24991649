package domain

import "context"

// QuestionGenerator produces the raw JSON content for a generation request.
// Implementations own the prompt, the output schema and the retry policy.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerationRequest) (*Completion, error)
}
