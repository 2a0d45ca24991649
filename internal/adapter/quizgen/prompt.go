package quizgen

import (
	"fmt"

	"study-buddy/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/prompts"
)

const systemPrompt = `You are an expert at writing educational multiple-choice questions.
Given study material and a difficulty level, write questions that test real understanding of the material.
Every question must have exactly 4 answer options and exactly one correct option.
Respond with a JSON object of the form:
{"questions": [{"text": "question text", "options": ["A", "B", "C", "D"], "correctAnswer": 0}]}
where correctAnswer is the zero-based index (0-3) of the correct option.`

const userPromptTemplate = "Generate {{.count}} {{.difficulty}} difficulty questions about:\n\n{{.text}}"

var questionPrompt = prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
	prompts.NewSystemMessagePromptTemplate(systemPrompt, nil),
	prompts.NewHumanMessagePromptTemplate(userPromptTemplate, []string{"count", "difficulty", "text"}),
})

// buildMessages renders the system and user instructions for req.
func buildMessages(req domain.GenerationRequest) ([]openai.ChatCompletionMessage, error) {
	rendered, err := questionPrompt.FormatMessages(map[string]any{
		"count":      req.Count,
		"difficulty": string(req.Difficulty),
		"text":       req.SourceText,
	})
	if err != nil {
		return nil, fmt.Errorf("render question prompt: %w", err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(rendered))
	for _, m := range rendered {
		role, err := openAIRole(m.GetType())
		if err != nil {
			return nil, err
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.GetContent(),
		})
	}
	return messages, nil
}

func openAIRole(t schema.ChatMessageType) (string, error) {
	switch t {
	case schema.ChatMessageTypeSystem:
		return openai.ChatMessageRoleSystem, nil
	case schema.ChatMessageTypeHuman:
		return openai.ChatMessageRoleUser, nil
	case schema.ChatMessageTypeAI:
		return openai.ChatMessageRoleAssistant, nil
	default:
		return "", fmt.Errorf("unsupported prompt message type %q", t)
	}
}
