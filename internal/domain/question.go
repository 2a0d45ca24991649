package domain

const (
	MinQuestionCount    = 1
	MaxQuestionCount    = 30
	OptionsPerQuestion  = 4
	MaxSourceTextLength = 20000
)

// Difficulty is the coarse level passed through to the prompt.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the supported levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GenerationRequest is what the generation pipeline receives once the
// request body has been validated.
type GenerationRequest struct {
	SourceText string
	Difficulty Difficulty
	Count      int
}

// Question is a single multiple-choice question produced by the model.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuestionSet is the payload shape the model is asked to return.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// Completion is the raw result of a successful upstream call.
type Completion struct {
	Content          string
	Model            string
	Attempts         int
	PromptTokens     int
	CompletionTokens int
}
