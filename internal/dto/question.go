package dto

// GenerateQuestionsRequest is the body of POST /api/questions
// @Description Study material and generation parameters
type GenerateQuestionsRequest struct {
	Text       string `json:"text" validate:"required,notblank,max=20000" example:"Photosynthesis converts light energy into chemical energy stored in glucose."`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard" example:"medium" enums:"easy,medium,hard"`
	Count      int    `json:"count" validate:"min=1,max=30" example:"5" minimum:"1" maximum:"30"`
}

// QuestionResponse represents a single multiple-choice question
type QuestionResponse struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuestionsResponse represents the generated questions in the API response
// @Description Generated multiple-choice questions
type QuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// HealthResponse represents the service health in the API response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
