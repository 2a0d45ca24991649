package handler

import (
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler handles question generation HTTP requests
type QuestionHandler struct {
	service service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

// GenerateQuestions godoc
// @Summary Generate multiple-choice questions
// @Description Generates multiple-choice questions about the submitted study material. Every question has exactly four options and a zero-based correctAnswer index.
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Study material and generation parameters"
// @Success 200 {object} dto.QuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewError(domain.ErrInvalidRequest, "request body must be a JSON object", err)
	}

	resp, err := h.service.GenerateQuestions(c.UserContext(), middleware.GetRequestID(c), &req)
	if err != nil {
		return err // This will be handled by ErrorHandler middleware
	}

	return c.JSON(resp)
}
