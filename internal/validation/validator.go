package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"

	"github.com/go-playground/validator/v10"
)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// ValidateGenerateRequest checks the request body and converts it into a
// domain.GenerationRequest. Violations come back as a single INVALID_REQUEST error.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuestionsRequest) (domain.GenerationRequest, error) {
	if req == nil {
		return domain.GenerationRequest{}, domain.NewInvalidRequestError("request body is required")
	}

	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return domain.GenerationRequest{}, domain.NewInternalError("request validation failed", err)
		}
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, fieldMessage(fe))
		}
		return domain.GenerationRequest{}, domain.NewInvalidRequestError(strings.Join(messages, "; "))
	}

	return domain.GenerationRequest{
		SourceText: strings.TrimSpace(req.Text),
		Difficulty: domain.Difficulty(req.Difficulty),
		Count:      req.Count,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %d characters", field, domain.MaxSourceTextLength)
		}
		return fmt.Sprintf("%s must be between %d and %d", field, domain.MinQuestionCount, domain.MaxQuestionCount)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
