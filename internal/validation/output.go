package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"study-buddy/internal/domain"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var (
	// ErrMalformedJSON is returned when model output is not JSON at all.
	ErrMalformedJSON = errors.New("model output is not valid JSON")

	// ErrSchemaViolation is returned when model output parses but breaks a question invariant.
	ErrSchemaViolation = errors.New("model output violates the question schema")
)

const questionSetSchemaURL = "schema://question-set.json"

// questionSetSchema is stricter than the schema declared upstream: strict
// structured output cannot express item counts or numeric bounds.
const questionSetSchema = `{
  "type": "object",
  "required": ["questions"],
  "additionalProperties": false,
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["text", "options", "correctAnswer"],
        "additionalProperties": false,
        "properties": {
          "text": {"type": "string", "pattern": "\\S"},
          "options": {
            "type": "array",
            "minItems": 4,
            "maxItems": 4,
            "items": {"type": "string", "pattern": "\\S"}
          },
          "correctAnswer": {"type": "integer", "minimum": 0, "maximum": 3}
        }
      }
    }
  }
}`

// OutputValidator checks raw model output against the question invariants.
// It is safe for concurrent use.
type OutputValidator struct {
	schema *jsonschema.Schema
}

// NewOutputValidator compiles the question-set schema.
func NewOutputValidator() (*OutputValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSetSchema))
	if err != nil {
		return nil, fmt.Errorf("parse question-set schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(questionSetSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add question-set schema: %w", err)
	}
	compiled, err := c.Compile(questionSetSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile question-set schema: %w", err)
	}
	return &OutputValidator{schema: compiled}, nil
}

// ParseQuestionSet parses raw model output and validates every question.
func (v *OutputValidator) ParseQuestionSet(raw string) (*domain.QuestionSet, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if err := v.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	var set domain.QuestionSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return &set, nil
}
