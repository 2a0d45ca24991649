package quizgen

import "github.com/sashabaranov/go-openai/jsonschema"

// SchemaName identifies the response schema in the upstream request.
const SchemaName = "questions_schema"

// questionsSchema is the strict output contract declared to the upstream API.
// Strict mode requires every property to be listed in Required and
// additionalProperties to be false at every object level.
func questionsSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"questions": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"text": {Type: jsonschema.String},
						"options": {
							Type:  jsonschema.Array,
							Items: &jsonschema.Definition{Type: jsonschema.String},
						},
						"correctAnswer": {Type: jsonschema.Integer},
					},
					Required:             []string{"text", "options", "correctAnswer"},
					AdditionalProperties: false,
				},
			},
		},
		Required:             []string{"questions"},
		AdditionalProperties: false,
	}
}
