package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embedded "github.com/jonathan/interview-prep/schemas"
)

func TestValidate_Critique(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantErr   bool
		wantField string
	}{
		{
			name: "valid",
			doc: `{"overall_score": 70, "summary": "Good", "strengths": ["Clear"],
				"improvements": ["Quantify impact"], "section_feedback": {"skills": "Too long"}}`,
		},
		{
			name:      "score out of range",
			doc:       `{"overall_score": 140, "summary": "Good", "strengths": [], "improvements": ["x"]}`,
			wantErr:   true,
			wantField: "overall_score",
		},
		{
			name:      "missing improvements",
			doc:       `{"overall_score": 50, "summary": "Good", "strengths": []}`,
			wantErr:   true,
			wantField: "(root)",
		},
		{
			name:      "non-string section feedback",
			doc:       `{"overall_score": 50, "summary": "Ok", "strengths": [], "improvements": ["x"], "section_feedback": {"a": 1}}`,
			wantErr:   true,
			wantField: "section_feedback.a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(embedded.ResumeCritique, tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, embedded.ResumeCritique, validationErr.Schema)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidate_ChallengeFeedback(t *testing.T) {
	assert.NoError(t, Validate(embedded.ChallengeFeedback,
		`{"passed": true, "score": 95, "feedback": "Nice", "suggestions": []}`))

	err := Validate(embedded.ChallengeFeedback, `{"passed": "yes", "score": 95, "feedback": "Nice"}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "passed", validationErr.Errors[0].Field)
}

func TestValidate_QuestionBank(t *testing.T) {
	assert.NoError(t, Validate(embedded.QuestionBank,
		`{"companies": [{"name": "Acme", "questions": [{"question": "Design a rate limiter", "difficulty": "hard"}]}]}`))

	err := Validate(embedded.QuestionBank,
		`{"companies": [{"name": "Acme", "questions": [{"question": "Why?", "difficulty": "brutal"}]}]}`)
	assert.Error(t, err)
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope.schema.json", `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "nope.schema.json", loadErr.Path)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(embedded.ChallengeFeedback, `{"passed": true,`)
	require.Error(t, err)
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateJSONString_Valid(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`
	assert.NoError(t, ValidateJSONString(schema, `{"name": "Go"}`))
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`
	err := ValidateJSONString(schema, `{"name": 42}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "x.schema.json",
		Errors: []FieldError{{Field: "score", Message: "must be <= 100"}},
	}
	assert.Equal(t, "validation failed against x.schema.json:\n  1. score: must be <= 100\n", err.Error())
}
