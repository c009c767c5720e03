package types

import "github.com/go-playground/validator/v10"

// CreateQuestionRequest is the body of POST /questions and PUT /questions/{id}.
type CreateQuestionRequest struct {
	Question   string   `json:"question" validate:"required,min=5,max=2000"`
	Answer     string   `json:"answer,omitempty" validate:"max=10000"`
	Category   string   `json:"category,omitempty" validate:"max=100"`
	Difficulty string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Tags       []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

// Validate validates the CreateQuestionRequest using the validator.
func (r *CreateQuestionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ImportQuestionsRequest is the body of POST /companies/{id}/questions/import.
type ImportQuestionsRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,max=20,dive,required,url"`
}

// Validate validates the ImportQuestionsRequest using the validator.
func (r *ImportQuestionsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ImportResult summarizes a question-bank import.
type ImportResult struct {
	Fetched    int      `json:"fetched"`
	Extracted  int      `json:"extracted"`
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Failed     []string `json:"failed,omitempty"`
}
