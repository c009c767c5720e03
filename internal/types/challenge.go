package types

import "github.com/go-playground/validator/v10"

// SubmitChallengeRequest is the body of POST /challenges/{id}/submissions.
type SubmitChallengeRequest struct {
	Language string `json:"language" validate:"required,max=30"`
	Code     string `json:"code" validate:"required,max=50000"`
}

// Validate validates the SubmitChallengeRequest using the validator.
func (r *SubmitChallengeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ChallengeFeedback is the AI evaluation of a challenge submission.
type ChallengeFeedback struct {
	Passed      bool     `json:"passed"`
	Score       int      `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}
