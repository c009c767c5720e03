package db

import (
	"time"

	"github.com/google/uuid"
)

// Challenge is a coding challenge that can be served as the daily pick.
type Challenge struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	StarterCode string    `json:"starter_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChallengeInput carries the fields of a new challenge.
type ChallengeInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	StarterCode string `json:"starter_code,omitempty"`
}

// Submission is a user's answer to a challenge together with its AI feedback.
type Submission struct {
	ID          uuid.UUID `json:"id"`
	ChallengeID uuid.UUID `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	Passed      bool      `json:"passed"`
	Score       int       `json:"score"`
	Feedback    string    `json:"feedback"`
	Suggestions []string  `json:"suggestions"`
	CreatedAt   time.Time `json:"created_at"`
}

// Critique is a stored resume critique. Body holds the critique JSON.
type Critique struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	TargetRole   string    `json:"target_role"`
	SourceURL    *string   `json:"source_url,omitempty"`
	OverallScore int       `json:"overall_score"`
	Body         []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
