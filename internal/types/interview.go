// Package types provides the request and response shapes shared by the store, the AI
// components and the HTTP API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateInterviewRequest is the body of POST /interviews.
type CreateInterviewRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=200"`
	Technology      string `json:"technology" validate:"required,min=1,max=100"`
	ExperienceLevel string `json:"experience_level" validate:"required,max=50"`
	DifficultyLevel string `json:"difficulty_level" validate:"required,max=50"`
}

// Validate validates the CreateInterviewRequest using the validator.
func (r *CreateInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SendMessageRequest is the body of POST /interviews/{id}/messages.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=8000"`
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ContextResponse is the in-memory interview context as returned by
// GET /interviews/{id}/context.
type ContextResponse struct {
	InterviewID    uuid.UUID        `json:"interview_id"`
	Phase          string           `json:"phase"`
	AskedQuestions []string         `json:"asked_questions"`
	Profile        ProfileResponse  `json:"profile"`
	History        []HistoryMessage `json:"history"`
	Busy           bool             `json:"busy"`
}

// ProfileResponse is the candidate profile extracted so far. Empty fields
// have not been mentioned yet.
type ProfileResponse struct {
	Name       string `json:"name,omitempty"`
	Experience string `json:"experience,omitempty"`
	Strengths  string `json:"strengths,omitempty"`
	Weaknesses string `json:"weaknesses,omitempty"`
}

// HistoryMessage is one entry of the context history.
type HistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnResponse is returned by the start and message endpoints.
type TurnResponse struct {
	Message     string `json:"message"`
	Phase       string `json:"phase"`
	Question    string `json:"question,omitempty"`
	Duplicate   bool   `json:"duplicate_question,omitempty"`
	HasCodeTask bool   `json:"has_code_task"`
	HasFollowUp bool   `json:"has_follow_up"`
}
