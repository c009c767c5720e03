package db

import (
	"time"

	"github.com/google/uuid"
)

// Interview is a mock-interview record owned by a user.
type Interview struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Technology      string    `json:"technology"`
	ExperienceLevel string    `json:"experience_level"`
	DifficultyLevel string    `json:"difficulty_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InterviewInput carries the fields needed to create an interview.
type InterviewInput struct {
	UserID          string
	Title           string
	Technology      string
	ExperienceLevel string
	DifficultyLevel string
}

// Message is one persisted chat message of an interview.
type Message struct {
	ID          uuid.UUID `json:"id"`
	InterviewID uuid.UUID `json:"interview_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message roles
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ValidMessageRole reports whether role may be stored.
func ValidMessageRole(role string) bool {
	return role == MessageRoleUser || role == MessageRoleAssistant
}
