package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question is a user's practice question.
type Question struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QuestionInput carries the editable fields of a practice question.
type QuestionInput struct {
	Question   string
	Answer     string
	Category   string
	Difficulty string
	Tags       []string
}

// Difficulty constants shared by practice, bank and challenge records
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionFilters holds optional filters for listing practice questions
type QuestionFilters struct {
	Category   string
	Difficulty string
	Tag        string
	Search     string
	Limit      int
}

// DefaultQuestionLimit caps ListQuestions when no limit is given.
const DefaultQuestionLimit = 100

// normalizedDifficulty falls back to medium for an empty value.
func normalizedDifficulty(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if d == "" {
		return DifficultyMedium
	}
	return d
}

// buildQuery appends the filter clauses to a query that selects from
// practice_questions for user $1.
func (f QuestionFilters) buildQuery(base string, userID string) (string, []any) {
	query := base + " WHERE user_id = $1"
	args := []any{userID}
	argNum := 2

	if f.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, f.Category)
		argNum++
	}
	if f.Difficulty != "" {
		query += fmt.Sprintf(" AND difficulty = $%d", argNum)
		args = append(args, f.Difficulty)
		argNum++
	}
	if f.Tag != "" {
		query += fmt.Sprintf(" AND $%d = ANY(tags)", argNum)
		args = append(args, f.Tag)
		argNum++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (question ILIKE $%d OR answer ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+f.Search+"%")
		argNum++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQuestionLimit
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, limit)
	return query, args
}
