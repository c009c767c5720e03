package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Practice Question Methods
// -----------------------------------------------------------------------------

const questionColumns = `id, user_id, question, answer, category, difficulty, tags, created_at, updated_at`

func scanQuestion(row pgx.Row) (*Question, error) {
	var q Question
	if err := row.Scan(&q.ID, &q.UserID, &q.Question, &q.Answer, &q.Category, &q.Difficulty, &q.Tags, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return &q, nil
}

// CreateQuestion stores a new practice question for a user
func (db *DB) CreateQuestion(ctx context.Context, userID string, in QuestionInput) (*Question, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	q, err := scanQuestion(db.pool.QueryRow(ctx,
		`INSERT INTO practice_questions (user_id, question, answer, category, difficulty, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+questionColumns,
		userID, in.Question, in.Answer, in.Category, normalizedDifficulty(in.Difficulty), tags,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return q, nil
}

// GetQuestion retrieves a practice question by ID
func (db *DB) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	q, err := scanQuestion(db.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM practice_questions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestions retrieves a user's practice questions with optional filters
func (db *DB) ListQuestions(ctx context.Context, userID string, filters QuestionFilters) ([]Question, error) {
	query, args := filters.buildQuery(`SELECT `+questionColumns+` FROM practice_questions`, userID)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// UpdateQuestion replaces the editable fields of a user's question.
// Returns nil if the question does not exist or belongs to someone else.
func (db *DB) UpdateQuestion(ctx context.Context, userID string, id uuid.UUID, in QuestionInput) (*Question, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	q, err := scanQuestion(db.pool.QueryRow(ctx,
		`UPDATE practice_questions
		 SET question = $3, answer = $4, category = $5, difficulty = $6, tags = $7, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+questionColumns,
		id, userID, in.Question, in.Answer, in.Category, normalizedDifficulty(in.Difficulty), tags,
	))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return q, nil
}

// DeleteQuestion removes a user's question. Returns false if nothing was deleted.
func (db *DB) DeleteQuestion(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM practice_questions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete question: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
