package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Interview Methods
// -----------------------------------------------------------------------------

const interviewColumns = `id, user_id, title, technology, experience_level, difficulty_level, created_at, updated_at`

// CreateInterview inserts a new interview record
func (db *DB) CreateInterview(ctx context.Context, in InterviewInput) (*Interview, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	var iv Interview
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interviews (user_id, title, technology, experience_level, difficulty_level)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+interviewColumns,
		in.UserID, in.Title, in.Technology, in.ExperienceLevel, in.DifficultyLevel,
	).Scan(&iv.ID, &iv.UserID, &iv.Title, &iv.Technology, &iv.ExperienceLevel, &iv.DifficultyLevel, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return &iv, nil
}

// GetInterview retrieves an interview by ID. Returns nil if it does not exist.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*Interview, error) {
	var iv Interview
	err := db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`,
		id,
	).Scan(&iv.ID, &iv.UserID, &iv.Title, &iv.Technology, &iv.ExperienceLevel, &iv.DifficultyLevel, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &iv, nil
}

// ListInterviews returns a user's interviews, newest first
func (db *DB) ListInterviews(ctx context.Context, userID string) ([]Interview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []Interview
	for rows.Next() {
		var iv Interview
		if err := rows.Scan(&iv.ID, &iv.UserID, &iv.Title, &iv.Technology, &iv.ExperienceLevel, &iv.DifficultyLevel, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// DeleteInterview removes an interview and its messages (via cascade).
// Returns false if no interview with that ID exists.
func (db *DB) DeleteInterview(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete interview: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// -----------------------------------------------------------------------------
// Message Methods
// -----------------------------------------------------------------------------

// AppendMessage stores a chat message for an interview
func (db *DB) AppendMessage(ctx context.Context, interviewID uuid.UUID, role string, content string) error {
	if !ValidMessageRole(role) {
		return fmt.Errorf("invalid message role: %q", role)
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO interview_messages (interview_id, role, content) VALUES ($1, $2, $3)`,
		interviewID, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	_, _ = db.pool.Exec(ctx, `UPDATE interviews SET updated_at = NOW() WHERE id = $1`, interviewID)
	return nil
}

// ListMessages returns an interview's chat in the order it was written
func (db *DB) ListMessages(ctx context.Context, interviewID uuid.UUID) ([]Message, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, interview_id, role, content, created_at
		 FROM interview_messages WHERE interview_id = $1
		 ORDER BY created_at ASC, id ASC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.InterviewID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
