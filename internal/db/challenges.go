package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Challenge Methods
// -----------------------------------------------------------------------------

// CreateChallenge stores a new coding challenge
func (db *DB) CreateChallenge(ctx context.Context, in ChallengeInput) (*Challenge, error) {
	var c Challenge
	err := db.pool.QueryRow(ctx,
		`INSERT INTO challenges (title, description, difficulty, starter_code)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, description, difficulty, starter_code, created_at`,
		in.Title, in.Description, normalizedDifficulty(in.Difficulty), in.StarterCode,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.StarterCode, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	return &c, nil
}

// ListChallenges returns all challenges in a stable order (oldest first), so a
// date-based pick over the list is deterministic.
func (db *DB) ListChallenges(ctx context.Context) ([]Challenge, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, difficulty, starter_code, created_at
		 FROM challenges ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		var c Challenge
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.StarterCode, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

// GetChallenge retrieves a challenge by ID
func (db *DB) GetChallenge(ctx context.Context, id uuid.UUID) (*Challenge, error) {
	var c Challenge
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, difficulty, starter_code, created_at
		 FROM challenges WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Difficulty, &c.StarterCode, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return &c, nil
}

// SaveSubmission stores a graded submission. ID and CreatedAt are filled in.
func (db *DB) SaveSubmission(ctx context.Context, s *Submission) error {
	suggestions := s.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO challenge_submissions (challenge_id, user_id, language, code, passed, score, feedback, suggestions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		s.ChallengeID, s.UserID, s.Language, s.Code, s.Passed, s.Score, s.Feedback, suggestions,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	s.Suggestions = suggestions
	return nil
}

// ListSubmissions returns a user's submissions, newest first
func (db *DB) ListSubmissions(ctx context.Context, userID string) ([]Submission, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, challenge_id, user_id, language, code, passed, score, feedback, suggestions, created_at
		 FROM challenge_submissions WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.ChallengeID, &s.UserID, &s.Language, &s.Code, &s.Passed, &s.Score, &s.Feedback, &s.Suggestions, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}
