package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Resume Critique Methods
// -----------------------------------------------------------------------------

// SaveCritique stores a critique for a user. body is marshaled to JSONB.
func (db *DB) SaveCritique(ctx context.Context, userID, targetRole, sourceURL string, overallScore int, body any) (*Critique, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal critique: %w", err)
	}

	var src *string
	if sourceURL != "" {
		src = &sourceURL
	}

	var c Critique
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_critiques (user_id, target_role, source_url, overall_score, critique)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, target_role, source_url, overall_score, critique, created_at`,
		userID, targetRole, src, overallScore, jsonBytes,
	).Scan(&c.ID, &c.UserID, &c.TargetRole, &c.SourceURL, &c.OverallScore, &c.Body, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save critique: %w", err)
	}
	return &c, nil
}

// GetCritique retrieves a critique by ID
func (db *DB) GetCritique(ctx context.Context, id uuid.UUID) (*Critique, error) {
	var c Critique
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, target_role, source_url, overall_score, critique, created_at
		 FROM resume_critiques WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.UserID, &c.TargetRole, &c.SourceURL, &c.OverallScore, &c.Body, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get critique: %w", err)
	}
	return &c, nil
}

// ListCritiques returns a user's critiques, newest first
func (db *DB) ListCritiques(ctx context.Context, userID string) ([]Critique, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, target_role, source_url, overall_score, critique, created_at
		 FROM resume_critiques WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list critiques: %w", err)
	}
	defer rows.Close()

	var critiques []Critique
	for rows.Next() {
		var c Critique
		if err := rows.Scan(&c.ID, &c.UserID, &c.TargetRole, &c.SourceURL, &c.OverallScore, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan critique: %w", err)
		}
		critiques = append(critiques, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list critiques: %w", err)
	}
	return critiques, nil
}
