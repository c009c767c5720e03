package db

import (
	"context"
	"fmt"
)

// schemaSQL creates every table the store uses. Statements are idempotent so
// EnsureSchema can run on every start.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS interviews (
	id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id          TEXT NOT NULL,
	title            TEXT NOT NULL,
	technology       TEXT NOT NULL,
	experience_level TEXT NOT NULL,
	difficulty_level TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_interviews_user ON interviews(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS interview_messages (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	interview_id UUID NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
	role         TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
	content      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);
CREATE INDEX IF NOT EXISTS idx_interview_messages_interview ON interview_messages(interview_id, created_at);

CREATE TABLE IF NOT EXISTS practice_questions (
	id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id    TEXT NOT NULL,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL DEFAULT '',
	category   TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT 'medium',
	tags       TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_practice_questions_user ON practice_questions(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS companies (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name            TEXT NOT NULL,
	name_normalized TEXT NOT NULL UNIQUE,
	domain          TEXT,
	industry        TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bank_questions (
	id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	company_id          UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	question            TEXT NOT NULL,
	question_normalized TEXT NOT NULL,
	category            TEXT NOT NULL DEFAULT '',
	difficulty          TEXT NOT NULL DEFAULT 'medium',
	source_url          TEXT,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (company_id, question_normalized)
);

CREATE TABLE IF NOT EXISTS source_pages (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	company_id           UUID REFERENCES companies(id) ON DELETE SET NULL,
	url                  TEXT NOT NULL UNIQUE,
	page_type            TEXT,
	raw_html             TEXT,
	parsed_text          TEXT,
	content_hash         TEXT,
	http_status          INTEGER,
	fetch_status         TEXT NOT NULL DEFAULT 'success',
	error_message        TEXT,
	is_permanent_failure BOOLEAN NOT NULL DEFAULT FALSE,
	retry_count          INTEGER NOT NULL DEFAULT 0,
	retry_after          TIMESTAMPTZ,
	fetched_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at           TIMESTAMPTZ,
	last_accessed_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS challenges (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	difficulty   TEXT NOT NULL DEFAULT 'medium',
	starter_code TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS challenge_submissions (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	challenge_id UUID NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
	user_id      TEXT NOT NULL,
	language     TEXT NOT NULL,
	code         TEXT NOT NULL,
	passed       BOOLEAN NOT NULL,
	score        INTEGER NOT NULL,
	feedback     TEXT NOT NULL,
	suggestions  TEXT[] NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_challenge_submissions_user ON challenge_submissions(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS resume_critiques (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id       TEXT NOT NULL,
	target_role   TEXT NOT NULL DEFAULT '',
	source_url    TEXT,
	overall_score INTEGER NOT NULL,
	critique      JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_resume_critiques_user ON resume_critiques(user_id, created_at DESC);
`

// EnsureSchema creates missing tables and indexes.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
