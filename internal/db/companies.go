package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

// FindOrCreateCompany finds an existing company by name or creates a new one
func (db *DB) FindOrCreateCompany(ctx context.Context, name string) (*Company, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	// Try to find existing
	company, err := db.GetCompanyByNormalizedName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}

	// Create new
	var c Company
	err = db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, name_normalized)
		 VALUES ($1, $2)
		 ON CONFLICT (name_normalized) DO UPDATE SET updated_at = NOW()
		 RETURNING id, name, name_normalized, domain, industry, created_at, updated_at`,
		strings.TrimSpace(name), normalized,
	).Scan(&c.ID, &c.Name, &c.NameNormalized, &c.Domain, &c.Industry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	return &c, nil
}

// GetCompanyByNormalizedName retrieves a company by its normalized name
func (db *DB) GetCompanyByNormalizedName(ctx context.Context, normalized string) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, name_normalized, domain, industry, created_at, updated_at
		 FROM companies WHERE name_normalized = $1`,
		normalized,
	).Scan(&c.ID, &c.Name, &c.NameNormalized, &c.Domain, &c.Industry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// GetCompanyByID retrieves a company by its UUID
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, name_normalized, domain, industry, created_at, updated_at
		 FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.NameNormalized, &c.Domain, &c.Industry, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// UpdateCompanyDomain sets the primary domain for a company
func (db *DB) UpdateCompanyDomain(ctx context.Context, companyID uuid.UUID, domain string) error {
	domain = normalizeDomain(domain)
	_, err := db.pool.Exec(ctx,
		`UPDATE companies SET domain = $1, updated_at = NOW() WHERE id = $2`,
		domain, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company domain: %w", err)
	}
	return nil
}

// ListCompanies returns every company with its bank size, alphabetically
func (db *DB) ListCompanies(ctx context.Context) ([]CompanySummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.name, c.name_normalized, c.domain, c.industry, c.created_at, c.updated_at,
		        COUNT(q.id)
		 FROM companies c
		 LEFT JOIN bank_questions q ON q.company_id = c.id
		 GROUP BY c.id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []CompanySummary
	for rows.Next() {
		var c CompanySummary
		if err := rows.Scan(&c.ID, &c.Name, &c.NameNormalized, &c.Domain, &c.Industry, &c.CreatedAt, &c.UpdatedAt, &c.QuestionCount); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// -----------------------------------------------------------------------------
// Question Bank Methods
// -----------------------------------------------------------------------------

// AddBankQuestion stores a question in a company's bank. It returns false
// without error when an equivalent question is already there.
func (db *DB) AddBankQuestion(ctx context.Context, companyID uuid.UUID, in BankQuestionInput) (bool, error) {
	normalized := NormalizeQuestion(in.Question)
	if normalized == "" {
		return false, fmt.Errorf("question cannot be empty")
	}

	var sourceURL *string
	if in.SourceURL != "" {
		sourceURL = &in.SourceURL
	}

	result, err := db.pool.Exec(ctx,
		`INSERT INTO bank_questions (company_id, question, question_normalized, category, difficulty, source_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (company_id, question_normalized) DO NOTHING`,
		companyID, strings.TrimSpace(in.Question), normalized, in.Category, normalizedDifficulty(in.Difficulty), sourceURL,
	)
	if err != nil {
		return false, fmt.Errorf("failed to add bank question: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListBankQuestions returns a company's question bank in insertion order
func (db *DB) ListBankQuestions(ctx context.Context, companyID uuid.UUID) ([]BankQuestion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_id, question, category, difficulty, source_url, created_at
		 FROM bank_questions WHERE company_id = $1
		 ORDER BY created_at ASC, id ASC`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank questions: %w", err)
	}
	defer rows.Close()

	var questions []BankQuestion
	for rows.Next() {
		var q BankQuestion
		if err := rows.Scan(&q.ID, &q.CompanyID, &q.Question, &q.Category, &q.Difficulty, &q.SourceURL, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bank questions: %w", err)
	}
	return questions, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// normalizeDomain cleans up a domain string
func normalizeDomain(domain string) string {
	domain = strings.ToLower(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimSuffix(domain, "/")
	return domain
}
