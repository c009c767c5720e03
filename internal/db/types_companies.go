package db

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company represents a canonical company record
type Company struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NameNormalized string    `json:"name_normalized"`
	Domain         *string   `json:"domain,omitempty"`
	Industry       *string   `json:"industry,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CompanySummary is a company with the size of its question bank.
type CompanySummary struct {
	Company
	QuestionCount int `json:"question_count"`
}

// BankQuestion is a question from a company's interview question bank.
type BankQuestion struct {
	ID         uuid.UUID `json:"id"`
	CompanyID  uuid.UUID `json:"company_id"`
	Question   string    `json:"question"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	SourceURL  *string   `json:"source_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BankQuestionInput carries the fields of a new bank question.
type BankQuestionInput struct {
	Question   string
	Category   string
	Difficulty string
	SourceURL  string
}

// SourcePage represents a cached page that questions were imported from
type SourcePage struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	URL         string     `json:"url"`
	PageType    *string    `json:"page_type,omitempty"`
	RawHTML     *string    `json:"-"` // Don't serialize (large)
	ParsedText  *string    `json:"parsed_text,omitempty"`
	ContentHash *string    `json:"content_hash,omitempty"`
	HTTPStatus  *int       `json:"http_status,omitempty"`
	// Error tracking
	FetchStatus        string     `json:"fetch_status"` // 'success', 'error', 'not_found', 'timeout', 'blocked'
	ErrorMessage       *string    `json:"error_message,omitempty"`
	IsPermanentFailure bool       `json:"is_permanent_failure"`
	RetryCount         int        `json:"retry_count"`
	RetryAfter         *time.Time `json:"retry_after,omitempty"`
	// Timestamps
	FetchedAt      time.Time  `json:"fetched_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PageType constants for source pages
const (
	PageTypeInterviewExperience = "interview_experience"
	PageTypeQuestionList        = "question_list"
	PageTypeResume              = "resume"
	PageTypeOther               = "other"
)

// FetchStatus constants for source pages
const (
	FetchStatusSuccess  = "success"   // Page fetched successfully
	FetchStatusError    = "error"     // Generic error (may retry)
	FetchStatusNotFound = "not_found" // 404/410 - permanent failure
	FetchStatusTimeout  = "timeout"   // Request timed out (may retry)
	FetchStatusBlocked  = "blocked"   // 403/429 - blocked by server
)

// DefaultPageCacheTTL is the default time-to-live for cached pages (7 days)
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// Retry backoff for transient failures.
// Schedule: 1 min → 5 min → 25 min → 2 hours (capped)
const (
	RetryInitialBackoff = 1 * time.Minute
	RetryBackoffFactor  = 5
	RetryMaxBackoff     = 2 * time.Hour
)

// IsPermanentHTTPStatus returns true for status codes that indicate permanent failure
func IsPermanentHTTPStatus(status int) bool {
	switch status {
	case 404, 410, 451: // Not Found, Gone, Unavailable for Legal Reasons
		return true
	default:
		return false
	}
}

// FetchStatusFromHTTP determines fetch status from HTTP status code
func FetchStatusFromHTTP(status int) string {
	switch {
	case status >= 200 && status < 300:
		return FetchStatusSuccess
	case status == 404 || status == 410:
		return FetchStatusNotFound
	case status == 403 || status == 429:
		return FetchStatusBlocked
	default:
		return FetchStatusError
	}
}

// RetryBackoff returns the wait after the given number of failed attempts.
// It mirrors the interval computed by RecordFailedFetch.
func RetryBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount > 3 {
		retryCount = 3
	}
	d := RetryInitialBackoff
	for i := 0; i < retryCount; i++ {
		d *= RetryBackoffFactor
	}
	if d > RetryMaxBackoff {
		d = RetryMaxBackoff
	}
	return d
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName converts a company name to a normalized form for matching
// Example: "Affirm, Inc." -> "affirminc"
func NormalizeName(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}

var questionNoise = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeQuestion lowercases a question, drops punctuation and collapses
// whitespace so trivially different phrasings share a bank key.
func NormalizeQuestion(q string) string {
	q = questionNoise.ReplaceAllString(strings.ToLower(q), " ")
	return strings.Join(strings.Fields(q), " ")
}

// HashContent computes SHA-256 hash of content for change detection
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// IsExpired returns true if the page cache has expired
func (p *SourcePage) IsExpired() bool {
	if p.ExpiresAt == nil {
		return false // No expiry set, never expires
	}
	return time.Now().After(*p.ExpiresAt)
}

// IsFresh returns true if the page was fetched within maxAge
func (p *SourcePage) IsFresh(maxAge time.Duration) bool {
	return time.Since(p.FetchedAt) < maxAge
}
