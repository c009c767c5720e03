// Package questionbank imports interview questions into company question
// banks from interview-experience pages.
package questionbank

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/interview"
	"github.com/jonathan/interview-prep/internal/types"
)

// DefaultConcurrency bounds parallel page fetches.
const DefaultConcurrency = 4

// Length bounds for a sentence to count as a question.
const (
	minQuestionLength = 15
	maxQuestionLength = 300
	minQuestionWords  = 3
)

// Question categories assigned on import
const (
	CategoryBehavioral   = "behavioral"
	CategorySystemDesign = "system design"
	CategoryTechnical    = "technical"
)

// Store is the bank storage used by the importer. *db.DB satisfies it.
type Store interface {
	ListBankQuestions(ctx context.Context, companyID uuid.UUID) ([]db.BankQuestion, error)
	AddBankQuestion(ctx context.Context, companyID uuid.UUID, in db.BankQuestionInput) (bool, error)
}

// Fetcher loads a page. *fetch.CachedFetcher satisfies it.
type Fetcher interface {
	FetchWithCompany(ctx context.Context, urlStr string, companyID *uuid.UUID, pageType *string) (*fetch.CachedResult, error)
}

// Importer extracts questions from pages and adds the new ones to a bank.
type Importer struct {
	store       Store
	fetcher     Fetcher
	similarity  interview.SimilarityStrategy
	concurrency int
	logger      *zap.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithConcurrency sets how many pages are fetched at once.
func WithConcurrency(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.concurrency = n
		}
	}
}

// WithSimilarity replaces the near-duplicate check.
func WithSimilarity(s interview.SimilarityStrategy) Option {
	return func(im *Importer) {
		if s != nil {
			im.similarity = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// NewImporter creates an Importer.
func NewImporter(store Store, fetcher Fetcher, opts ...Option) *Importer {
	im := &Importer{
		store:       store,
		fetcher:     fetcher,
		similarity:  interview.ContainmentSimilarity{},
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

type pageQuestions struct {
	url       string
	questions []string
	err       error
}

// Import fetches urls, extracts the questions they contain and stores those
// that are not near-duplicates of questions already in the bank. A page that
// fails to load is reported in the result and does not stop the import.
func (im *Importer) Import(ctx context.Context, companyID uuid.UUID, urls []string) (*types.ImportResult, error) {
	existing, err := im.store.ListBankQuestions(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}
	known := make([]string, 0, len(existing))
	for _, q := range existing {
		known = append(known, q.Question)
	}

	urls = uniqueURLs(urls)
	pages := make([]pageQuestions, len(urls))
	pageType := db.PageTypeInterviewExperience

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			pages[i].url = u
			res, err := im.fetcher.FetchWithCompany(gctx, u, &companyID, &pageType)
			if err != nil {
				pages[i].err = err
				return nil
			}
			pages[i].questions = CandidateQuestions(res.Text)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &types.ImportResult{}
	for _, page := range pages {
		log := im.logger.With(zap.String("url", page.url))
		if page.err != nil {
			log.Warn("failed to fetch page", zap.Error(page.err))
			result.Failed = append(result.Failed, page.url)
			continue
		}
		result.Fetched++
		result.Extracted += len(page.questions)

		for _, q := range page.questions {
			if im.isKnown(known, q) {
				result.Duplicates++
				continue
			}
			added, err := im.store.AddBankQuestion(ctx, companyID, db.BankQuestionInput{
				Question:   q,
				Category:   Categorize(q),
				Difficulty: db.DifficultyMedium,
				SourceURL:  page.url,
			})
			if err != nil {
				return result, fmt.Errorf("failed to store question: %w", err)
			}
			known = append(known, q)
			if added {
				result.Added++
			} else {
				result.Duplicates++
			}
		}
		log.Debug("page imported", zap.Int("questions", len(page.questions)))
	}

	im.logger.Info("question import finished",
		zap.String("company_id", companyID.String()),
		zap.Int("fetched", result.Fetched),
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (im *Importer) isKnown(known []string, q string) bool {
	for _, k := range known {
		if im.similarity.IsSimilar(k, q) {
			return true
		}
	}
	return false
}

var listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)]|[qQ]\d*[:.)])\s*`)

// CandidateQuestions extracts the question sentences of a page that look
// like real interview questions: list markers are stripped and very short or
// very long sentences are dropped. Order is preserved and exact repeats are removed.
func CandidateQuestions(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		for _, q := range interview.ExtractQuestions(line) {
			q = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(q), ""))
			if len(q) < minQuestionLength || len(q) > maxQuestionLength {
				continue
			}
			if len(strings.Fields(q)) < minQuestionWords {
				continue
			}
			key := db.NormalizeQuestion(q)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, q)
		}
	}
	return out
}

var (
	behavioralPattern   = regexp.MustCompile(`(?i)\b(tell me about a time|describe a (time|situation)|how do you handle|conflict|disagree|failure|proud of|why do you want)\b`)
	systemDesignPattern = regexp.MustCompile(`(?i)\b(design|architect|scale|scalab\w*|distributed|high availability)\b`)
)

// Categorize assigns a coarse category from the wording of a question.
func Categorize(q string) string {
	switch {
	case behavioralPattern.MatchString(q):
		return CategoryBehavioral
	case systemDesignPattern.MatchString(q):
		return CategorySystemDesign
	default:
		return CategoryTechnical
	}
}

func uniqueURLs(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
