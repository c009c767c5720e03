package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/db"
)

// PageStore is the page cache used by CachedFetcher. *db.DB satisfies it.
type PageStore interface {
	ShouldSkipURL(ctx context.Context, pageURL string) (bool, string, error)
	GetFreshSourcePage(ctx context.Context, pageURL string, maxAge time.Duration) (*db.SourcePage, error)
	GetSourcePageByURL(ctx context.Context, pageURL string) (*db.SourcePage, error)
	UpsertSourcePage(ctx context.Context, page *db.SourcePage) error
	RecordFailedFetch(ctx context.Context, pageURL string, httpStatus int, errorMsg string) error
}

// CachedFetcher wraps URL fetching with database-backed caching.
type CachedFetcher struct {
	store     PageStore
	options   *Options
	selectors []string
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
	logger    *zap.Logger
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
	// Selectors are used for pages on unrecognized platforms.
	Selectors []string
	Logger    *zap.Logger
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  db.DefaultPageCacheTTL, // 7 days
		SkipCache: false,
		Options:   DefaultOptions(),
		Selectors: InterviewExperienceSelectors(),
	}
}

// NewCachedFetcher creates a new cached fetcher. store may be nil, in which
// case every fetch goes to the network.
func NewCachedFetcher(store PageStore, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultPageCacheTTL
	}
	if len(config.Selectors) == 0 {
		config.Selectors = InterviewExperienceSelectors()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{
		store:     store,
		options:   config.Options,
		selectors: config.Selectors,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		logger:    logger,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool      // Whether this result came from cache
	PageID    uuid.UUID // Database ID of the cached page
}

// Fetch retrieves a URL, using cache if available and fresh.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	return f.FetchWithCompany(ctx, urlStr, nil, nil)
}

// FetchWithCompany retrieves a URL with optional company association, so the
// cached page can be traced back to the bank it was imported into.
func (f *CachedFetcher) FetchWithCompany(ctx context.Context, urlStr string, companyID *uuid.UUID, pageType *string) (*CachedResult, error) {
	log := f.logger.With(zap.String("url", urlStr))

	// Step 1: Check if URL should be skipped (permanent failure or backoff)
	if !f.skipCache && f.store != nil {
		shouldSkip, reason, err := f.store.ShouldSkipURL(ctx, urlStr)
		if err != nil {
			return nil, fmt.Errorf("failed to check skip status: %w", err)
		}
		if shouldSkip {
			log.Debug("skipping url", zap.String("reason", reason))
			return nil, &Error{
				URL:       urlStr,
				Message:   fmt.Sprintf("URL skipped: %s", reason),
				Retryable: false,
			}
		}
	}

	// Step 2: Try to get fresh cached page
	if !f.skipCache && f.store != nil {
		cached, err := f.store.GetFreshSourcePage(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check cache: %w", err)
		}
		if cached != nil {
			log.Debug("cache hit")
			return &CachedResult{
				Result: &Result{
					URL:        cached.URL,
					HTML:       derefString(cached.RawHTML),
					Text:       derefString(cached.ParsedText),
					StatusCode: derefInt(cached.HTTPStatus),
				},
				FromCache: true,
				PageID:    cached.ID,
			}, nil
		}
	}

	// Step 3: Fetch fresh content and extract text
	result, err := Text(ctx, urlStr, f.options, f.selectors)
	if err != nil {
		if f.store != nil {
			if recErr := f.store.RecordFailedFetch(ctx, urlStr, failureStatus(result, err), err.Error()); recErr != nil {
				log.Warn("failed to record fetch failure", zap.Error(recErr))
			}
		}
		return nil, err
	}

	// Step 4: Store in cache
	if f.store != nil {
		page := &db.SourcePage{
			CompanyID:   companyID,
			URL:         urlStr,
			PageType:    pageType,
			RawHTML:     &result.HTML,
			ParsedText:  &result.Text,
			HTTPStatus:  &result.StatusCode,
			FetchStatus: db.FetchStatusSuccess,
		}
		if err := f.store.UpsertSourcePage(ctx, page); err != nil {
			// The fetch itself succeeded
			log.Warn("failed to cache page", zap.Error(err))
		} else {
			return &CachedResult{
				Result:    result,
				FromCache: false,
				PageID:    page.ID,
			}, nil
		}
	}

	return &CachedResult{
		Result:    result,
		FromCache: false,
	}, nil
}

// InvalidateCache marks a cached page as stale, forcing a re-fetch on next request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.store == nil {
		return nil
	}

	page, err := f.store.GetSourcePageByURL(ctx, urlStr)
	if err != nil || page == nil {
		return err
	}

	// Set expires_at to past to force re-fetch
	past := time.Now().Add(-time.Hour)
	page.ExpiresAt = &past
	return f.store.UpsertSourcePage(ctx, page)
}

// failureStatus picks the HTTP status to record for a failed fetch.
func failureStatus(result *Result, err error) int {
	if result != nil && result.StatusCode != 0 {
		return result.StatusCode
	}
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode
	}
	return 0
}

// Helper functions

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
