// Package fetch provides URL fetching and HTML-to-text processing for resume
// pages and interview-experience write-ups.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 5 << 20

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; InterviewCoach/1.0)"

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// RenderFunc renders a page in a browser and returns its HTML.
type RenderFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string

	// UseBrowser lets Text fall back to headless rendering for thin pages.
	UseBrowser     bool
	BrowserTimeout time.Duration
	// Render overrides the headless browser. Nil means WithBrowser.
	Render RenderFunc
	Logger *zap.Logger
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		BrowserTimeout: DefaultTimeout,
	}
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Options) render() RenderFunc {
	if o.Render != nil {
		return o.Render
	}
	logger := o.logger()
	return func(ctx context.Context, url string, timeout time.Duration) (string, error) {
		return WithBrowser(ctx, url, timeout, logger)
	}
}

// URL retrieves HTML content from a URL.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	opts = &o
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	// Validate URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	// Create HTTP client with timeout
	client := &http.Client{
		Timeout: opts.Timeout,
	}

	// Create request with context
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	// Set headers
	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	// Execute request
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:       urlStr,
			Message:   "HTTP request failed",
			Retryable: true,
			Cause:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// Read response body
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	// Check for non-success status
	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	return result, nil
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements using noiseSelectors, then finds content using contentSelectors.
// If no content selectors match, it falls back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Remove common unwanted elements (nav, footer, scripts, ads, etc.)
	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	// Remove platform-specific noise elements
	if len(noiseSelectors) > 0 {
		noiseSelector := strings.Join(noiseSelectors, ", ")
		if noiseSelector != "" {
			doc.Find(noiseSelector).Remove()
		}
	}

	// Try to find main content using provided selectors
	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	// Fallback to body if no selector matched
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	// Extract and clean text
	text := mainContent.Text()
	text = cleanWhitespace(text)

	return text, nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// InterviewExperienceSelectors returns selectors for interview write-ups on
// blogs, forums and review sites.
func InterviewExperienceSelectors() []string {
	return []string{
		".interview-details",
		".interview-questions",
		"[data-test='interview-details']",
		".post-content",
		".entry-content",
		"article",
		"main",
		".content",
		"#content",
	}
}

// ResumePageSelectors returns selectors for hosted resumes and portfolio pages.
func ResumePageSelectors() []string {
	return []string{
		"#resume",
		".resume",
		".cv",
		"main",
		"article",
		".content",
		"#content",
	}
}

// Text fetches a page and extracts its readable text with the selectors of
// the detected platform (or the given fallback selectors for unknown sites).
// When opts.UseBrowser is set and the static HTML yields too little text, the
// page is rendered in a headless browser and extracted again.
func Text(ctx context.Context, urlStr string, opts *Options, fallback []string) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return result, err
	}

	result.Text, err = ExtractPageText(urlStr, result.HTML, fallback)
	if err != nil {
		return result, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}

	if !opts.UseBrowser || !ShouldUseBrowser(result.Text) {
		return result, nil
	}

	log := opts.logger().With(zap.String("url", urlStr))
	log.Debug("static page too thin, rendering in browser", zap.Int("text_length", len(result.Text)))

	timeout := opts.BrowserTimeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	html, err := opts.render()(ctx, urlStr, timeout)
	if err != nil {
		// Keep the static result; a thin page is better than none.
		log.Warn("browser rendering failed", zap.Error(err))
		return result, nil
	}

	text, err := ExtractPageText(urlStr, html, fallback)
	if err != nil || len(text) <= len(result.Text) {
		return result, nil
	}
	result.HTML = html
	result.Text = text
	return result, nil
}

// ExtractPageText extracts text using platform-specific selectors for urlStr.
func ExtractPageText(urlStr, html string, fallback []string) (string, error) {
	platform := DetectPlatform(urlStr)
	selectors := PlatformContentSelectors(platform)
	if platform == PlatformUnknown && len(fallback) > 0 {
		selectors = fallback
	}
	return ExtractMainText(html, selectors, PlatformNoiseSelectors(platform)...)
}

// cleanWhitespace normalizes whitespace in text.
func cleanWhitespace(text string) string {
	// Replace multiple whitespace characters with single space
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
