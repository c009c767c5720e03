package critique

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
	embedded "github.com/jonathan/interview-prep/schemas"
)

const (
	// MinResumeLength is the shortest resume text worth sending to the model.
	MinResumeLength = 100
	// MaxResumeLength caps the text sent to the model.
	MaxResumeLength = 30000
)

// JSONGenerator produces structured AI output. llm.Client satisfies it.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

// PageFetcher loads a page and extracts its text. fetch.Text satisfies it.
type PageFetcher func(ctx context.Context, url string, opts *fetch.Options, fallback []string) (*fetch.Result, error)

// Critic reviews resumes.
type Critic struct {
	gen       JSONGenerator
	tier      llm.ModelTier
	fetchPage PageFetcher
	fetchOpts *fetch.Options
	logger    *zap.Logger
}

// Option configures a Critic.
type Option func(*Critic)

// WithPageFetcher replaces the page loader used by CritiqueURL.
func WithPageFetcher(f PageFetcher) Option {
	return func(c *Critic) { c.fetchPage = f }
}

// WithFetchOptions sets the options passed to the page loader.
func WithFetchOptions(opts *fetch.Options) Option {
	return func(c *Critic) { c.fetchOpts = opts }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Critic) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCritic creates a Critic backed by gen.
func NewCritic(gen JSONGenerator, opts ...Option) *Critic {
	c := &Critic{
		gen:       gen,
		tier:      llm.TierAdvanced,
		fetchPage: fetch.Text,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetchOpts == nil {
		c.fetchOpts = fetch.DefaultOptions()
		c.fetchOpts.UseBrowser = true
		c.fetchOpts.BrowserTimeout = 45 * time.Second
		c.fetchOpts.Logger = c.logger
	}
	return c
}

// Critique reviews resume text, optionally against a target role.
func (c *Critic) Critique(ctx context.Context, resumeText, targetRole string) (*types.ResumeCritique, error) {
	resumeText = strings.TrimSpace(resumeText)
	if len(resumeText) < MinResumeLength {
		return nil, &InputError{Message: "resume text is too short to review"}
	}
	if len(resumeText) > MaxResumeLength {
		resumeText = strings.ToValidUTF8(resumeText[:MaxResumeLength], "")
	}

	prompt, err := buildPrompt(resumeText, targetRole)
	if err != nil {
		return nil, &Error{Message: "failed to build prompt", Cause: err}
	}

	raw, err := c.gen.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		return nil, &Error{Message: "failed to generate critique", Cause: err}
	}

	result, err := parseCritique(raw)
	if err != nil {
		c.logger.Warn("discarding malformed critique", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("resume critiqued",
		zap.Int("overall_score", result.OverallScore),
		zap.Int("improvements", len(result.Improvements)))
	return result, nil
}

// CritiqueURL fetches a hosted resume or portfolio page and reviews its text.
// JavaScript-rendered pages are rendered in a headless browser when the static
// HTML carries too little text.
func (c *Critic) CritiqueURL(ctx context.Context, url, targetRole string) (*types.ResumeCritique, error) {
	page, err := c.fetchPage(ctx, url, c.fetchOpts, fetch.ResumePageSelectors())
	if err != nil {
		return nil, &InputError{Message: "failed to load resume page", Cause: err}
	}
	c.logger.Debug("fetched resume page", zap.String("url", url), zap.Int("text_length", len(page.Text)))
	return c.Critique(ctx, page.Text, targetRole)
}

func buildPrompt(resumeText, targetRole string) (string, error) {
	role := ""
	if r := strings.TrimSpace(targetRole); r != "" {
		role = " for a " + r + " position"
	}
	description, err := prompts.Render("critique.json", "critique-description", map[string]string{"TargetRole": role})
	if err != nil {
		return "", err
	}
	return llm.BuildExtractionPrompt(llm.ResumeCritiqueSchema(description), resumeText), nil
}

func parseCritique(raw string) (*types.ResumeCritique, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(embedded.ResumeCritique, cleaned); err != nil {
		return nil, &Error{Message: "critique does not match schema", Cause: err}
	}

	var result types.ResumeCritique
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &Error{Message: "failed to decode critique", Cause: err}
	}
	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	return &result, nil
}
