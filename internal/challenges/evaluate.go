package challenges

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
	embedded "github.com/jonathan/interview-prep/schemas"
)

// JSONGenerator produces structured AI output. llm.Client satisfies it.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

// Evaluator grades challenge submissions.
type Evaluator struct {
	gen    JSONGenerator
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewEvaluator creates an Evaluator. A nil logger disables logging.
func NewEvaluator(gen JSONGenerator, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{gen: gen, tier: llm.TierAdvanced, logger: logger}
}

// Evaluate asks the model to grade a submission and returns schema-checked feedback.
func (e *Evaluator) Evaluate(ctx context.Context, challenge db.Challenge, sub types.SubmitChallengeRequest) (*types.ChallengeFeedback, error) {
	if strings.TrimSpace(sub.Code) == "" {
		return nil, &EvaluationError{Message: "submission code is empty"}
	}

	prompt, err := buildEvaluationPrompt(challenge, sub)
	if err != nil {
		return nil, &EvaluationError{Message: "failed to build prompt", Cause: err}
	}

	raw, err := e.gen.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, &EvaluationError{Message: "failed to generate feedback", Cause: err}
	}

	feedback, err := parseFeedback(raw)
	if err != nil {
		e.logger.Warn("discarding malformed challenge feedback",
			zap.String("challenge_id", challenge.ID.String()), zap.Error(err))
		return nil, err
	}

	e.logger.Debug("submission graded",
		zap.String("challenge_id", challenge.ID.String()),
		zap.Bool("passed", feedback.Passed),
		zap.Int("score", feedback.Score))
	return feedback, nil
}

func buildEvaluationPrompt(challenge db.Challenge, sub types.SubmitChallengeRequest) (string, error) {
	return prompts.Render("challenge.json", "evaluate-submission", map[string]string{
		"Title":       challenge.Title,
		"Difficulty":  challenge.Difficulty,
		"Language":    sub.Language,
		"Description": challenge.Description,
		"Code":        sub.Code,
	})
}

// parseFeedback cleans, validates and decodes the model's JSON.
func parseFeedback(raw string) (*types.ChallengeFeedback, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &EvaluationError{Message: "model returned no JSON"}
	}
	if err := schemas.Validate(embedded.ChallengeFeedback, cleaned); err != nil {
		return nil, &EvaluationError{Message: "feedback does not match schema", Cause: err}
	}

	var feedback types.ChallengeFeedback
	if err := json.Unmarshal([]byte(cleaned), &feedback); err != nil {
		return nil, &EvaluationError{Message: "failed to decode feedback", Cause: err}
	}
	if feedback.Suggestions == nil {
		feedback.Suggestions = []string{}
	}
	return &feedback, nil
}
