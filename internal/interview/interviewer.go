package interview

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/interview-prep/internal/llm"
)

// Generator produces raw AI text for a prompt. llm.Client satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

// MessageStore persists the chat log of an interview.
type MessageStore interface {
	AppendMessage(ctx context.Context, interviewID uuid.UUID, role string, content string) error
}

// Recorder receives turn-level counters. observability.Metrics satisfies it.
type Recorder interface {
	IncTurn(kind, phase, outcome string)
	IncDuplicateQuestion()
	IncFilterRuleHit(rule string)
}

type nopRecorder struct{}

func (nopRecorder) IncTurn(string, string, string) {}
func (nopRecorder) IncDuplicateQuestion()          {}
func (nopRecorder) IncFilterRuleHit(string)        {}

// TurnResult is the outcome of a committed interview turn.
type TurnResult struct {
	// Reply is the filtered and formatted interviewer message, as persisted.
	Reply    string
	Filtered FilteredResponse
	// Question is the question extracted from the reply.
	Question string
	// Duplicate is true when Question resembled one already asked and was not recorded.
	Duplicate bool
	Phase     Phase
	Context   Context
}

// Interviewer runs interview turns against a session: prompt, AI call, filter,
// format and persistence. The session context only changes when a turn succeeds.
type Interviewer struct {
	gen      Generator
	store    MessageStore
	filter   *Filter
	tier     llm.ModelTier
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// Option configures an Interviewer.
type Option func(*Interviewer)

// WithTier sets the model tier used for interviewer turns.
func WithTier(tier llm.ModelTier) Option {
	return func(iv *Interviewer) { iv.tier = tier }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(iv *Interviewer) {
		if logger != nil {
			iv.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(iv *Interviewer) {
		if r != nil {
			iv.recorder = r
		}
	}
}

// WithRules replaces the response filter rules.
func WithRules(rules []Rule) Option {
	return func(iv *Interviewer) { iv.filter = NewFilter(rules) }
}

// NewInterviewer creates an Interviewer. gen and store are required.
func NewInterviewer(gen Generator, store MessageStore, opts ...Option) *Interviewer {
	iv := &Interviewer{
		gen:      gen,
		store:    store,
		filter:   NewFilter(nil),
		tier:     llm.TierStandard,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(iv)
	}
	iv.filter.OnRuleHit = iv.recorder.IncFilterRuleHit
	return iv
}

// Start produces the opening greeting for a session with no history.
func (iv *Interviewer) Start(ctx context.Context, s *Session) (*TurnResult, error) {
	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	var committed *Context
	defer func() { s.end(committed) }()

	if len(c.History) > 0 {
		return nil, ErrAlreadyStarted
	}

	log := iv.logger.With(zap.String("interview_id", s.ID.String()), zap.String("turn", "start"))

	prompt := BuildPrompt(s.Interview, c, "")
	reply, fr, err := iv.generate(ctx, prompt)
	if err != nil {
		iv.recorder.IncTurn("start", string(c.Phase), "error")
		log.Warn("greeting generation failed", zap.Error(err))
		return nil, &TurnError{Stage: StageGenerate, Message: "failed to generate greeting", Cause: err}
	}

	if err := iv.store.AppendMessage(ctx, s.ID, string(RoleAssistant), reply); err != nil {
		iv.recorder.IncTurn("start", string(c.Phase), "error")
		log.Warn("failed to persist greeting", zap.Error(err))
		return nil, &TurnError{Stage: StagePersistAssistant, Message: "failed to save greeting", Cause: err}
	}

	next := c.AddToHistoryAt(RoleAssistant, reply, iv.now())
	result := iv.commitQuestion(next, fr, log)
	committed = &result.Context

	iv.recorder.IncTurn("start", string(result.Phase), "ok")
	log.Debug("interview started", zap.String("phase", string(result.Phase)))
	return result, nil
}

// Reply handles a candidate message and produces the next interviewer turn.
//
// The user message is persisted first. If the AI call or the persistence of
// the reply then fails, the session context is left untouched and the
// returned TurnError reports that the user message was already saved.
func (iv *Interviewer) Reply(ctx context.Context, s *Session, userMessage string) (*TurnResult, error) {
	userMessage = strings.TrimSpace(userMessage)
	if userMessage == "" {
		return nil, ErrEmptyMessage
	}

	c, err := s.begin()
	if err != nil {
		return nil, err
	}
	var committed *Context
	defer func() { s.end(committed) }()

	log := iv.logger.With(zap.String("interview_id", s.ID.String()), zap.String("turn", "reply"))
	received := iv.now()

	if err := iv.store.AppendMessage(ctx, s.ID, string(RoleUser), userMessage); err != nil {
		iv.recorder.IncTurn("reply", string(c.Phase), "error")
		log.Warn("failed to persist user message", zap.Error(err))
		return nil, &TurnError{Stage: StagePersistUser, Message: "failed to save message", Cause: err}
	}

	// The prompt sees the profile and phase as they will be once this message
	// is part of the history.
	staged := c.UpdateUserProfile(ExtractProfile(userMessage))
	prompt := BuildPrompt(s.Interview, advanceTo(staged, len(staged.History)+1), userMessage)

	reply, fr, err := iv.generate(ctx, prompt)
	if err != nil {
		iv.recorder.IncTurn("reply", string(c.Phase), "error")
		log.Warn("reply generation failed", zap.Error(err))
		return nil, &TurnError{
			Stage:                StageGenerate,
			Message:              "failed to generate reply",
			Cause:                err,
			UserMessagePersisted: true,
		}
	}

	if err := iv.store.AppendMessage(ctx, s.ID, string(RoleAssistant), reply); err != nil {
		iv.recorder.IncTurn("reply", string(c.Phase), "error")
		log.Warn("failed to persist reply", zap.Error(err))
		return nil, &TurnError{
			Stage:                StagePersistAssistant,
			Message:              "failed to save reply",
			Cause:                err,
			UserMessagePersisted: true,
		}
	}

	next := staged.
		AddToHistoryAt(RoleUser, userMessage, received).
		AddToHistoryAt(RoleAssistant, reply, iv.now())
	result := iv.commitQuestion(next, fr, log)
	committed = &result.Context

	iv.recorder.IncTurn("reply", string(result.Phase), "ok")
	log.Debug("interview turn completed",
		zap.String("phase", string(result.Phase)),
		zap.Int("history", len(result.Context.History)))
	return result, nil
}

func (iv *Interviewer) generate(ctx context.Context, prompt string) (string, FilteredResponse, error) {
	raw, err := iv.gen.GenerateContent(ctx, prompt, iv.tier)
	if err != nil {
		return "", FilteredResponse{}, err
	}
	fr := iv.filter.Apply(raw)
	return FormatResponse(fr), fr, nil
}

// commitQuestion records the question asked by the new reply and advances the phase.
func (iv *Interviewer) commitQuestion(next Context, fr FilteredResponse, log *zap.Logger) *TurnResult {
	result := &TurnResult{
		Filtered: fr,
		Question: ExtractQuestion(fr.Content),
	}
	if len(next.History) > 0 {
		result.Reply = next.History[len(next.History)-1].Content
	}

	switch {
	case result.Question == "":
	case next.IsQuestionAlreadyAsked(result.Question):
		result.Duplicate = true
		iv.recorder.IncDuplicateQuestion()
		log.Info("interviewer repeated a question", zap.String("question", result.Question))
	default:
		next = next.AddAskedQuestion(result.Question)
	}

	next = AdvancePhase(next)
	result.Phase = next.Phase
	result.Context = next
	return result
}
