// Package interview implements the mock-interview pipeline: per-session context,
// prompt building, AI response filtering and turn orchestration.
package interview

import (
	"strings"
	"time"
)

// Phase is the coarse stage of a scripted interview conversation.
type Phase string

// Phase constants, in the order the orchestration advances through them.
const (
	PhaseIntroduction Phase = "introduction"
	PhaseTechnical    Phase = "technical"
	PhaseExperience   Phase = "experience"
	PhaseConclusion   Phase = "conclusion"
)

// History-length thresholds at which the orchestration advances the phase.
const (
	TechnicalTurnThreshold  = 2
	ExperienceTurnThreshold = 8
	ConclusionTurnThreshold = 12
)

// phaseOrder ranks phases for monotonic advancement.
var phaseOrder = map[Phase]int{
	PhaseIntroduction: 0,
	PhaseTechnical:    1,
	PhaseExperience:   2,
	PhaseConclusion:   3,
}

// Valid reports whether p is one of the four known phases.
func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// Role identifies the author of a conversation entry.
type Role string

// Role constants
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryEntry is one message in the running conversation.
type HistoryEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile holds candidate details extracted from their messages.
// An empty field has not been extracted yet.
type UserProfile struct {
	Name       string `json:"name,omitempty"`
	Experience string `json:"experience,omitempty"`
	Strengths  string `json:"strengths,omitempty"`
	Weaknesses string `json:"weaknesses,omitempty"`
}

// Interview is the read-only metadata of an interview record.
type Interview struct {
	Title           string `json:"title"`
	Technology      string `json:"technology"`
	ExperienceLevel string `json:"experience_level"`
	DifficultyLevel string `json:"difficulty_level"`
}

// Context is the session-scoped state passed into the prompt builder on every turn.
// It is a value type: every update returns a new Context and leaves the receiver untouched.
type Context struct {
	AskedQuestions []string       `json:"asked_questions"`
	Phase          Phase          `json:"interview_phase"`
	History        []HistoryEntry `json:"conversation_history"`
	Profile        UserProfile    `json:"user_profile"`

	similarity SimilarityStrategy
}

// NewContext returns the empty context an interview session starts with.
func NewContext() Context {
	return Context{
		AskedQuestions: []string{},
		Phase:          PhaseIntroduction,
		History:        []HistoryEntry{},
		similarity:     ContainmentSimilarity{},
	}
}

// WithSimilarity returns a copy of c that uses s for duplicate-question detection.
func (c Context) WithSimilarity(s SimilarityStrategy) Context {
	c.similarity = s
	return c
}

// AddAskedQuestion appends the lower-cased question to the asked list.
func (c Context) AddAskedQuestion(q string) Context {
	asked := make([]string, len(c.AskedQuestions), len(c.AskedQuestions)+1)
	copy(asked, c.AskedQuestions)
	c.AskedQuestions = append(asked, strings.ToLower(q))
	return c
}

// UpdatePhase replaces the phase unconditionally. Monotonic progression is the
// caller's job; see AdvancePhase.
func (c Context) UpdatePhase(p Phase) Context {
	c.Phase = p
	return c
}

// UpdateUserProfile shallow-merges the non-empty fields of partial into the profile.
func (c Context) UpdateUserProfile(partial UserProfile) Context {
	if partial.Name != "" {
		c.Profile.Name = partial.Name
	}
	if partial.Experience != "" {
		c.Profile.Experience = partial.Experience
	}
	if partial.Strengths != "" {
		c.Profile.Strengths = partial.Strengths
	}
	if partial.Weaknesses != "" {
		c.Profile.Weaknesses = partial.Weaknesses
	}
	return c
}

// AddToHistory appends an entry stamped with the current time.
func (c Context) AddToHistory(role Role, content string) Context {
	return c.AddToHistoryAt(role, content, time.Now())
}

// AddToHistoryAt appends an entry with an explicit timestamp.
func (c Context) AddToHistoryAt(role Role, content string, ts time.Time) Context {
	history := make([]HistoryEntry, len(c.History), len(c.History)+1)
	copy(history, c.History)
	c.History = append(history, HistoryEntry{Role: role, Content: content, Timestamp: ts})
	return c
}

// IsQuestionAlreadyAsked reports whether q resembles any previously asked question.
func (c Context) IsQuestionAlreadyAsked(q string) bool {
	s := c.similarity
	if s == nil {
		s = ContainmentSimilarity{}
	}
	lower := strings.ToLower(q)
	for _, asked := range c.AskedQuestions {
		if s.IsSimilar(asked, lower) {
			return true
		}
	}
	return false
}

// AssistantTurns counts assistant entries in the history.
func (c Context) AssistantTurns() int {
	n := 0
	for _, e := range c.History {
		if e.Role == RoleAssistant {
			n++
		}
	}
	return n
}

// RecentHistory returns at most the last n history entries.
func (c Context) RecentHistory(n int) []HistoryEntry {
	if n <= 0 {
		return nil
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// PhaseForTurns maps a history length to the phase its threshold calls for.
func PhaseForTurns(n int) Phase {
	switch {
	case n >= ConclusionTurnThreshold:
		return PhaseConclusion
	case n >= ExperienceTurnThreshold:
		return PhaseExperience
	case n >= TechnicalTurnThreshold:
		return PhaseTechnical
	default:
		return PhaseIntroduction
	}
}

// AdvancePhase moves c to the phase its history length calls for, never backwards.
func AdvancePhase(c Context) Context {
	return advanceTo(c, len(c.History))
}

func advanceTo(c Context, turns int) Context {
	target := PhaseForTurns(turns)
	if phaseOrder[target] > phaseOrder[c.Phase] {
		return c.UpdatePhase(target)
	}
	return c
}
