package interview

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-prep/internal/prompts"
)

const (
	promptFile = "interview.json"

	// recentTurnLimit is how many history entries the follow-up prompt carries.
	recentTurnLimit = 4
)

// BuildPrompt renders the prompt for the next interviewer turn.
//
// An introduction-phase context with no history yields the opening greeting.
// A non-empty userMessage yields the follow-up prompt. Anything else yields
// only the metadata/context block.
func BuildPrompt(iv Interview, c Context, userMessage string) string {
	block := buildContextBlock(iv, c)

	if c.Phase == PhaseIntroduction && len(c.History) == 0 {
		greeting := prompts.Format(prompts.MustGet(promptFile, "opening-greeting"), map[string]string{
			"Title":      iv.Title,
			"Technology": iv.Technology,
		})
		return block + "\n" + greeting
	}

	if userMessage != "" {
		followUp := prompts.Format(prompts.MustGet(promptFile, "follow-up"), map[string]string{
			"Profile":         formatProfile(c.Profile),
			"RecentTurns":     formatTurns(c.RecentHistory(recentTurnLimit)),
			"UserMessage":     userMessage,
			"PhaseGuidance":   phaseGuidance(iv, c.Phase),
			"DifficultyLevel": iv.DifficultyLevel,
			"ExperienceLevel": iv.ExperienceLevel,
		})
		return block + "\n" + followUp
	}

	return block
}

func buildContextBlock(iv Interview, c Context) string {
	return prompts.Format(prompts.MustGet(promptFile, "context-block"), map[string]string{
		"Title":           iv.Title,
		"Technology":      iv.Technology,
		"ExperienceLevel": iv.ExperienceLevel,
		"DifficultyLevel": iv.DifficultyLevel,
		"Phase":           string(c.Phase),
		"AskedQuestions":  formatAsked(c.AskedQuestions),
	})
}

func formatAsked(asked []string) string {
	if len(asked) == 0 {
		return "[]"
	}
	quoted := make([]string, len(asked))
	for i, q := range asked {
		quoted[i] = fmt.Sprintf("%q", q)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatProfile(p UserProfile) string {
	var sb strings.Builder
	if p.Name != "" {
		sb.WriteString(fmt.Sprintf("- Name: %s\n", p.Name))
	}
	if p.Experience != "" {
		sb.WriteString(fmt.Sprintf("- Experience: %s\n", p.Experience))
	}
	if p.Strengths != "" {
		sb.WriteString(fmt.Sprintf("- Strengths: %s\n", p.Strengths))
	}
	if p.Weaknesses != "" {
		sb.WriteString(fmt.Sprintf("- Weaknesses: %s\n", p.Weaknesses))
	}
	if sb.Len() == 0 {
		return "- Nothing known yet"
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatTurns(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return "(no previous turns)"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		speaker := "Interviewer"
		if e.Role == RoleUser {
			speaker = "Candidate"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, e.Content))
	}
	return strings.Join(lines, "\n")
}

func phaseGuidance(iv Interview, p Phase) string {
	key := "phase-" + string(p)
	tmpl, err := prompts.Get(promptFile, key)
	if err != nil {
		// Unknown phase values are accepted by the setter; fall back to the
		// technical guidance rather than failing the turn.
		tmpl = prompts.MustGet(promptFile, "phase-technical")
	}
	return prompts.Format(tmpl, map[string]string{"Technology": iv.Technology})
}
