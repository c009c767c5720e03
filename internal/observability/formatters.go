// Package observability provides structured logging, Prometheus metrics and the
// formatted output used by the CLI in verbose mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/interview-prep/internal/interview"
	"github.com/jonathan/interview-prep/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, chunk := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, chunk)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line into rune-counted chunks of at most width.
func wrap(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}
	var chunks []string
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintFilteredResponse outputs the cleaned reply and its classification flags.
func (p *Printer) PrintFilteredResponse(fr interview.FilteredResponse) {
	var sb strings.Builder
	sb.WriteString(fr.Content)
	sb.WriteString("\n\n")

	flags := []string{}
	if fr.HasCodeTask {
		flags = append(flags, "✓code-task")
	}
	if fr.HasFollowUp {
		flags = append(flags, "✓follow-up")
	}
	if len(flags) == 0 {
		flags = append(flags, "no flags")
	}
	sb.WriteString("[" + strings.Join(flags, " ") + "]")

	p.printBox("FILTERED RESPONSE", sb.String())
}

// PrintContext outputs a summary of an interview context.
func (p *Printer) PrintContext(c interview.Context) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Phase:    %s\n", c.Phase))
	sb.WriteString(fmt.Sprintf("Turns:    %d (%d from interviewer)\n", len(c.History), c.AssistantTurns()))

	if c.Profile != (interview.UserProfile{}) {
		sb.WriteString("\nCandidate:\n")
		if c.Profile.Name != "" {
			sb.WriteString(fmt.Sprintf("  • Name: %s\n", c.Profile.Name))
		}
		if c.Profile.Experience != "" {
			sb.WriteString(fmt.Sprintf("  • Experience: %s\n", c.Profile.Experience))
		}
		if c.Profile.Strengths != "" {
			sb.WriteString(fmt.Sprintf("  • Strengths: %s\n", c.Profile.Strengths))
		}
		if c.Profile.Weaknesses != "" {
			sb.WriteString(fmt.Sprintf("  • Weaknesses: %s\n", c.Profile.Weaknesses))
		}
	}

	if len(c.AskedQuestions) > 0 {
		sb.WriteString("\nQuestions asked:\n")
		count := min(len(c.AskedQuestions), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, truncate(c.AskedQuestions[i], 48)))
		}
		if len(c.AskedQuestions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(c.AskedQuestions)-maxItemsToShow))
		}
	}

	p.printBox("INTERVIEW CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCritique outputs a resume critique.
func (p *Printer) PrintCritique(c *types.ResumeCritique) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %d/100\n\n", c.OverallScore))
	if c.Summary != "" {
		sb.WriteString(c.Summary)
		sb.WriteString("\n\n")
	}

	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}
	writeList("Strengths", c.Strengths)
	writeList("Improvements", c.Improvements)

	if len(c.SectionFeedback) > 0 {
		sections := make([]string, 0, len(c.SectionFeedback))
		for s := range c.SectionFeedback {
			sections = append(sections, s)
		}
		sort.Strings(sections)
		sb.WriteString("By section:\n")
		for _, s := range sections {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", s, c.SectionFeedback[s]))
		}
	}

	p.printBox("RESUME CRITIQUE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs the evaluation of a challenge submission.
func (p *Printer) PrintFeedback(f *types.ChallengeFeedback) {
	if f == nil {
		return
	}

	var sb strings.Builder
	result := "✗ not passed"
	if f.Passed {
		result = "✓ passed"
	}
	sb.WriteString(fmt.Sprintf("%s  (score %d/100)\n\n", result, f.Score))
	sb.WriteString(f.Feedback)
	if len(f.Suggestions) > 0 {
		sb.WriteString("\n\nSuggestions:\n")
		for _, s := range f.Suggestions {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}

	p.printBox("CHALLENGE FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportResult outputs a question-bank import summary.
func (p *Printer) PrintImportResult(r *types.ImportResult) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages fetched:     %d\n", r.Fetched))
	sb.WriteString(fmt.Sprintf("Questions found:   %d\n", r.Extracted))
	sb.WriteString(fmt.Sprintf("Added to bank:     %d\n", r.Added))
	sb.WriteString(fmt.Sprintf("Skipped as dupes:  %d", r.Duplicates))
	if len(r.Failed) > 0 {
		sb.WriteString("\n\nFailed:\n")
		for _, u := range r.Failed {
			sb.WriteString(fmt.Sprintf("  • %s\n", truncate(u, 50)))
		}
	}

	p.printBox("QUESTION IMPORT", strings.TrimSuffix(sb.String(), "\n"))
}
