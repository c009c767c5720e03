package interview

import (
	"regexp"
	"strings"
)

// FollowUpPrompt is appended to replies that invite the candidate to elaborate.
const FollowUpPrompt = "*Feel free to elaborate on your answer or ask for clarification before moving on.*"

var (
	codeWord       = regexp.MustCompile(`(?i)code`)
	boldedCodeWord = regexp.MustCompile(`(?i)\*\*(code)\*\*`)
)

// FormatResponse applies light Markdown emphasis based on the classification flags.
func FormatResponse(fr FilteredResponse) string {
	content := fr.Content
	if fr.HasCodeTask {
		content = codeWord.ReplaceAllString(content, "**$0**")
	}
	if fr.HasFollowUp {
		content += "\n\n" + FollowUpPrompt
	}
	return content
}

// unformat reverses FormatResponse so persisted replies read like the
// filtered content live turns work from.
func unformat(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, FollowUpPrompt))
	return boldedCodeWord.ReplaceAllString(s, "$1")
}
