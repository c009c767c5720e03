package interview

import (
	"regexp"
	"strings"
)

// sentencePattern matches a run of text plus its trailing terminators.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

func splitSentences(text string) []string {
	var out []string
	for _, frag := range sentencePattern.FindAllString(text, -1) {
		if frag = strings.TrimSpace(frag); frag != "" {
			out = append(out, frag)
		}
	}
	return out
}

// ExtractQuestion returns the sentence of an assistant reply that best
// represents the question being asked: the first sentence containing '?',
// otherwise the last sentence, otherwise the text itself.
func ExtractQuestion(text string) string {
	sentences := splitSentences(text)
	for _, s := range sentences {
		if strings.Contains(s, "?") {
			return s
		}
	}
	if len(sentences) > 0 {
		return sentences[len(sentences)-1]
	}
	return text
}

// ExtractQuestions returns every sentence of text that ends in a question mark.
func ExtractQuestions(text string) []string {
	var out []string
	for _, s := range splitSentences(text) {
		if strings.Contains(s, "?") {
			out = append(out, s)
		}
	}
	return out
}
