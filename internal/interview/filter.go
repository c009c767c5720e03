package interview

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule is one substitution applied to raw AI text before display.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply runs the rule over text and reports whether it matched.
func (r Rule) Apply(text string) (string, bool) {
	out := r.Pattern.ReplaceAllString(text, r.Replacement)
	return out, out != text
}

// DefaultRules removes AI meta-commentary, simulated-interview caveats,
// leaked prompt text and bare section headers. Rules run in order.
var DefaultRules = []Rule{
	{
		Name:    "ai-self-reference",
		Pattern: regexp.MustCompile(`(?i)\b(?:i'm|i am) (?:just |only )?an? (?:ai|artificial intelligence)(?: language model| assistant| model| interviewer)?\b[^.!?\n]*[.!?]?[ \t]*`),
	},
	{
		Name:    "as-an-ai",
		Pattern: regexp.MustCompile(`(?i)\bas an (?:ai|artificial intelligence)(?: language model| assistant| model| interviewer)?,?[ \t]*`),
	},
	{
		Name:    "simulated-interview-caveat",
		Pattern: regexp.MustCompile(`(?i)\b(?:(?:since|because|remember,?|note that|please note,?)\s+)?this is (?:just |only )?a (?:simulated|mock|practice|hypothetical|pretend) interview\b[^.!?\n]*[.!?]?[ \t]*`),
	},
	{
		Name:    "roleplay-announcement",
		Pattern: regexp.MustCompile(`(?i)\b(?:i'll|i will|let me|i'm going to|i am going to) (?:simulate|pretend to be|act as|role-?play as|play the role of)\b[^.!?\n]*[.!?]?[ \t]*`),
	},
	{
		Name:    "real-interview-aside",
		Pattern: regexp.MustCompile(`(?i)\bin a (?:real|actual) interview(?: setting)?,?[ \t]*`),
	},
	{
		Name:    "conducting-instruction",
		Pattern: regexp.MustCompile(`(?i)\byou are (?:conducting|an interviewer|the interviewer|acting as)\b[^.!?\n]*[.!?]?[ \t]*`),
	},
	{
		Name:    "interview-context-leak",
		Pattern: regexp.MustCompile(`(?im)^[ \t]*interview context:.*$`),
	},
	{
		Name:    "context-field-leak",
		Pattern: regexp.MustCompile(`(?im)^[ \t]*-?[ \t]*(?:technology|candidate experience level|experience level|difficulty|current phase|questions already asked|candidate profile so far)[ \t]*:.*$`),
	},
	{
		Name:    "instruction-reference",
		Pattern: regexp.MustCompile(`(?i)\b(?:based on|according to|following) (?:the|my) (?:instructions|system prompt|guidelines|prompt)\b,?[ \t]*`),
	},
	{
		Name:    "role-label",
		Pattern: regexp.MustCompile(`(?im)^[ \t]*(?:\**(?:interviewer|candidate|assistant|system|user|ai)\**[ \t]*:\**[ \t]*)+`),
	},
	{
		Name:    "section-header",
		Pattern: regexp.MustCompile(`(?im)^[ \t]*(?:#{1,6}[ \t]*)?\**(?:context|instructions|guidelines|notes?|response|output|system|recent conversation|candidate's latest message)\**[ \t]*:?\**[ \t]*$`),
	},
}

var (
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	leadingBullets  = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	codeTaskPattern = regexp.MustCompile(`(?i)\b(?:write\b[^.?!\n]{0,40}?\b(?:code|function|method|algorithm)|implement|code (?:challenge|example|snippet))`)
	followUpPattern = regexp.MustCompile(`(?i)\b(?:follow[- ]up|next question|can you (?:also|explain|tell))`)
)

// coreQuestionPatterns shrink long replies to their main question, tried in order.
// Capture group 1, when present, is the extracted text.
var coreQuestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)(?:^|\b)(?:question|q\d+)[ \t]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+(.+)$`),
	regexp.MustCompile(`(?i)\bcan you[^?]*\?`),
	regexp.MustCompile(`(?i)\bhow would you[^?]*\?`),
	regexp.MustCompile(`(?i)\bwhat (?:is|are|would|do)\b[^?]*\?`),
	regexp.MustCompile(`(?i)\bexplain\b[^.?!]*[.?!]`),
	regexp.MustCompile(`(?i)\bdescribe\b[^.?!]*[.?!]`),
}

const (
	// maxDisplayLength is the cleaned length above which a reply is shrunk.
	maxDisplayLength = 500
	// minCoreQuestionLength is the shortest extraction accepted as the core question.
	minCoreQuestionLength = 20
	// maxCleanPasses bounds the bullet strip and rule loop.
	maxCleanPasses = 4
)

// FilteredResponse is cleaned AI text plus its content classification.
type FilteredResponse struct {
	Content     string `json:"content"`
	HasCodeTask bool   `json:"has_code_task"`
	HasFollowUp bool   `json:"has_follow_up"`
}

// Filter cleans raw AI replies. The zero value is not usable; use NewFilter.
type Filter struct {
	rules []Rule
	// OnRuleHit, if set, is called with the name of every rule that matched.
	OnRuleHit func(rule string)
}

// NewFilter returns a filter applying rules in order. Nil rules means DefaultRules.
func NewFilter(rules []Rule) *Filter {
	if rules == nil {
		rules = DefaultRules
	}
	return &Filter{rules: rules}
}

var defaultFilter = NewFilter(nil)

// FilterResponse cleans raw with the default rule set.
func FilterResponse(raw string) FilteredResponse {
	return defaultFilter.Apply(raw)
}

// Apply strips meta-commentary from raw, classifies it and, when it is long,
// reduces it to its core question. It never fails.
func (f *Filter) Apply(raw string) FilteredResponse {
	if raw == "" {
		return FilteredResponse{Content: raw}
	}

	text := f.clean(raw)
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	result := FilteredResponse{
		HasCodeTask: codeTaskPattern.MatchString(text),
		HasFollowUp: followUpPattern.MatchString(text),
	}

	if utf8.RuneCountInString(text) > maxDisplayLength {
		if core, ok := extractCoreQuestion(text); ok {
			text = core
		}
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	result.Content = strings.TrimSpace(text)

	return result
}

// clean strips list bullets and runs the rules until the text settles, so
// line-anchored rules see bare lines even when a removal exposes a new bullet.
func (f *Filter) clean(text string) string {
	for range maxCleanPasses {
		prev := text
		text = leadingBullets.ReplaceAllString(text, "")
		for _, rule := range f.rules {
			var hit bool
			text, hit = rule.Apply(text)
			if hit && f.OnRuleHit != nil {
				f.OnRuleHit(rule.Name)
			}
		}
		if text == prev {
			break
		}
	}
	return text
}

func extractCoreQuestion(text string) (string, bool) {
	for _, re := range coreQuestionPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := m[0]
		if len(m) > 1 {
			candidate = m[1]
		}
		candidate = strings.TrimSpace(candidate)
		if utf8.RuneCountInString(candidate) > minCoreQuestionLength {
			return candidate, true
		}
	}
	return "", false
}
