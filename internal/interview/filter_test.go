package interview

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterResponse_Empty(t *testing.T) {
	assert.Equal(t, FilteredResponse{}, FilterResponse(""))
}

func TestFilterResponse_Rules(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "as an ai prefix",
			raw:  "As an AI, I can ask you questions. What is a closure?",
			want: "I can ask you questions. What is a closure?",
		},
		{
			name: "ai self reference sentence",
			raw:  "I'm an AI language model, so I can't judge you. Tell me about Go channels.",
			want: "Tell me about Go channels.",
		},
		{
			name: "simulated interview caveat",
			raw:  "Since this is a mock interview, take your time. How would you design a cache?",
			want: "How would you design a cache?",
		},
		{
			name: "conducting instruction leak",
			raw:  "You are conducting a technical interview. What is Go?",
			want: "What is Go?",
		},
		{
			name: "context block leak",
			raw:  "Interview Context:\n- Technology: Go\n- Current phase: technical\nWhat is a goroutine?",
			want: "What is a goroutine?",
		},
		{
			name: "role label",
			raw:  "Interviewer: Great answer! Next, explain how maps work.",
			want: "Great answer! Next, explain how maps work.",
		},
		{
			name: "section header",
			raw:  "Instructions:\nWhat is Go's zero value?",
			want: "What is Go's zero value?",
		},
		{
			name: "real interview aside",
			raw:  "In a real interview, you would whiteboard this. Sketch a queue.",
			want: "you would whiteboard this. Sketch a queue.",
		},
		{
			name: "bullets and blank lines",
			raw:  "- What is Go?\n\n\n\n- Why?",
			want: "What is Go? Why?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterResponse(tt.raw).Content)
		})
	}
}

func TestRuleApply(t *testing.T) {
	for _, rule := range DefaultRules {
		t.Run(rule.Name, func(t *testing.T) {
			out, hit := rule.Apply("Plain question about slices?")
			assert.False(t, hit)
			assert.Equal(t, "Plain question about slices?", out)
		})
	}
}

func TestFilterResponse_Classification(t *testing.T) {
	tests := []struct {
		raw          string
		wantCodeTask bool
		wantFollowUp bool
	}{
		{"Can you implement a stack?", true, false},
		{"Can you explain the difference between a slice and an array?", false, true},
		{"Write a function that reverses a string.", true, false},
		{"Write a Go function that reverses a string.", true, false},
		{"Write some Python code to parse JSON.", true, false},
		{"Here is a follow-up: share a code example.", true, true},
		{"Tell me about your last project.", false, false},
	}
	for _, tt := range tests {
		got := FilterResponse(tt.raw)
		assert.Equal(t, tt.wantCodeTask, got.HasCodeTask, tt.raw)
		assert.Equal(t, tt.wantFollowUp, got.HasFollowUp, tt.raw)
	}
}

func TestFilterResponse_ShrinksLongText(t *testing.T) {
	preamble := strings.Repeat("That is a thorough answer and I appreciate the detail you shared. ", 8)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "labeled question",
			raw:  preamble + "\nQuestion: How does the Go scheduler multiplex goroutines onto OS threads?",
			want: "How does the Go scheduler multiplex goroutines onto OS threads?",
		},
		{
			name: "numbered list",
			raw:  preamble + "\n1. Walk through the difference between a slice and an array in Go.\n2. Anything else.",
			want: "Walk through the difference between a slice and an array in Go.",
		},
		{
			name: "can you opener",
			raw:  preamble + "Can you walk me through how you would debug a memory leak in production?",
			want: "Can you walk me through how you would debug a memory leak in production?",
		},
		{
			name: "describe opener",
			raw:  preamble + "Describe the last incident you handled on call.",
			want: "Describe the last incident you handled on call.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Greater(t, utf8.RuneCountInString(tt.raw), maxDisplayLength)
			assert.Equal(t, tt.want, FilterResponse(tt.raw).Content)
		})
	}
}

func TestFilterResponse_LongTextWithoutQuestionKept(t *testing.T) {
	raw := strings.Repeat("That is a thorough answer and I appreciate the detail you shared. ", 9)
	got := FilterResponse(raw)
	assert.Equal(t, strings.TrimSpace(raw), got.Content)
}

func TestFilterResponse_ShortCoreQuestionIgnored(t *testing.T) {
	raw := strings.Repeat("That is a thorough answer and I appreciate the detail you shared. ", 8) + "\nQuestion: Why?"
	got := FilterResponse(raw)
	assert.Greater(t, utf8.RuneCountInString(got.Content), maxDisplayLength)
}

func TestFilterResponse_Idempotent(t *testing.T) {
	inputs := []string{
		"As an AI, I can ask you questions. What is a closure?",
		"I'm an AI language model, so I can't judge you. Tell me about Go channels.",
		"Interviewer: Candidate: What is a mutex?",
		"Interview Context:\n- Difficulty: hard\n\n\n\n- What is Go?",
		strings.Repeat("Thanks for sharing that. ", 30) + "\nQ1: How would you shard a Postgres table by tenant?",
		strings.Repeat("Thanks for sharing that. ", 30),
		"- Interviewer: What is a goroutine?",
		"- Interview Context: Go\nWhat is a goroutine?",
		"* Instructions:\nWhat is Go?",
	}
	for _, in := range inputs {
		once := FilterResponse(in)
		twice := FilterResponse(once.Content)
		assert.Equal(t, once.Content, twice.Content, in)
		for _, rule := range DefaultRules {
			assert.False(t, rule.Pattern.MatchString(once.Content), "rule %s still matches %q", rule.Name, once.Content)
		}
	}
}

func TestFilterResponse_BulletedMetaLines(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"- Interviewer: What is a goroutine?", "What is a goroutine?"},
		{"- Interview Context: Go\nWhat is a goroutine?", "What is a goroutine?"},
		{"* Instructions:\nWhat is Go?", "What is Go?"},
		{"Interviewer: - Candidate: What is a channel?", "What is a channel?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilterResponse(tt.raw).Content, tt.raw)
	}
}

func TestRule_Apply(t *testing.T) {
	r := Rule{Name: "shout", Pattern: regexp.MustCompile(`!+`), Replacement: "."}

	out, hit := r.Apply("Go!!")
	assert.Equal(t, "Go.", out)
	assert.True(t, hit)

	out, hit = r.Apply("Go.")
	assert.Equal(t, "Go.", out)
	assert.False(t, hit)
}

func TestFilterResponse_NoLeftoverMetaCommentary(t *testing.T) {
	raw := "As an AI, I'll simulate a tough interviewer. Interviewer: Since this is a practice interview, relax.\n" +
		"Instructions:\nCan you also explain how the GC works?"
	got := FilterResponse(raw)

	for _, rule := range DefaultRules {
		assert.False(t, rule.Pattern.MatchString(got.Content), "rule %s still matches %q", rule.Name, got.Content)
	}
	assert.True(t, got.HasFollowUp)
}

func TestFilter_CustomRulesAndHook(t *testing.T) {
	rules := []Rule{
		{Name: "emoji", Pattern: regexp.MustCompile(`:\)`)},
		{Name: "shout", Pattern: regexp.MustCompile(`!+`), Replacement: "."},
	}
	var hits []string
	f := NewFilter(rules)
	f.OnRuleHit = func(rule string) { hits = append(hits, rule) }

	got := f.Apply("Welcome :) What is Go!!")

	assert.Equal(t, "Welcome What is Go.", got.Content)
	assert.Equal(t, []string{"emoji", "shout"}, hits)
}
