package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("interview.json", "opening-greeting")
	require.NoError(t, err)
	assert.Contains(t, prompt, "introduce themselves")

	_, err = Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = Get("interview.json", "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nonexistent-key"`)
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
}

func TestEmbeddedPrompts(t *testing.T) {
	want := map[string][]string{
		"interview.json": {"context-block", "follow-up", "opening-greeting", "phase-conclusion", "phase-experience", "phase-introduction", "phase-technical"},
		"critique.json":  {"critique-description"},
		"challenge.json": {"evaluate-submission"},
	}
	for file, keys := range want {
		got, err := List(file)
		require.NoError(t, err, file)
		assert.Subset(t, got, keys, file)
		for _, key := range got {
			assert.NotEmpty(t, MustGet(file, key), "%s/%s", file, key)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "fills placeholders",
			template: "Interview for {{.Title}} using {{.Technology}}",
			data:     map[string]string{"Title": "Backend Engineer", "Technology": "Go"},
			want:     "Interview for Backend Engineer using Go",
		},
		{
			name:     "no placeholders",
			template: "Greet the candidate.",
			data:     map[string]string{"Title": "x"},
			want:     "Greet the candidate.",
		},
		{
			name:     "empty data leaves placeholders",
			template: "Hello {{.Name}}",
			want:     "Hello {{.Name}}",
		},
		{
			name:     "value containing a placeholder is not expanded",
			template: "Message: {{.UserMessage}} / Title: {{.Title}}",
			data:     map[string]string{"UserMessage": "what is {{.Title}}?", "Title": "SRE"},
			want:     "Message: what is {{.Title}}? / Title: SRE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"Title", "Code"}, Placeholders("{{.Title}} {{.Code}} {{.Title}} {{ .Spaced }} {{.}}"))
	assert.Empty(t, Placeholders("plain text"))
}

func TestRender(t *testing.T) {
	out, err := Render("critique.json", "critique-description", map[string]string{"TargetRole": ""})
	require.NoError(t, err)
	assert.NotContains(t, out, "{{.")

	_, err = Render("challenge.json", "evaluate-submission", map[string]string{"Title": "Two Sum"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code")
	assert.Contains(t, err.Error(), "Language")
}
