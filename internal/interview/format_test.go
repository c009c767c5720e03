package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatResponse(t *testing.T) {
	tests := []struct {
		name string
		in   FilteredResponse
		want string
	}{
		{
			name: "no flags",
			in:   FilteredResponse{Content: "Write code later."},
			want: "Write code later.",
		},
		{
			name: "code task bolds every code",
			in:   FilteredResponse{Content: "Write CODE for a Code review", HasCodeTask: true},
			want: "Write **CODE** for a **Code** review",
		},
		{
			name: "follow up appends prompt",
			in:   FilteredResponse{Content: "Can you explain?", HasFollowUp: true},
			want: "Can you explain?\n\n" + FollowUpPrompt,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatResponse(tt.in))
		})
	}
}

func TestFormatResponse_FollowUpOnce(t *testing.T) {
	out := FormatResponse(FilteredResponse{Content: "Next question: code a queue.", HasCodeTask: true, HasFollowUp: true})
	assert.Equal(t, 1, strings.Count(out, FollowUpPrompt))
	assert.Contains(t, out, "**code**")
}

func TestUnformat(t *testing.T) {
	tests := []FilteredResponse{
		{Content: "Write CODE for a Code review", HasCodeTask: true},
		{Content: "Can you explain the codebase?", HasCodeTask: true, HasFollowUp: true},
		{Content: "Tell me about yourself.", HasFollowUp: true},
		{Content: "Plain text."},
	}
	for _, fr := range tests {
		assert.Equal(t, fr.Content, unformat(FormatResponse(fr)), fr.Content)
	}
}
