package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.glassdoor.com/Interview/Stripe-Interview-Questions-E671932.htm", PlatformGlassdoor},
		{"https://glassdoor.co.uk/Interview/foo.htm", PlatformGlassdoor},
		{"https://leetcode.com/discuss/interview-experience/123/google-l4", PlatformLeetCode},
		{"https://www.reddit.com/r/cscareerquestions/comments/abc/meta_onsite/", PlatformReddit},
		{"https://old.reddit.com/r/golang/comments/xyz", PlatformReddit},
		{"https://medium.com/@someone/my-amazon-interview-1234", PlatformMedium},
		{"https://engineering.medium.com/post", PlatformMedium},
		{"https://example.com/blog/interview", PlatformUnknown},
		{"https://notreddit.com/r/x", PlatformUnknown},
		{"https://leetcode.com.evil.io/discuss", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors_LeetCode(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformLeetCode)
	assert.Contains(t, selectors, ".discuss-markdown-container")
	assert.Contains(t, selectors, "main")
}

func TestPlatformContentSelectors_Unknown(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformUnknown)
	// Falls back to generic interview write-up selectors
	assert.Equal(t, InterviewExperienceSelectors(), selectors)
}

func TestPlatformNoiseSelectors_Glassdoor(t *testing.T) {
	selectors := PlatformNoiseSelectors(PlatformGlassdoor)
	// Common selectors
	assert.Contains(t, selectors, "form")
	assert.Contains(t, selectors, ".comments")
	// Glassdoor-specific
	assert.Contains(t, selectors, ".gd-ui-modal")
}

func TestPlatformNoiseSelectors_Unknown(t *testing.T) {
	selectors := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, selectors, "form")
	assert.Contains(t, selectors, ".cookie-banner")
	assert.NotContains(t, selectors, ".gd-ui-modal")
}
