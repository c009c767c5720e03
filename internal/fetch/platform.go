// Package fetch - platform.go provides platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known site that hosts interview write-ups or questions.
type Platform string

const (
	// PlatformGlassdoor is Glassdoor interview reviews
	PlatformGlassdoor Platform = "glassdoor"
	// PlatformLeetCode is the LeetCode discussion forum
	PlatformLeetCode Platform = "leetcode"
	// PlatformReddit is a Reddit thread
	PlatformReddit Platform = "reddit"
	// PlatformMedium is a Medium-hosted blog post
	PlatformMedium Platform = "medium"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the hosting platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case hostMatches(host, "glassdoor.com", "glassdoor.co.uk", "glassdoor.ca"):
		return PlatformGlassdoor
	case hostMatches(host, "leetcode.com", "leetcode.cn"):
		return PlatformLeetCode
	case hostMatches(host, "reddit.com"):
		return PlatformReddit
	case hostMatches(host, "medium.com"):
		return PlatformMedium
	}
	return PlatformUnknown
}

// hostMatches reports whether host is one of domains or a subdomain of one.
func hostMatches(host string, domains ...string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGlassdoor:
		return []string{
			"[data-test='interview-details']",
			".interviewDetails",
			".interview-details",
			"#InterviewsFeed",
			"main",
		}
	case PlatformLeetCode:
		return []string{
			".discuss-markdown-container",
			"[class*='discuss-markdown']",
			".topic-content",
			"main",
		}
	case PlatformReddit:
		return []string{
			"shreddit-post",
			"[data-test-id='post-content']",
			".usertext-body",
			"main",
		}
	case PlatformMedium:
		return []string{
			"article",
			"section",
			"main",
		}
	default:
		return InterviewExperienceSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		// Forms and sign-up walls
		"form",
		".signup-wall",
		".login-modal",
		"[data-test='hardsell-overlay']",

		// Comments and related content
		".comments",
		"#comments",
		".related-posts",
		".recommended",

		// Social and share buttons
		".social-share",
		".share-buttons",
		".social-links",

		// Cookie and GDPR
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGlassdoor:
		return append(common,
			".gd-ui-modal",
			"[data-test='employer-header']",
			".adSlot",
		)
	case PlatformLeetCode:
		return append(common,
			".discuss-vote",
			".topic-tags",
		)
	case PlatformReddit:
		return append(common,
			"shreddit-comment-tree",
			"faceplate-tracker",
			".promotedlink",
		)
	case PlatformMedium:
		return append(common,
			".pw-responses",
			".metabar",
			"[data-testid='headerClapButton']",
		)
	default:
		return common
	}
}
