package interview

import (
	"regexp"
	"strings"
)

var (
	namePattern       = regexp.MustCompile(`\b(?i:my name is|i am|i'm|this is)\s+([A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+)?)`)
	experiencePattern = regexp.MustCompile(`(?i)\b(\d{1,2}\+?|one|two|three|four|five|six|seven|eight|nine|ten)\s+years?(?:\s+of)?(?:\s+(?:professional|industry|work))?(?:\s+experience)?`)
	strengthsPattern  = regexp.MustCompile(`(?i)\b(?:my (?:main |biggest |greatest )?strengths? (?:is|are|would be)|i(?:'m| am) (?:really |very )?good at|i excel at)\s+([^.!?\n]+)`)
	weaknessesPattern = regexp.MustCompile(`(?i)\b(?:my (?:main |biggest |greatest )?weakness(?:es)? (?:is|are|would be)|i struggle with|i(?:'m| am) not (?:very |so )?good at)\s+([^.!?\n]+)`)
)

// ExtractProfile pulls candidate profile fragments out of free-form text.
// Fields it cannot find are left empty.
func ExtractProfile(text string) UserProfile {
	var p UserProfile

	if m := namePattern.FindStringSubmatch(text); m != nil {
		// Case-sensitive capture: "I'm good at ..." must not yield a name.
		p.Name = strings.TrimSpace(m[1])
	}
	if m := experiencePattern.FindString(text); m != "" {
		p.Experience = strings.TrimSpace(m)
	}
	if m := strengthsPattern.FindStringSubmatch(text); m != nil {
		p.Strengths = strings.TrimSpace(m[1])
	}
	if m := weaknessesPattern.FindStringSubmatch(text); m != nil {
		p.Weaknesses = strings.TrimSpace(m[1])
	}

	return p
}
