package interview

import "strings"

// SimilarityStrategy decides whether two questions are near-duplicates.
type SimilarityStrategy interface {
	IsSimilar(a, b string) bool
}

// ContainmentSimilarity treats two questions as duplicates when either
// contains the other, ignoring case.
type ContainmentSimilarity struct{}

// IsSimilar implements SimilarityStrategy.
func (ContainmentSimilarity) IsSimilar(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// SimilarityFunc adapts a plain function to SimilarityStrategy.
type SimilarityFunc func(a, b string) bool

// IsSimilar implements SimilarityStrategy.
func (f SimilarityFunc) IsSimilar(a, b string) bool {
	return f(a, b)
}
