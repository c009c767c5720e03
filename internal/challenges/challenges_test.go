package challenges

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
)

func makeChallenges(n int) []db.Challenge {
	out := make([]db.Challenge, n)
	for i := range out {
		out[i] = db.Challenge{ID: uuid.New(), Title: fmt.Sprintf("Challenge %d", i)}
	}
	return out
}

func TestPickDaily_Deterministic(t *testing.T) {
	list := makeChallenges(7)
	morning := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 22, 30, 0, 0, time.UTC)

	a, err := PickDaily(morning, list)
	require.NoError(t, err)
	b, err := PickDaily(evening, list)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID, "same day picks the same challenge")
}

func TestPickDaily_VariesAcrossDays(t *testing.T) {
	list := makeChallenges(10)
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	seen := map[uuid.UUID]bool{}
	for d := 0; d < 30; d++ {
		c, err := PickDaily(start.AddDate(0, 0, d), list)
		require.NoError(t, err)
		seen[c.ID] = true
	}
	assert.Greater(t, len(seen), 1, "a month of picks should not all be identical")
}

func TestPickDaily_Empty(t *testing.T) {
	_, err := PickDaily(time.Now(), nil)
	assert.ErrorIs(t, err, ErrNoChallenges)
}

func TestPickDaily_SingleChallenge(t *testing.T) {
	list := makeChallenges(1)
	c, err := PickDaily(time.Now(), list)
	require.NoError(t, err)
	assert.Equal(t, list[0].ID, c.ID)
}

func TestDateKey_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2025-03-15 05:00 in UTC+10 is still 2025-03-14 in UTC
	assert.Equal(t, "2025-03-14", DateKey(time.Date(2025, 3, 15, 5, 0, 0, 0, loc)))
}

type fakeJSONGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastTier   llm.ModelTier
}

func (f *fakeJSONGenerator) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.response, f.err
}

var twoSum = db.Challenge{
	ID:          uuid.New(),
	Title:       "Two Sum",
	Description: "Return indices of the two numbers that add up to target.",
	Difficulty:  "easy",
}

func TestEvaluate_Success(t *testing.T) {
	gen := &fakeJSONGenerator{response: "Here you go:\n```json\n{\"passed\": true, \"score\": 88, \"feedback\": \"Correct O(n) solution.\", \"suggestions\": [\"Name the map better\"]}\n```"}
	ev := NewEvaluator(gen, nil)

	fb, err := ev.Evaluate(context.Background(), twoSum, types.SubmitChallengeRequest{Language: "go", Code: "func twoSum(nums []int, target int) []int { return nil }"})
	require.NoError(t, err)
	assert.True(t, fb.Passed)
	assert.Equal(t, 88, fb.Score)
	assert.Equal(t, []string{"Name the map better"}, fb.Suggestions)

	assert.Equal(t, llm.TierAdvanced, gen.lastTier)
	assert.Contains(t, gen.lastPrompt, "Challenge: Two Sum")
	assert.Contains(t, gen.lastPrompt, "Language: go")
	assert.Contains(t, gen.lastPrompt, "func twoSum(nums []int")
	assert.NotContains(t, gen.lastPrompt, "{{.")
}

func TestEvaluate_MissingSuggestions(t *testing.T) {
	gen := &fakeJSONGenerator{response: `{"passed": false, "score": 10, "feedback": "Does not compile."}`}
	fb, err := NewEvaluator(gen, nil).Evaluate(context.Background(), twoSum, types.SubmitChallengeRequest{Language: "go", Code: "x"})
	require.NoError(t, err)
	assert.NotNil(t, fb.Suggestions)
	assert.Empty(t, fb.Suggestions)
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		gen        *fakeJSONGenerator
		code       string
		wantSchema bool
	}{
		{name: "empty code", gen: &fakeJSONGenerator{}, code: "   "},
		{name: "generator failure", gen: &fakeJSONGenerator{err: errors.New("quota")}, code: "x"},
		{name: "not json", gen: &fakeJSONGenerator{response: "I cannot grade this."}, code: "x"},
		{name: "score out of range", gen: &fakeJSONGenerator{response: `{"passed": true, "score": 140, "feedback": "great"}`}, code: "x", wantSchema: true},
		{name: "missing feedback", gen: &fakeJSONGenerator{response: `{"passed": true, "score": 40}`}, code: "x", wantSchema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvaluator(tt.gen, nil).Evaluate(context.Background(), twoSum, types.SubmitChallengeRequest{Language: "go", Code: tt.code})
			require.Error(t, err)

			var evalErr *EvaluationError
			assert.ErrorAs(t, err, &evalErr)

			var validationErr *schemas.ValidationError
			assert.Equal(t, tt.wantSchema, errors.As(err, &validationErr))
		})
	}
}
