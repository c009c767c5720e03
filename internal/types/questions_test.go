//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateQuestionRequest_Validation(t *testing.T) {
	tooManyTags := make([]string, 21)
	for i := range tooManyTags {
		tooManyTags[i] = fmt.Sprintf("tag%d", i)
	}

	tests := []struct {
		name    string
		request CreateQuestionRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "minimal request",
			request: CreateQuestionRequest{Question: "What is a goroutine?"},
		},
		{
			name: "full request",
			request: CreateQuestionRequest{
				Question:   "Explain the CAP theorem.",
				Answer:     "Consistency, availability, partition tolerance.",
				Category:   "system design",
				Difficulty: "medium",
				Tags:       []string{"distributed", "databases"},
			},
		},
		{
			name:    "missing question",
			request: CreateQuestionRequest{Category: "go"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "question too short",
			request: CreateQuestionRequest{Question: "Why"},
			wantErr: true,
			errMsg:  "min",
		},
		{
			name:    "unknown difficulty",
			request: CreateQuestionRequest{Question: "What is a channel?", Difficulty: "extreme"},
			wantErr: true,
			errMsg:  "oneof",
		},
		{
			name:    "too many tags",
			request: CreateQuestionRequest{Question: "What is a channel?", Tags: tooManyTags},
			wantErr: true,
			errMsg:  "Tags",
		},
		{
			name:    "tag too long",
			request: CreateQuestionRequest{Question: "What is a channel?", Tags: []string{strings.Repeat("t", 51)}},
			wantErr: true,
			errMsg:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImportQuestionsRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		urls    []string
		wantErr bool
	}{
		{"single url", []string{"https://example.com/interview"}, false},
		{"no urls", nil, true},
		{"empty list", []string{}, true},
		{"not a url", []string{"interview experience"}, true},
		{"blank entry", []string{"https://example.com/a", ""}, true},
		{"too many urls", func() []string {
			urls := make([]string, 21)
			for i := range urls {
				urls[i] = fmt.Sprintf("https://example.com/%d", i)
			}
			return urls
		}(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ImportQuestionsRequest{URLs: tt.urls}
			if tt.wantErr {
				assert.Error(t, req.Validate())
			} else {
				assert.NoError(t, req.Validate())
			}
		})
	}
}
