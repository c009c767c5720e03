package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/challenges"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

// handleDailyChallenge returns today's challenge. Every caller gets the same
// one for a given UTC day.
func (s *Server) handleDailyChallenge(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListChallenges(r.Context())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list challenges: %w", err))
		return
	}
	today := s.now()
	c, err := challenges.PickDaily(today, list)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"date":      challenges.DateKey(today),
		"challenge": c,
	})
}

// handleSubmitChallenge grades a submission with the AI and stores it with its feedback.
func (s *Server) handleSubmitChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "challenge")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.SubmitChallengeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		s.writeError(w, r, &ErrValidation{Field: "code", Message: "must not be blank"})
		return
	}

	challenge, err := s.store.GetChallenge(r.Context(), id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to load challenge: %w", err))
		return
	}
	if challenge == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "challenge", ID: id.String()})
		return
	}

	feedback, err := s.evaluator.Evaluate(r.Context(), *challenge, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sub := &db.Submission{
		ChallengeID: challenge.ID,
		UserID:      userID,
		Language:    req.Language,
		Code:        req.Code,
		Passed:      feedback.Passed,
		Score:       feedback.Score,
		Feedback:    feedback.Feedback,
		Suggestions: feedback.Suggestions,
	}
	if err := s.store.SaveSubmission(r.Context(), sub); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to save submission: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, sub)
}

// handleListSubmissions lists the caller's challenge submissions.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	list, err := s.store.ListSubmissions(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list submissions: %w", err))
		return
	}
	if list == nil {
		list = []db.Submission{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"submissions": list, "count": len(list)})
}
