package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

const maxQuestionLimit = 500

// handleCreateQuestion adds a practice question for the caller.
func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	in, err := decodeQuestion(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q, err := s.store.CreateQuestion(r.Context(), userID, in)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to create question: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, q)
}

// handleListQuestions lists the caller's practice questions.
// Query: category, difficulty, tag, search, limit.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := db.QuestionFilters{
		Category:   query.Get("category"),
		Difficulty: strings.ToLower(query.Get("difficulty")),
		Tag:        query.Get("tag"),
		Search:     query.Get("search"),
	}
	switch filters.Difficulty {
	case "", db.DifficultyEasy, db.DifficultyMedium, db.DifficultyHard:
	default:
		s.writeError(w, r, &ErrValidation{Field: "difficulty", Message: "must be one of easy, medium, hard"})
		return
	}
	limit, err := parseQueryInt(r, "limit", db.DefaultQuestionLimit, maxQuestionLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filters.Limit = limit

	list, err := s.store.ListQuestions(r.Context(), userID, filters)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list questions: %w", err))
		return
	}
	if list == nil {
		list = []db.Question{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"questions": list, "count": len(list)})
}

// handleUpdateQuestion replaces the editable fields of a practice question.
func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "question")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := decodeQuestion(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q, err := s.store.UpdateQuestion(r.Context(), userID, id, in)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to update question: %w", err))
		return
	}
	if q == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "question", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, q)
}

// handleDeleteQuestion deletes a practice question.
func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "question")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	deleted, err := s.store.DeleteQuestion(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to delete question: %w", err))
		return
	}
	if !deleted {
		s.writeError(w, r, &ErrNotFound{Resource: "question", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (db.QuestionInput, error) {
	var req types.CreateQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return db.QuestionInput{}, err
	}
	if err := validate(&req); err != nil {
		return db.QuestionInput{}, err
	}
	return db.QuestionInput{
		Question:   strings.TrimSpace(req.Question),
		Answer:     req.Answer,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Tags:       req.Tags,
	}, nil
}
