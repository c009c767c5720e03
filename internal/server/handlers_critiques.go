package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

// handleCreateCritique reviews a resume given as text or as a URL and stores the result.
func (s *Server) handleCreateCritique(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.CritiqueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.writeError(w, r, err)
		return
	}
	role := strings.TrimSpace(req.TargetRole)

	var result *types.ResumeCritique
	var err error
	if req.URL != "" {
		result, err = s.critic.CritiqueURL(r.Context(), req.URL, role)
	} else {
		result, err = s.critic.Critique(r.Context(), req.ResumeText, role)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.SaveCritique(r.Context(), userID, role, req.URL, result.OverallScore, result)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to save critique: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, types.CritiqueRecord{
		ID:         rec.ID,
		TargetRole: rec.TargetRole,
		SourceURL:  rec.SourceURL,
		Critique:   result,
		CreatedAt:  rec.CreatedAt,
	})
}

// handleListCritiques lists the caller's critiques, newest first.
func (s *Server) handleListCritiques(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	list, err := s.store.ListCritiques(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list critiques: %w", err))
		return
	}

	records := make([]types.CritiqueRecord, 0, len(list))
	for _, c := range list {
		rec, err := critiqueRecord(c)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		records = append(records, rec)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"critiques": records, "count": len(records)})
}

// handleGetCritique returns one of the caller's critiques.
func (s *Server) handleGetCritique(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "critique")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.store.GetCritique(r.Context(), id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to load critique: %w", err))
		return
	}
	if c == nil || c.UserID != userID {
		s.writeError(w, r, &ErrNotFound{Resource: "critique", ID: id.String()})
		return
	}
	rec, err := critiqueRecord(*c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func critiqueRecord(c db.Critique) (types.CritiqueRecord, error) {
	var body types.ResumeCritique
	if err := json.Unmarshal(c.Body, &body); err != nil {
		return types.CritiqueRecord{}, fmt.Errorf("failed to decode stored critique %s: %w", c.ID, err)
	}
	return types.CritiqueRecord{
		ID:         c.ID,
		TargetRole: c.TargetRole,
		SourceURL:  c.SourceURL,
		Critique:   &body,
		CreatedAt:  c.CreatedAt,
	}, nil
}
