package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

// handleListCompanies lists companies with the size of their question banks.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListCompanies(r.Context())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list companies: %w", err))
		return
	}
	if list == nil {
		list = []db.CompanySummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"companies": list, "count": len(list)})
}

// handleListCompanyQuestions returns a company's question bank, optionally
// narrowed by ?category=.
func (s *Server) handleListCompanyQuestions(w http.ResponseWriter, r *http.Request) {
	company, err := s.company(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	questions, err := s.store.ListBankQuestions(r.Context(), company.ID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list company questions: %w", err))
		return
	}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filtered := questions[:0]
		for _, q := range questions {
			if strings.EqualFold(q.Category, category) {
				filtered = append(filtered, q)
			}
		}
		questions = filtered
	}
	if questions == nil {
		questions = []db.BankQuestion{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company":   company,
		"questions": questions,
		"count":     len(questions),
	})
}

// handleImportQuestions fetches the given interview-experience pages and adds
// the questions found there to the company's bank.
func (s *Server) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	company, err := s.company(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.ImportQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.importer.Import(r.Context(), company.ID, req.URLs)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to import questions: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) company(r *http.Request) (*db.Company, error) {
	id, err := pathID(r, "company")
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetCompanyByID(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if c == nil {
		return nil, &ErrNotFound{Resource: "company", ID: id.String()}
	}
	return c, nil
}
