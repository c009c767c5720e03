package types

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CritiqueRequest is the body of POST /critiques. Exactly one of ResumeText or URL is set.
type CritiqueRequest struct {
	ResumeText string `json:"resume_text,omitempty" validate:"max=100000"`
	URL        string `json:"url,omitempty" validate:"omitempty,url"`
	TargetRole string `json:"target_role,omitempty" validate:"max=200"`
}

// Validate validates the CritiqueRequest using the validator.
func (r *CritiqueRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if (r.ResumeText == "") == (r.URL == "") {
		return errors.New("exactly one of resume_text or url is required")
	}
	return nil
}

// ResumeCritique is the structured AI review of a resume.
type ResumeCritique struct {
	OverallScore    int               `json:"overall_score"`
	Summary         string            `json:"summary"`
	Strengths       []string          `json:"strengths"`
	Improvements    []string          `json:"improvements"`
	SectionFeedback map[string]string `json:"section_feedback,omitempty"`
}

// CritiqueRecord is a stored critique as returned by the API.
type CritiqueRecord struct {
	ID         uuid.UUID       `json:"id"`
	TargetRole string          `json:"target_role,omitempty"`
	SourceURL  *string         `json:"source_url,omitempty"`
	Critique   *ResumeCritique `json:"critique"`
	CreatedAt  time.Time       `json:"created_at"`
}
