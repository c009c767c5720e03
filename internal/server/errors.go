package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/interview-prep/internal/challenges"
	"github.com/jonathan/interview-prep/internal/critique"
	"github.com/jonathan/interview-prep/internal/interview"
)

// ErrNotFound indicates a resource that does not exist or belongs to another user
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		validation  *ErrValidation
		fieldErrs   validator.ValidationErrors
		inputErr    *critique.InputError
		turnErr     *interview.TurnError
		evalErr     *challenges.EvaluationError
		critiqueErr *critique.Error
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &notFound),
		errors.Is(err, interview.ErrSessionNotFound),
		errors.Is(err, challenges.ErrNoChallenges):
		return http.StatusNotFound
	case errors.As(err, &validation),
		errors.As(err, &fieldErrs),
		errors.Is(err, interview.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, interview.ErrTurnInProgress),
		errors.Is(err, interview.ErrAlreadyStarted):
		return http.StatusConflict
	case errors.As(err, &inputErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &turnErr):
		if turnErr.Stage == interview.StageGenerate {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	case errors.As(err, &evalErr), errors.As(err, &critiqueErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
