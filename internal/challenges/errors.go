// Package challenges picks the daily coding challenge and grades submissions
// with an AI reviewer.
package challenges

import (
	"errors"
	"fmt"
)

// ErrNoChallenges is returned when there is nothing to pick from.
var ErrNoChallenges = errors.New("no challenges available")

// EvaluationError represents a failure to grade a submission
type EvaluationError struct {
	Message string
	Cause   error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("evaluation error: %s", e.Message)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
