package interview

import (
	"errors"
	"fmt"
)

var (
	// ErrTurnInProgress is returned when a session already has a turn awaiting the AI.
	ErrTurnInProgress = errors.New("a turn is already in progress for this interview")
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrAlreadyStarted is returned when the greeting is requested for a session with history.
	ErrAlreadyStarted = errors.New("interview already started")
	// ErrEmptyMessage is returned when a follow-up turn has no user text.
	ErrEmptyMessage = errors.New("message is empty")
)

// Turn stages reported by TurnError.
const (
	StagePersistUser      = "persist_user"
	StageGenerate         = "generate"
	StagePersistAssistant = "persist_assistant"
)

// TurnError reports a failed interview turn. The session context is left
// exactly as it was before the turn started.
type TurnError struct {
	Stage   string
	Message string
	Cause   error
	// UserMessagePersisted is true when the user's message reached the store
	// before the failure, so the chat log holds a message with no reply.
	UserMessagePersisted bool
}

func (e *TurnError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("interview turn failed at %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("interview turn failed at %s: %s", e.Stage, e.Message)
}

func (e *TurnError) Unwrap() error {
	return e.Cause
}
