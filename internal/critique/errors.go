// Package critique produces structured AI reviews of resumes, pasted as text
// or fetched from a hosted page.
package critique

import "fmt"

// Error represents a failure to critique a resume
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("critique error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("critique error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// InputError reports resume input that cannot be reviewed, such as an empty
// page. It is the caller's fault rather than the model's.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid resume: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid resume: %s", e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
