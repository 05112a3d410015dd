package command

import "fmt"

// UserInputError reports arguments that violate a constraint. The reason
// is shown to the user verbatim; no state was mutated.
type UserInputError struct {
	Reason string
}

func (e *UserInputError) Error() string { return e.Reason }

func inputErrf(format string, args ...any) error {
	return &UserInputError{Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError reports a failed guard or missing prerequisite
// (no active session, wrong channel, not an admin).
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

func preconditionErrf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// CollaboratorError wraps a failure in an external collaborator. The
// wrapped detail is logged, never shown to the chat surface.
type CollaboratorError struct {
	Err error
}

func (e *CollaboratorError) Error() string { return e.Err.Error() }
func (e *CollaboratorError) Unwrap() error { return e.Err }
