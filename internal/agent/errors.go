package agent

import (
	"fmt"
	"strings"
)

// MissingFieldError reports required context fields that are still unset.
// It is a recoverable, user-facing outcome, not a system fault.
type MissingFieldError struct {
	Missing []Field
}

func (e *MissingFieldError) Error() string {
	names := make([]string, len(e.Missing))
	for i, field := range e.Missing {
		names[i] = string(field)
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}

// ConflictError reports a delta that contradicts an already-confirmed field
// without carrying the explicit override flag.
type ConflictError struct {
	Field    Field
	Current  string
	Proposed string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"%s is already set to %q; say so explicitly (e.g. \"switch to %s\") to change it to %q",
		e.Field, e.Current, e.Proposed, e.Proposed)
}

// UnknownOperationError indicates the dispatcher routed an operation a
// specialist never declared. This is a routing bug, not user error.
type UnknownOperationError struct {
	SpecialistID string
	Operation    string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("specialist %q does not declare operation %q", e.SpecialistID, e.Operation)
}
