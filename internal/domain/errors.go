package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error surfaced by a service wraps exactly one of
// these sentinels so the API layer can map it without inspecting text.
var (
	// ErrValidation marks bad input (date ranges, amounts). Never retried.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks availability overlaps and state-machine races.
	// The caller must pick different input; retrying the same call loses again.
	ErrConflict = errors.New("conflict")

	// ErrCollaborator marks a store or gateway failure. The enclosing
	// operation is aborted, never partially applied.
	ErrCollaborator = errors.New("collaborator unavailable")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func Collaboratorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrCollaborator)...)
}
