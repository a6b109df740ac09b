package task

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the HTTP layer, which maps them onto 404
// and 400 responses.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStates = errors.New("invalid states")
)

// invalidf wraps ErrInvalidStates with detail about the rejected value.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("task: %w: %s", ErrInvalidStates, fmt.Sprintf(format, args...))
}

// notFound wraps ErrNotFound with the missing task's id.
func notFound(id string) error {
	return fmt.Errorf("task: %w: %s", ErrNotFound, id)
}
