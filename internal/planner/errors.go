package planner

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the requested occurrence does not exist.
var ErrNotFound = errors.New("occurrence not found")

// ValidationError reports malformed caller input, e.g. a year outside the
// configured bounds or a completion without an actor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
