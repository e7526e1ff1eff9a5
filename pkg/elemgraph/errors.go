package elemgraph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrItemDeleted     = errors.New("item deleted")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrInvalidName     = errors.New("invalid name")
	ErrNotNamed        = errors.New("element is not named")
	ErrNoCharacterData = errors.New("no character data")
	ErrNotReference    = errors.New("element holds no reference")
)

// GraphError provides structured error information for element graph
// operations.
type GraphError struct {
	Op    string // Operation that failed (e.g., "CreateSubElement")
	Kind  Kind   // Element kind involved
	Name  string // Element name (if applicable)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Kind, e.Name, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func opError(op string, kind Kind, name string, cause error) error {
	return &GraphError{Op: op, Kind: kind, Name: name, Cause: cause}
}
