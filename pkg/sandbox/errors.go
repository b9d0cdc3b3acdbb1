package sandbox

import (
	"errors"
	"fmt"
)

// Path validation errors.
var (
	// ErrOutsideSandbox is returned when a path resolves outside the sandbox root.
	ErrOutsideSandbox = errors.New("path outside sandbox")

	// ErrInvalidTarget is returned for empty paths and the sandbox root itself.
	ErrInvalidTarget = errors.New("invalid target")
)

// PathError reports why a candidate path was rejected.
type PathError struct {
	Path   string
	Kind   error
	Reason string
}

func (e *PathError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind, e.Path, e.Reason)
}

func (e *PathError) Unwrap() error {
	return e.Kind
}

func outside(path, reason string) *PathError {
	return &PathError{Path: path, Kind: ErrOutsideSandbox, Reason: reason}
}

func invalid(path, reason string) *PathError {
	return &PathError{Path: path, Kind: ErrInvalidTarget, Reason: reason}
}
