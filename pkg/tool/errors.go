package tool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sameehj/junior/pkg/sandbox"
)

// Execution errors. Each one fails a single action only.
var (
	// ErrNotFound is returned when the target of an action does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when an action would replace a path without permission.
	ErrAlreadyExists = errors.New("already exists")

	// ErrPermissionDenied is returned when the OS or the confirm policy refuses an action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIO covers every other filesystem failure.
	ErrIO = errors.New("io error")
)

// ExecError describes a failed filesystem step.
type ExecError struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExecError) Is(target error) bool {
	return target == e.Kind
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

func newExecError(kind error, op string, p sandbox.Path, err error) *ExecError {
	return &ExecError{Kind: kind, Op: op, Path: p.Rel(), Err: err}
}

// classify maps an os error onto the execution taxonomy.
func classify(op string, p sandbox.Path, err error) *ExecError {
	kind := ErrIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrExist):
		kind = ErrAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermissionDenied
	}
	return newExecError(kind, op, p, unwrapPathError(err))
}

// unwrapPathError drops the *fs.PathError wrapper, whose absolute path would
// repeat what ExecError already reports relative to the root.
func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}
