package tool

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/sandbox"
)

var moveFileDef = Definition{
	Name:        string(plan.TypeMoveFile),
	Description: "Move a file or directory from one path to another.",
	InputSchema: objectSchema(map[string]any{
		"from_path": pathProp("The original file or directory path"),
		"to_path":   pathProp("The destination path"),
	}, "from_path", "to_path"),
}

var copyFileDef = Definition{
	Name:        string(plan.TypeCopyFile),
	Description: "Copy a file. Fails if the destination exists unless confirm is true.",
	InputSchema: objectSchema(map[string]any{
		"from_path": pathProp("The source file path"),
		"to_path":   pathProp("The destination path"),
	}, "from_path", "to_path"),
}

// checkDestination applies the overwrite rule shared by move and copy.
func (e *Executor) checkDestination(op string, a plan.Action, to sandbox.Path) error {
	info, err := os.Lstat(to.String())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return classify(op, to, err)
	case info.IsDir():
		return newExecError(ErrAlreadyExists, op, to, errors.New("a directory exists at the destination"))
	case !e.permitted(a, fmt.Sprintf("Overwrite existing file %s?", to.Rel())):
		return newExecError(ErrAlreadyExists, op, to, errors.New("overwrite not confirmed"))
	}
	return nil
}

func (e *Executor) moveFile(a plan.MoveFile, from, to sandbox.Path) (outcome, error) {
	if _, err := os.Lstat(from.String()); err != nil {
		return outcome{}, classify("move_file", from, err)
	}
	if err := e.checkDestination("move_file", a, to); err != nil {
		return outcome{}, err
	}
	if err := os.MkdirAll(filepath.Dir(to.String()), 0o755); err != nil {
		return outcome{}, classify("move_file", to, err)
	}
	if err := os.Rename(from.String(), to.String()); err != nil {
		return outcome{}, classify("move_file", from, err)
	}
	return outcome{detail: fmt.Sprintf("moved %s to %s", from.Rel(), to.Rel())}, nil
}

func (e *Executor) copyFile(a plan.CopyFile, from, to sandbox.Path) (outcome, error) {
	info, err := os.Stat(from.String())
	if err != nil {
		return outcome{}, classify("copy_file", from, err)
	}
	if info.IsDir() {
		return outcome{}, newExecError(ErrIO, "copy_file", from, errors.New("is a directory"))
	}
	if from.Target() == to.Target() {
		return outcome{}, newExecError(ErrIO, "copy_file", to, errors.New("source and destination are the same file"))
	}
	if err := e.checkDestination("copy_file", a, to); err != nil {
		return outcome{}, err
	}
	if err := os.MkdirAll(filepath.Dir(to.String()), 0o755); err != nil {
		return outcome{}, classify("copy_file", to, err)
	}

	src, err := os.Open(from.String())
	if err != nil {
		return outcome{}, classify("copy_file", from, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(to.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return outcome{}, classify("copy_file", to, err)
	}
	n, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return outcome{}, classify("copy_file", to, err)
	}
	if err := dst.Close(); err != nil {
		return outcome{}, classify("copy_file", to, err)
	}
	return outcome{detail: fmt.Sprintf("copied %s to %s (%d bytes)", from.Rel(), to.Rel(), n)}, nil
}
