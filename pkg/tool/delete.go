package tool

import (
	"errors"
	"fmt"
	"os"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/sandbox"
)

var deleteFileDef = Definition{
	Name:        string(plan.TypeDeleteFile),
	Description: "Delete a file. Directories are never removed. Requires confirm to be true.",
	InputSchema: objectSchema(map[string]any{
		"path": pathProp("File path relative to the working directory"),
	}, "path"),
}

var createDirDef = Definition{
	Name:        string(plan.TypeCreateDir),
	Description: "Create a directory at the given path, including any parent directories.",
	InputSchema: objectSchema(map[string]any{
		"path": pathProp("Directory path relative to the working directory"),
	}, "path"),
}

func (e *Executor) deleteFile(a plan.DeleteFile, target sandbox.Path) (outcome, error) {
	info, err := os.Lstat(target.String())
	if err != nil {
		return outcome{}, classify("delete_file", target, err)
	}
	if info.IsDir() {
		return outcome{}, newExecError(ErrIO, "delete_file", target, errors.New("is a directory"))
	}
	if !e.permitted(a, fmt.Sprintf("Delete %s?", target.Rel())) {
		return outcome{}, newExecError(ErrPermissionDenied, "delete_file", target, errors.New("deletion not confirmed"))
	}
	if err := os.Remove(target.String()); err != nil {
		return outcome{}, classify("delete_file", target, err)
	}
	return outcome{detail: "deleted " + target.Rel()}, nil
}

func (e *Executor) createDir(_ plan.CreateDir, target sandbox.Path) (outcome, error) {
	if info, err := os.Stat(target.String()); err == nil && info.IsDir() {
		return outcome{detail: target.Rel() + " already exists"}, nil
	}
	if err := os.MkdirAll(target.String(), 0o755); err != nil {
		return outcome{}, classify("create_dir", target, err)
	}
	return outcome{detail: "created directory " + target.Rel()}, nil
}
