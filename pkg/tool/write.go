package tool

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/sandbox"
)

var writeFileDef = Definition{
	Name:        string(plan.TypeWriteFile),
	Description: "Write content to a file, overwriting it if it exists. Missing parent directories are created.",
	InputSchema: objectSchema(map[string]any{
		"path":    pathProp("File path relative to the working directory"),
		"content": pathProp("Content to write"),
	}, "path", "content"),
}

var appendFileDef = Definition{
	Name:        string(plan.TypeAppendFile),
	Description: "Append text to an existing file. Set create to true to allow creating a missing file.",
	InputSchema: objectSchema(map[string]any{
		"path":    pathProp("File path relative to the working directory"),
		"content": pathProp("Content to append"),
		"create":  map[string]string{"type": "boolean", "description": "Create the file if it does not exist"},
	}, "path", "content"),
}

func (e *Executor) writeFile(a plan.WriteFile, target sandbox.Path) (outcome, error) {
	if err := os.MkdirAll(filepath.Dir(target.String()), 0o755); err != nil {
		return outcome{}, classify("write_file", target, err)
	}
	if err := os.WriteFile(target.String(), []byte(a.Content), 0o644); err != nil {
		return outcome{}, classify("write_file", target, err)
	}
	return outcome{detail: fmt.Sprintf("wrote %d bytes to %s", len(a.Content), target.Rel())}, nil
}

func (e *Executor) appendFile(a plan.AppendFile, target sandbox.Path) (outcome, error) {
	info, err := os.Stat(target.String())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !a.Create {
			return outcome{}, newExecError(ErrNotFound, "append_file", target, errors.New("file does not exist and create is not set"))
		}
		if err := os.MkdirAll(filepath.Dir(target.String()), 0o755); err != nil {
			return outcome{}, classify("append_file", target, err)
		}
	case err != nil:
		return outcome{}, classify("append_file", target, err)
	case info.IsDir():
		return outcome{}, newExecError(ErrIO, "append_file", target, errors.New("is a directory"))
	}

	flags := os.O_WRONLY | os.O_APPEND
	if a.Create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(target.String(), flags, 0o644)
	if err != nil {
		return outcome{}, classify("append_file", target, err)
	}
	if _, err := f.WriteString(a.Content); err != nil {
		f.Close()
		return outcome{}, classify("append_file", target, err)
	}
	if err := f.Close(); err != nil {
		return outcome{}, classify("append_file", target, err)
	}
	return outcome{detail: fmt.Sprintf("appended %d bytes to %s", len(a.Content), target.Rel())}, nil
}
