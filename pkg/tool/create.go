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

var createFileDef = Definition{
	Name:        string(plan.TypeCreateFile),
	Description: "Create a file, optionally with content. Fails if the file exists unless confirm is true.",
	InputSchema: objectSchema(map[string]any{
		"path":    pathProp("File path relative to the working directory"),
		"content": pathProp("Optional initial content"),
	}, "path"),
}

func (e *Executor) createFile(a plan.CreateFile, target sandbox.Path) (outcome, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	info, err := os.Stat(target.String())
	switch {
	case err == nil && info.IsDir():
		return outcome{}, newExecError(ErrAlreadyExists, "create_file", target, errors.New("a directory exists at this path"))
	case err == nil:
		if !e.permitted(a, fmt.Sprintf("Overwrite existing file %s?", target.Rel())) {
			return outcome{}, newExecError(ErrAlreadyExists, "create_file", target, errors.New("overwrite not confirmed"))
		}
		flags = os.O_WRONLY | os.O_TRUNC
	case !errors.Is(err, fs.ErrNotExist):
		return outcome{}, classify("create_file", target, err)
	}

	if err := os.MkdirAll(filepath.Dir(target.String()), 0o755); err != nil {
		return outcome{}, classify("create_file", target, err)
	}
	f, err := os.OpenFile(target.String(), flags, 0o644)
	if err != nil {
		return outcome{}, classify("create_file", target, err)
	}
	n := 0
	if a.Content != nil {
		n, err = f.WriteString(*a.Content)
		if err != nil {
			f.Close()
			return outcome{}, classify("create_file", target, err)
		}
	}
	if err := f.Close(); err != nil {
		return outcome{}, classify("create_file", target, err)
	}
	return outcome{detail: fmt.Sprintf("created %s (%d bytes)", target.Rel(), n)}, nil
}
