package tool

import (
	"errors"
	"fmt"
	"os"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/sandbox"
)

var readFileDef = Definition{
	Name:        string(plan.TypeReadFile),
	Description: "Read a file's contents",
	InputSchema: objectSchema(map[string]any{
		"path": pathProp("File path relative to the working directory"),
	}, "path"),
}

func (e *Executor) readFile(_ plan.ReadFile, target sandbox.Path) (outcome, error) {
	info, err := os.Stat(target.String())
	if err != nil {
		return outcome{}, classify("read_file", target, err)
	}
	if info.IsDir() {
		return outcome{}, newExecError(ErrIO, "read_file", target, errors.New("is a directory"))
	}
	if info.Size() > e.maxReadBytes {
		return outcome{}, newExecError(ErrIO, "read_file", target,
			fmt.Errorf("file is %d bytes, limit is %d", info.Size(), e.maxReadBytes))
	}
	data, err := os.ReadFile(target.String())
	if err != nil {
		return outcome{}, classify("read_file", target, err)
	}
	return outcome{detail: fmt.Sprintf("read %d bytes from %s", len(data), target.Rel()), content: data}, nil
}
