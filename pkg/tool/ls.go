package tool

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/sandbox"
)

var listDirDef = Definition{
	Name:        string(plan.TypeListDir),
	Description: "List the contents of a subdirectory. The working directory itself cannot be targeted.",
	InputSchema: objectSchema(map[string]any{
		"path": pathProp("Directory path relative to the working directory"),
	}, "path"),
}

func (e *Executor) listDir(_ plan.ListDir, target sandbox.Path) (outcome, error) {
	info, err := os.Stat(target.String())
	if err != nil {
		return outcome{}, classify("list_dir", target, err)
	}
	if !info.IsDir() {
		return outcome{}, newExecError(ErrNotFound, "list_dir", target, errors.New("not a directory"))
	}
	entries, err := os.ReadDir(target.String())
	if err != nil {
		return outcome{}, classify("list_dir", target, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return outcome{detail: fmt.Sprintf("%d entries in %s", len(names), target.Rel()), entries: names}, nil
}
