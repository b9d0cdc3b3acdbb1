package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sameehj/junior/pkg/plan"
)

var definitions = map[plan.ActionType]Definition{
	plan.TypeCreateFile: createFileDef,
	plan.TypeWriteFile:  writeFileDef,
	plan.TypeAppendFile: appendFileDef,
	plan.TypeReadFile:   readFileDef,
	plan.TypeDeleteFile: deleteFileDef,
	plan.TypeCreateDir:  createDirDef,
	plan.TypeMoveFile:   moveFileDef,
	plan.TypeCopyFile:   copyFileDef,
	plan.TypeListDir:    listDirDef,
}

// Definitions returns every action definition in plan.Types order.
func Definitions() []Definition {
	out := make([]Definition, 0, len(plan.Types))
	for _, t := range plan.Types {
		out = append(out, definitions[t])
	}
	return out
}

// Get returns the definition for an action tag.
func Get(t plan.ActionType) (Definition, bool) {
	d, ok := definitions[t]
	return d, ok
}

// Schema renders the definitions as a markdown section for the system prompt.
func Schema() string {
	var buf strings.Builder
	for _, d := range Definitions() {
		params, err := json.MarshalIndent(d.InputSchema, "", "  ")
		if err != nil {
			params = []byte("{}")
		}
		fmt.Fprintf(&buf, "### %s\n\n%s\n\n```json\n%s\n```\n\n", d.Name, d.Description, params)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}
