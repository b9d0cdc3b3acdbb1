// Package tool executes plan actions against the filesystem inside a
// sandbox and describes those actions to the model.
package tool

import (
	"github.com/sameehj/junior/pkg/plan"
)

// Definition describes one action type to the model.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Status is the terminal state of one action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Result records the outcome of one action. Results are produced in plan
// order, one per action.
type Result struct {
	Index  int
	Action plan.Action
	Status Status
	Detail string

	// Content is the payload of read_file.
	Content []byte
	// Entries is the payload of list_dir, sorted by name.
	Entries []string

	// Err is a *sandbox.PathError or *ExecError when Status is failure.
	Err error
}

// OK reports whether the action did not fail.
func (r Result) OK() bool {
	return r.Status != StatusFailure
}

// outcome is what a handler reports on success.
type outcome struct {
	detail  string
	content []byte
	entries []string
}

func pathProp(desc string) map[string]string {
	return map[string]string{"type": "string", "description": desc}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	props["action_type"] = map[string]string{"type": "string", "description": "Action tag"}
	props["confirm"] = map[string]string{"type": "boolean", "description": "Set to true when this step is intentionally destructive"}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"action_type"}, required...),
	}
}
