package session

import (
	"strings"
	"time"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/tool"
)

// Record is one prompt/response/execution cycle. It is built after the
// executor returns and written once.
type Record struct {
	ID           string
	Timestamp    time.Time
	Model        string
	SystemPrompt string
	UserPrompt   string
	ContextFile  string
	RawResponse  string
	DryRun       bool

	// Plan is nil when the response could not be parsed.
	Plan       *plan.Plan
	ParseError error
	Results    []tool.Result
}

// Transcript is the persisted JSON shape of a Record.
type Transcript struct {
	ID           string        `json:"id"`
	Timestamp    string        `json:"timestamp"`
	Model        string        `json:"model,omitempty"`
	SystemPrompt string        `json:"system_prompt"`
	UserPrompt   string        `json:"user_prompt"`
	ContextFile  string        `json:"context_file,omitempty"`
	RawResponse  string        `json:"raw_response"`
	DryRun       bool          `json:"dry_run,omitempty"`
	Explanation  string        `json:"explanation"`
	ParseError   string        `json:"parse_error,omitempty"`
	Actions      []ActionEntry `json:"actions"`
}

// ActionEntry is one executed action in a Transcript.
type ActionEntry struct {
	ActionType string  `json:"action_type"`
	Path       string  `json:"path,omitempty"`
	FromPath   string  `json:"from_path,omitempty"`
	ToPath     string  `json:"to_path,omitempty"`
	Content    *string `json:"content,omitempty"`
	Confirm    bool    `json:"confirm,omitempty"`
	Status     string  `json:"status"`
	Detail     string  `json:"detail"`
	Output     string  `json:"output,omitempty"`
}

// Transcript converts r to its persisted form.
func (r *Record) Transcript() Transcript {
	t := Transcript{
		ID:           r.ID,
		Timestamp:    r.Timestamp.UTC().Format(time.RFC3339),
		Model:        r.Model,
		SystemPrompt: r.SystemPrompt,
		UserPrompt:   r.UserPrompt,
		ContextFile:  r.ContextFile,
		RawResponse:  r.RawResponse,
		DryRun:       r.DryRun,
		Actions:      []ActionEntry{},
	}
	if r.ParseError != nil {
		t.ParseError = r.ParseError.Error()
	}
	if r.Plan != nil {
		t.Explanation = r.Plan.Explanation
	}
	for _, res := range r.Results {
		t.Actions = append(t.Actions, entry(res))
	}
	return t
}

func entry(res tool.Result) ActionEntry {
	e := ActionEntry{
		ActionType: string(res.Action.Type()),
		Confirm:    res.Action.ConfirmHint(),
		Status:     string(res.Status),
		Detail:     res.Detail,
	}
	switch a := res.Action.(type) {
	case plan.CreateFile:
		e.Path, e.Content = a.Path, a.Content
	case plan.WriteFile:
		e.Path, e.Content = a.Path, &a.Content
	case plan.AppendFile:
		e.Path, e.Content = a.Path, &a.Content
	case plan.MoveFile:
		e.FromPath, e.ToPath = a.FromPath, a.ToPath
	case plan.CopyFile:
		e.FromPath, e.ToPath = a.FromPath, a.ToPath
	default:
		if paths := a.Paths(); len(paths) > 0 {
			e.Path = paths[0]
		}
	}
	switch {
	case res.Content != nil:
		e.Output = string(res.Content)
	case res.Entries != nil:
		e.Output = strings.Join(res.Entries, "\n")
	}
	return e
}
