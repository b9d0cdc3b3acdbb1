package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const fence = "```"

// Parse extracts a Plan from raw model output. A surrounding fenced code
// block is stripped; any other free text makes the response malformed.
// Parsing is all-or-nothing: one bad action rejects the whole plan.
func Parse(raw string) (*Plan, error) {
	body := stripFence(raw)
	if body == "" {
		return nil, &ParseError{Kind: ErrMalformed, Index: -1, Err: fmt.Errorf("empty response")}
	}

	var envelope struct {
		Explanation *string            `json:"explanation"`
		Actions     *[]json.RawMessage `json:"actions"`
	}
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&envelope); err != nil {
		return nil, &ParseError{Kind: ErrMalformed, Index: -1, Excerpt: excerpt(body), Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Kind: ErrMalformed, Index: -1, Excerpt: excerpt(body), Err: fmt.Errorf("trailing data after plan object")}
	}
	if envelope.Explanation == nil {
		return nil, &ParseError{Kind: ErrMalformed, Index: -1, Field: "explanation", Excerpt: excerpt(body)}
	}
	if envelope.Actions == nil {
		return nil, &ParseError{Kind: ErrMalformed, Index: -1, Field: "actions", Excerpt: excerpt(body)}
	}

	p := &Plan{Explanation: *envelope.Explanation, Actions: make([]Action, 0, len(*envelope.Actions))}
	for i, rawAction := range *envelope.Actions {
		a, err := decodeAction(i, rawAction)
		if err != nil {
			return nil, err
		}
		p.Actions = append(p.Actions, a)
	}
	return p, nil
}

// stripFence returns the contents of the first fenced block when the text
// does not already start with the object, otherwise the trimmed text. Fence
// markers only count at the start of a line: JSON strings cannot hold raw
// newlines, so a line beginning with ``` is never inside the plan itself.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "{") {
		return s
	}
	lines := strings.Split(s, "\n")
	open := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			open = i
			break
		}
	}
	if open < 0 {
		return s
	}

	var body []string
	// The info string ("json", "JSON", ...) is dropped; an object may start
	// on the fence line itself.
	head := strings.TrimPrefix(strings.TrimSpace(lines[open]), fence)
	if i := strings.IndexAny(head, "{["); i >= 0 {
		body = append(body, head[i:])
	}
	for _, line := range lines[open+1:] {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			break
		}
		body = append(body, line)
	}
	out := strings.TrimSpace(strings.Join(body, "\n"))
	return strings.TrimSpace(strings.TrimSuffix(out, fence))
}

// actionFields lists the keys each action accepts and which are required.
var actionFields = map[ActionType]struct {
	required []string
	optional []string
}{
	TypeCreateFile: {required: []string{"path"}, optional: []string{"content"}},
	TypeWriteFile:  {required: []string{"path", "content"}},
	TypeAppendFile: {required: []string{"path", "content"}, optional: []string{"create"}},
	TypeReadFile:   {required: []string{"path"}},
	TypeDeleteFile: {required: []string{"path"}},
	TypeCreateDir:  {required: []string{"path"}},
	TypeMoveFile:   {required: []string{"from_path", "to_path"}},
	TypeCopyFile:   {required: []string{"from_path", "to_path"}},
	TypeListDir:    {required: []string{"path"}},
}

func decodeAction(index int, raw json.RawMessage) (Action, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		if err == nil {
			err = fmt.Errorf("action is null")
		}
		return nil, &ParseError{Kind: ErrMalformed, Index: index, Excerpt: excerpt(string(raw)), Err: err}
	}

	tagRaw, ok := fields["action_type"]
	if !ok {
		return nil, &ParseError{Kind: ErrMissingField, Index: index, Field: "action_type", Excerpt: excerpt(string(raw))}
	}
	var tag string
	if err := json.Unmarshal(tagRaw, &tag); err != nil {
		return nil, &ParseError{Kind: ErrMalformed, Index: index, Field: "action_type", Excerpt: excerpt(string(raw)), Err: err}
	}
	typ := ActionType(tag)
	spec, ok := actionFields[typ]
	if !ok {
		return nil, &ParseError{Kind: ErrUnknownAction, Index: index, ActionType: tag, Excerpt: excerpt(string(raw))}
	}

	d := fieldDecoder{index: index, raw: raw, fields: fields}
	for _, name := range spec.required {
		if v, ok := fields[name]; !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, &ParseError{Kind: ErrMissingField, Index: index, ActionType: tag, Field: name, Excerpt: excerpt(string(raw))}
		}
	}

	hint := Hint{Confirm: d.boolean("confirm")}
	var a Action
	switch typ {
	case TypeCreateFile:
		a = CreateFile{Hint: hint, Path: d.str("path"), Content: d.optStr("content")}
	case TypeWriteFile:
		a = WriteFile{Hint: hint, Path: d.str("path"), Content: d.str("content")}
	case TypeAppendFile:
		a = AppendFile{Hint: hint, Path: d.str("path"), Content: d.str("content"), Create: d.boolean("create")}
	case TypeReadFile:
		a = ReadFile{Hint: hint, Path: d.str("path")}
	case TypeDeleteFile:
		a = DeleteFile{Hint: hint, Path: d.str("path")}
	case TypeCreateDir:
		a = CreateDir{Hint: hint, Path: d.str("path")}
	case TypeMoveFile:
		a = MoveFile{Hint: hint, FromPath: d.str("from_path"), ToPath: d.str("to_path")}
	case TypeCopyFile:
		a = CopyFile{Hint: hint, FromPath: d.str("from_path"), ToPath: d.str("to_path")}
	case TypeListDir:
		a = ListDir{Hint: hint, Path: d.str("path")}
	}
	if d.err != nil {
		return nil, d.err
	}
	return a, nil
}

// fieldDecoder decodes typed fields and keeps the first error.
type fieldDecoder struct {
	index  int
	raw    json.RawMessage
	fields map[string]json.RawMessage
	err    error
}

func (d *fieldDecoder) fail(name string, err error) {
	if d.err == nil {
		d.err = &ParseError{Kind: ErrMalformed, Index: d.index, Field: name, Excerpt: excerpt(string(d.raw)), Err: err}
	}
}

func (d *fieldDecoder) str(name string) string {
	var s string
	if v, ok := d.fields[name]; ok {
		if err := json.Unmarshal(v, &s); err != nil {
			d.fail(name, err)
		}
	}
	return s
}

func (d *fieldDecoder) optStr(name string) *string {
	v, ok := d.fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil
	}
	s := d.str(name)
	return &s
}

func (d *fieldDecoder) boolean(name string) bool {
	var b bool
	if v, ok := d.fields[name]; ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		if err := json.Unmarshal(v, &b); err != nil {
			d.fail(name, err)
		}
	}
	return b
}
