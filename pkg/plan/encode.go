package plan

import "encoding/json"

// Fields returns the wire representation of a, as the model would send it.
func Fields(a Action) map[string]any {
	m := map[string]any{"action_type": string(a.Type())}
	switch v := a.(type) {
	case CreateFile:
		m["path"] = v.Path
		if v.Content != nil {
			m["content"] = *v.Content
		}
	case WriteFile:
		m["path"] = v.Path
		m["content"] = v.Content
	case AppendFile:
		m["path"] = v.Path
		m["content"] = v.Content
		if v.Create {
			m["create"] = true
		}
	case ReadFile:
		m["path"] = v.Path
	case DeleteFile:
		m["path"] = v.Path
	case CreateDir:
		m["path"] = v.Path
	case MoveFile:
		m["from_path"] = v.FromPath
		m["to_path"] = v.ToPath
	case CopyFile:
		m["from_path"] = v.FromPath
		m["to_path"] = v.ToPath
	case ListDir:
		m["path"] = v.Path
	}
	if a.ConfirmHint() {
		m["confirm"] = true
	}
	return m
}

// MarshalJSON encodes the plan in the same shape Parse accepts.
func (p Plan) MarshalJSON() ([]byte, error) {
	actions := make([]map[string]any, 0, len(p.Actions))
	for _, a := range p.Actions {
		actions = append(actions, Fields(a))
	}
	return json.Marshal(struct {
		Explanation string           `json:"explanation"`
		Actions     []map[string]any `json:"actions"`
	}{p.Explanation, actions})
}
