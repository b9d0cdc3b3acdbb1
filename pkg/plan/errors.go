package plan

import (
	"errors"
	"fmt"
)

// Parse errors. Any of them rejects the whole response.
var (
	// ErrMalformed is returned when the response is not a single plan object.
	ErrMalformed = errors.New("malformed response")

	// ErrUnknownAction is returned for an unrecognised action_type.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingField is returned when an action lacks a required field.
	ErrMissingField = errors.New("missing field")
)

// excerptLimit caps how much offending text is echoed back to the user.
const excerptLimit = 120

// ParseError describes why a response was rejected. Index is -1 when the
// problem is not tied to a single action.
type ParseError struct {
	Kind       error
	Index      int
	ActionType string
	Field      string
	Excerpt    string
	Err        error
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at action %d", msg, e.Index)
	}
	switch {
	case e.Kind == ErrUnknownAction:
		msg = fmt.Sprintf("%s: %q", msg, e.ActionType)
	case e.Field != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Excerpt != "" {
		msg = fmt.Sprintf("%s (near %q)", msg, e.Excerpt)
	}
	return msg
}

func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLimit {
		return s
	}
	return string(r[:excerptLimit]) + "..."
}
