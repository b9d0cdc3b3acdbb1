package tool

import (
	"fmt"
	"strings"

	"github.com/sameehj/junior/pkg/plan"
)

// ConfirmPolicy decides whether destructive steps may proceed.
type ConfirmPolicy string

const (
	// AlwaysConfirm asks the Confirmer for every destructive step.
	AlwaysConfirm ConfirmPolicy = "always"
	// TrustModelHint proceeds only when the action carries "confirm": true.
	TrustModelHint ConfirmPolicy = "trust-hint"
	// NeverConfirm proceeds without asking.
	NeverConfirm ConfirmPolicy = "never"
)

// ParsePolicy accepts the config and flag spellings of a policy.
func ParsePolicy(s string) (ConfirmPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "always-confirm":
		return AlwaysConfirm, nil
	case "", "trust-hint", "trust_hint", "hint":
		return TrustModelHint, nil
	case "never", "never-confirm":
		return NeverConfirm, nil
	default:
		return "", fmt.Errorf("unknown confirm policy %q (must be always, trust-hint or never)", s)
	}
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

func (f ConfirmFunc) Confirm(question string) bool { return f(question) }

// permitted reports whether a destructive step of a may proceed.
func (e *Executor) permitted(a plan.Action, question string) bool {
	switch e.policy {
	case NeverConfirm:
		return true
	case AlwaysConfirm:
		return e.confirmer != nil && e.confirmer.Confirm(question)
	default:
		return a.ConfirmHint()
	}
}
