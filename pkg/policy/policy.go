// Package policy decides which action types a plan may use at all.
package policy

import (
	"fmt"
	"strings"

	"github.com/sameehj/junior/pkg/plan"
)

type Policy struct {
	Allow []plan.ActionType
	Block []plan.ActionType
}

// Default allows every action type.
func Default() *Policy {
	return &Policy{}
}

// FromNames builds a policy from configured action names. Unknown names are
// rejected so a typo cannot silently disable a block.
func FromNames(allow, block []string) (*Policy, error) {
	p := &Policy{}
	for _, name := range allow {
		t, err := lookup(name)
		if err != nil {
			return nil, fmt.Errorf("allowed_actions: %w", err)
		}
		p.Allow = append(p.Allow, t)
	}
	for _, name := range block {
		t, err := lookup(name)
		if err != nil {
			return nil, fmt.Errorf("blocked_actions: %w", err)
		}
		p.Block = append(p.Block, t)
	}
	return p, nil
}

func lookup(name string) (plan.ActionType, error) {
	t := plan.ActionType(strings.ToLower(strings.TrimSpace(name)))
	if !plan.Known(t) {
		return "", fmt.Errorf("unknown action type %q", name)
	}
	return t, nil
}

// IsAllowed reports whether actions of type t may run. Block wins over Allow;
// an empty Allow list allows everything not blocked.
func (p *Policy) IsAllowed(t plan.ActionType) bool {
	if p == nil {
		return true
	}
	for _, b := range p.Block {
		if b == t {
			return false
		}
	}
	if len(p.Allow) == 0 {
		return true
	}
	for _, a := range p.Allow {
		if a == t {
			return true
		}
	}
	return false
}
