package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// contextPreamble introduces an embedded context file.
const contextPreamble = "Let's take a look at this together:\n\n"

type PromptComponents struct {
	Base     string
	Contract string
	Defs     string
}

// LoadPromptComponents reads JUNIOR.md from the workspace, falling back to
// DefaultBasePrompt.
func LoadPromptComponents(workspace string) (*PromptComponents, error) {
	pc := &PromptComponents{Base: DefaultBasePrompt, Contract: ResponseContract}

	base, err := os.ReadFile(filepath.Join(workspace, PromptFile))
	switch {
	case err == nil:
		pc.Base = string(base)
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read %s: %w", PromptFile, err)
	}
	return pc, nil
}

// Compose renders the system prompt.
func (pc *PromptComponents) Compose() string {
	var buf strings.Builder

	buf.WriteString(strings.TrimSpace(pc.Base))
	buf.WriteString("\n\n")

	if pc.Contract != "" {
		buf.WriteString(strings.TrimSpace(pc.Contract))
		buf.WriteString("\n\n")
	}

	if pc.Defs != "" {
		buf.WriteString("## Action Definitions\n\n")
		buf.WriteString(pc.Defs)
		buf.WriteString("\n")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n"
}

// ContextMessage wraps the contents of a context file for the model.
func ContextMessage(contents string) string {
	return contextPreamble + contents
}

// ReadContextFile loads the user-supplied context file.
func ReadContextFile(path string) (string, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("read context file: %w", err)
	}
	return string(data), nil
}
