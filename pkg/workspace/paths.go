package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// PromptFile in the sandbox root replaces the built-in base prompt.
	PromptFile = "JUNIOR.md"
	// HomeDirName is the per-user state directory under $HOME.
	HomeDirName = ".junior"
)

// Resolve returns the sandbox root: JUNIOR_WORKSPACE if set, else the
// process working directory.
func Resolve() string {
	if ws := os.Getenv("JUNIOR_WORKSPACE"); ws != "" {
		return ws
	}
	pwd, _ := os.Getwd()
	return pwd
}

// HomeDir returns ~/.junior.
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, HomeDirName)
}

// ExpandPath expands a leading ~ and $VAR references.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// HistoryDir is the default transcript directory.
func HistoryDir() string {
	return filepath.Join(HomeDir(), "history")
}
