// Package sandbox confines model-supplied paths to a root directory.
//
// A Path can only be obtained from Sandbox.Validate, so any code that accepts
// a Path instead of a string is guaranteed to operate inside the root.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxLinkHops bounds symlink chains the same way the kernel does (ELOOP).
const maxLinkHops = 40

// Path is a canonical absolute path proven to lie strictly inside a sandbox root.
// Symlinks in its parent directories are resolved; a symlink leaf is kept as
// written so that removing or renaming it acts on the link itself.
type Path struct {
	abs    string
	target string
	rel    string
}

// String returns the canonical absolute path of the entry itself.
func (p Path) String() string {
	return p.abs
}

// Target returns the path with a symlink leaf followed. It equals String
// when the leaf is not a link.
func (p Path) Target() string {
	return p.target
}

// Rel returns the path relative to the sandbox root, for display.
func (p Path) Rel() string {
	return p.rel
}

// IsZero reports whether p was not produced by a validator.
func (p Path) IsZero() bool {
	return p.abs == ""
}

// Sandbox validates candidate paths against a fixed root.
type Sandbox struct {
	root string // absolute, lexically clean
	real string // root with symlinks resolved
}

// New prepares a sandbox rooted at root. The root must exist and be a directory.
func New(root string) (*Sandbox, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("sandbox root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("stat sandbox root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox root is not a directory: %s", root)
	}
	return &Sandbox{root: abs, real: real}, nil
}

// Root returns the canonical sandbox root.
func (s *Sandbox) Root() string {
	return s.real
}

// Validate resolves candidate against the root. Relative paths are joined to
// the root; "." and ".." are resolved lexically; symlinks are followed for
// every existing parent directory, so a linked ancestor cannot redirect the
// target outside. A symlink leaf is kept, but its target must be inside too.
// Components that do not exist yet are taken as written.
func (s *Sandbox) Validate(candidate string) (Path, error) {
	if strings.TrimSpace(candidate) == "" {
		return Path{}, invalid(candidate, "empty path")
	}
	if strings.ContainsRune(candidate, 0) {
		return Path{}, invalid(candidate, "path contains NUL byte")
	}

	target := candidate
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.root, target)
	}
	target = filepath.Clean(target)

	// Reject lexical escapes before touching the filesystem.
	if !within(s.root, target) && !within(s.real, target) {
		return Path{}, outside(candidate, "resolves outside "+s.real)
	}

	if target == s.root || target == s.real {
		return Path{}, invalid(candidate, "path is the sandbox root")
	}

	parent, err := resolve(filepath.Dir(target), 0)
	if err != nil {
		return Path{}, outside(candidate, err.Error())
	}
	if !within(s.real, parent) {
		return Path{}, outside(candidate, "resolves to "+parent)
	}
	entry := filepath.Join(parent, filepath.Base(target))

	// A symlink leaf must also point inside the root.
	resolved, err := resolve(entry, 0)
	if err != nil {
		return Path{}, outside(candidate, err.Error())
	}
	if resolved == s.real {
		return Path{}, invalid(candidate, "path is the sandbox root")
	}
	if !within(s.real, resolved) {
		return Path{}, outside(candidate, "resolves to "+resolved)
	}
	rel, err := filepath.Rel(s.real, entry)
	if err != nil {
		return Path{}, outside(candidate, err.Error())
	}
	return Path{abs: entry, target: resolved, rel: rel}, nil
}

// Validate is a convenience wrapper for one-off checks against root.
func Validate(candidate, root string) (Path, error) {
	sb, err := New(root)
	if err != nil {
		return Path{}, invalid(candidate, err.Error())
	}
	return sb.Validate(candidate)
}

// within reports whether p equals root or is a descendant of it.
func within(root, p string) bool {
	if p == root {
		return true
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// resolve follows symlinks in the longest existing prefix of p and appends
// the non-existent remainder unchanged. Dangling links are chased by hand
// because writing through one would create its target.
func resolve(p string, hops int) (string, error) {
	if hops > maxLinkHops {
		return "", errors.New("too many levels of symbolic links")
	}

	existing := p
	var rest []string
	for {
		// ENOENT and ENOTDIR both mean the component is not there yet.
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}

	real, err := filepath.EvalSymlinks(existing)
	if err == nil {
		return filepath.Join(append([]string{real}, rest...)...), nil
	}

	// existing is a dangling symlink; its parent resolves.
	link, lerr := os.Readlink(existing)
	if lerr != nil {
		return "", err
	}
	parent, perr := filepath.EvalSymlinks(filepath.Dir(existing))
	if perr != nil {
		return "", perr
	}
	if !filepath.IsAbs(link) {
		link = filepath.Join(parent, link)
	}
	return resolve(filepath.Join(append([]string{filepath.Clean(link)}, rest...)...), hops+1)
}
