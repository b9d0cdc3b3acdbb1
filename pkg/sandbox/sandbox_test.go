package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSandbox(t *testing.T) (*Sandbox, string) {
	t.Helper()
	dir := t.TempDir()
	sb, err := New(dir)
	require.NoError(t, err)
	return sb, sb.Root()
}

func TestValidateRejectsTraversal(t *testing.T) {
	t.Logf("paths whose .. segments net-escape the root are outside the sandbox")
	sb, _ := newSandbox(t)
	cases := []string{
		"../outside.txt",
		"..",
		"a/../../b",
		"a/b/../../../c",
		"./../../etc/passwd",
		"../" + filepath.Base(sb.Root()) + "x/file",
	}
	for _, c := range cases {
		_, err := sb.Validate(c)
		require.Error(t, err, c)
		assert.True(t, errors.Is(err, ErrOutsideSandbox), "%s: %v", c, err)
	}
}

func TestValidateRejectsAbsoluteOutside(t *testing.T) {
	sb, _ := newSandbox(t)
	other := t.TempDir()
	for _, c := range []string{"/", "/etc/passwd", filepath.Join(other, "x.txt")} {
		_, err := sb.Validate(c)
		assert.ErrorIs(t, err, ErrOutsideSandbox, c)
	}
}

func TestValidateRejectsRootAndEmpty(t *testing.T) {
	sb, root := newSandbox(t)
	for _, c := range []string{"", "   ", ".", "./", "a/..", root} {
		_, err := sb.Validate(c)
		assert.ErrorIs(t, err, ErrInvalidTarget, "%q", c)
	}
}

func TestValidateAcceptsDescendants(t *testing.T) {
	t.Logf("strict descendants resolve to absolute paths inside the root")
	sb, root := newSandbox(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	cases := map[string]string{
		"notes/today.md":         "notes/today.md",
		"./src/main.go":          "src/main.go",
		"src/../README.md":       "README.md",
		"a/b/../c":               "a/c",
		filepath.Join(root, "x"): "x",
	}
	for in, rel := range cases {
		p, err := sb.Validate(in)
		require.NoError(t, err, in)
		assert.True(t, filepath.IsAbs(p.String()), in)
		assert.True(t, strings.HasPrefix(p.String(), root+string(filepath.Separator)), in)
		assert.Equal(t, rel, filepath.ToSlash(p.Rel()), in)
	}
}

func TestValidateSymlinkedAncestorEscape(t *testing.T) {
	t.Logf("a symlinked directory pointing outside must not redirect writes")
	sb, root := newSandbox(t)
	outsideDir := t.TempDir()
	require.NoError(t, os.Symlink(outsideDir, filepath.Join(root, "escape")))

	_, err := sb.Validate("escape/new.txt")
	assert.ErrorIs(t, err, ErrOutsideSandbox)

	_, err = sb.Validate("escape/deeper/new.txt")
	assert.ErrorIs(t, err, ErrOutsideSandbox)
}

func TestValidateDanglingSymlinkEscape(t *testing.T) {
	sb, root := newSandbox(t)
	outsideDir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(outsideDir, "missing.txt"), filepath.Join(root, "link.txt")))

	_, err := sb.Validate("link.txt")
	assert.ErrorIs(t, err, ErrOutsideSandbox)
}

func TestValidateSymlinkInsideSandbox(t *testing.T) {
	sb, root := newSandbox(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	p, err := sb.Validate("alias/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "real", "file.txt"), p.String())
}

func TestValidateFunctionWrapper(t *testing.T) {
	root := t.TempDir()
	_, err := Validate("../outside.txt", root)
	assert.ErrorIs(t, err, ErrOutsideSandbox)

	p, err := Validate("inside.txt", root)
	require.NoError(t, err)
	assert.Equal(t, "inside.txt", p.Rel())

	_, err = Validate("x", filepath.Join(root, "does-not-exist"))
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestPathErrorMessage(t *testing.T) {
	sb, _ := newSandbox(t)
	_, err := sb.Validate("../outside.txt")
	var pe *PathError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "../outside.txt", pe.Path)
	assert.Contains(t, err.Error(), "outside sandbox")
}

func TestZeroPath(t *testing.T) {
	assert.True(t, Path{}.IsZero())
}

func TestValidateBeneathRegularFile(t *testing.T) {
	t.Logf("a path below a regular file is validated lexically and left to the executor")
	sb, root := newSandbox(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), nil, 0o644))
	p, err := sb.Validate("file/sub")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "file", "sub"), p.String())
}

func TestValidateSymlinkLeafKeepsLinkPath(t *testing.T) {
	t.Logf("a symlink leaf is reported as itself, with its target checked separately")
	sb, root := newSandbox(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(root, "link.txt")))

	p, err := sb.Validate("link.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "link.txt"), p.String())
	assert.Equal(t, filepath.Join(root, "real.txt"), p.Target())
	assert.Equal(t, "link.txt", p.Rel())

	plain, err := sb.Validate("real.txt")
	require.NoError(t, err)
	assert.Equal(t, plain.String(), plain.Target())
}

func TestValidateSymlinkLeafToRoot(t *testing.T) {
	sb, root := newSandbox(t)
	require.NoError(t, os.Symlink(".", filepath.Join(root, "self")))
	_, err := sb.Validate("self")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
