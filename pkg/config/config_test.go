package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/tool"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"JUNIOR_CONFIG", "JUNIOR_API_KEY", "OPENAI_API_KEY", "JUNIOR_MODEL",
		"JUNIOR_ENDPOINT", "JUNIOR_HISTORY_DIR", "JUNIOR_LOG_LEVEL",
		"JUNIOR_LOG_FORMAT", "JUNIOR_CONFIRM_POLICY", "JUNIOR_TIMEOUT",
		"JUNIOR_MAX_READ_BYTES",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Logf("Missing default config file should yield defaults")
	home := isolate(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, filepath.Join(home, ".junior", "history"), cfg.HistoryDir)
	assert.Equal(t, tool.TrustModelHint, cfg.ConfirmPolicy)
	assert.Equal(t, 90*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, int64(tool.DefaultMaxReadBytes), cfg.MaxReadBytes)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfigYAML(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_key: sk-file
model: gpt-4o
history_directory_path: ~/sessions
confirm_policy: always
timeout: 30s
max_read_bytes: 2048
max_tokens: 512
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, filepath.Join(home, "sessions"), cfg.HistoryDir)
	assert.Equal(t, tool.AlwaysConfirm, cfg.ConfirmPolicy)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, int64(2048), cfg.MaxReadBytes)
	assert.Equal(t, 512, cfg.MaxTokens)
}

func TestLoadConfigTOML(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".junior.toml")
	content := `model = "llama3"
endpoint = "http://localhost:11434/v1/chat/completions"
confirm_policy = "never"
timeout = "2m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	assert.Equal(t, path, DefaultConfigPath())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "llama3", cfg.Model)
	assert.Equal(t, "http://localhost:11434/v1/chat/completions", cfg.Endpoint)
	assert.Equal(t, tool.NeverConfirm, cfg.ConfirmPolicy)
	assert.Equal(t, 2*time.Minute, cfg.Timeout.Duration)
}

func TestActionPolicy(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `allowed_actions = ["read_file", "list_dir"]
blocked_actions = ["list_dir"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	p, err := cfg.ActionPolicy()
	require.NoError(t, err)
	assert.True(t, p.IsAllowed(plan.TypeReadFile))
	assert.False(t, p.IsAllowed(plan.TypeListDir))
	assert.False(t, p.IsAllowed(plan.TypeWriteFile))
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o\n"), 0o644))

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("JUNIOR_MODEL", "gpt-4.1")
	t.Setenv("JUNIOR_HISTORY_DIR", "$JUNIOR_TEST_ROOT/history")
	t.Setenv("JUNIOR_TEST_ROOT", "/srv/junior")
	t.Setenv("JUNIOR_TIMEOUT", "5s")
	t.Setenv("JUNIOR_CONFIRM_POLICY", "hint")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.Model)
	assert.Equal(t, "/srv/junior/history", cfg.HistoryDir)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, tool.TrustModelHint, cfg.ConfirmPolicy)

	t.Setenv("JUNIOR_API_KEY", "sk-junior")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-junior", cfg.APIKey)
}

func TestLoadConfigErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "explicit missing file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("confirm_policy: sometimes\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "unknown confirm policy")

	negative := filepath.Join(dir, "negative.toml")
	require.NoError(t, os.WriteFile(negative, []byte("max_tokens = -1\n"), 0o644))
	_, err = LoadConfig(negative)
	assert.ErrorContains(t, err, "max_tokens must not be negative")

	zero := filepath.Join(dir, "zero.toml")
	require.NoError(t, os.WriteFile(zero, []byte("timeout = \"0s\"\n"), 0o644))
	_, err = LoadConfig(zero)
	assert.ErrorContains(t, err, "timeout must be positive")

	blocked := filepath.Join(dir, "blocked.yaml")
	require.NoError(t, os.WriteFile(blocked, []byte("blocked_actions: [exec]\n"), 0o644))
	_, err = LoadConfig(blocked)
	assert.ErrorContains(t, err, "unknown action type")

	t.Setenv("JUNIOR_ENDPOINT", " ")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "endpoint is required")
}

func TestDefaultConfigPath(t *testing.T) {
	home := isolate(t)
	assert.Equal(t, filepath.Join(home, ".junior", "config.yaml"), DefaultConfigPath())

	t.Setenv("JUNIOR_CONFIG", "/etc/junior.yaml")
	assert.Equal(t, "/etc/junior.yaml", DefaultConfigPath())
}
