// Package config loads junior settings from YAML or TOML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/sameehj/junior/pkg/policy"
	"github.com/sameehj/junior/pkg/tool"
	"github.com/sameehj/junior/pkg/workspace"
)

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultTimeout  = 90 * time.Second
)

// Config defines runtime settings for junior.
type Config struct {
	APIKey        string             `yaml:"api_key" toml:"api_key"`
	Model         string             `yaml:"model" toml:"model"`
	Endpoint      string             `yaml:"endpoint" toml:"endpoint"`
	HistoryDir    string             `yaml:"history_directory_path" toml:"history_directory_path"`
	LogLevel      string             `yaml:"log_level" toml:"log_level"`
	LogFormat     string             `yaml:"log_format" toml:"log_format"`
	ConfirmPolicy tool.ConfirmPolicy `yaml:"confirm_policy" toml:"confirm_policy"`
	Timeout       Duration           `yaml:"timeout" toml:"timeout"`
	MaxReadBytes  int64              `yaml:"max_read_bytes" toml:"max_read_bytes"`
	// MaxTokens caps the completion length; zero leaves it to the endpoint.
	MaxTokens int `yaml:"max_tokens" toml:"max_tokens"`

	AllowedActions []string `yaml:"allowed_actions" toml:"allowed_actions"`
	BlockedActions []string `yaml:"blocked_actions" toml:"blocked_actions"`
}

// Duration decodes Go duration strings such as "90s" from either format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Model:         DefaultModel,
		Endpoint:      DefaultEndpoint,
		HistoryDir:    workspace.HistoryDir(),
		LogLevel:      "info",
		LogFormat:     "text",
		ConfirmPolicy: tool.TrustModelHint,
		Timeout:       Duration{DefaultTimeout},
		MaxReadBytes:  tool.DefaultMaxReadBytes,
	}
}

// LoadConfig loads configuration from path and applies environment
// overrides. An empty path means DefaultConfigPath, which may be absent.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	if err := cfg.decodeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.HistoryDir = workspace.ExpandPath(cfg.HistoryDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv("JUNIOR_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("JUNIOR_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("JUNIOR_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("JUNIOR_HISTORY_DIR"); v != "" {
		cfg.HistoryDir = v
	}
	if v := os.Getenv("JUNIOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("JUNIOR_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("JUNIOR_CONFIRM_POLICY"); v != "" {
		cfg.ConfirmPolicy = tool.ConfirmPolicy(v)
	}
	if v := os.Getenv("JUNIOR_TIMEOUT"); v != "" {
		if err := cfg.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("JUNIOR_TIMEOUT: %w", err)
		}
	}
	if v := os.Getenv("JUNIOR_MAX_READ_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("JUNIOR_MAX_READ_BYTES: %w", err)
		}
		cfg.MaxReadBytes = n
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return errors.New("endpoint is required")
	}
	policy, err := tool.ParsePolicy(string(cfg.ConfirmPolicy))
	if err != nil {
		return err
	}
	cfg.ConfirmPolicy = policy
	if cfg.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if _, err := cfg.ActionPolicy(); err != nil {
		return err
	}
	if cfg.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", cfg.MaxTokens)
	}
	if cfg.MaxReadBytes <= 0 {
		cfg.MaxReadBytes = tool.DefaultMaxReadBytes
	}
	return nil
}

// ActionPolicy builds the action allow/block lists.
func (cfg *Config) ActionPolicy() (*policy.Policy, error) {
	return policy.FromNames(cfg.AllowedActions, cfg.BlockedActions)
}

// DefaultConfigPath returns the default location for the CLI config file.
func DefaultConfigPath() string {
	if path := os.Getenv("JUNIOR_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	tomlPath := filepath.Join(home, ".junior.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return filepath.Join(workspace.HomeDir(), "config.yaml")
}
