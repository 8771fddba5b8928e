package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for linkreach.
type Config struct {
	General GeneralConfig `json:"general"`
	Browser BrowserConfig `json:"browser"`
	LLM     LLMConfig     `json:"llm"`
	Server  ServerConfig  `json:"server"`
	Metrics MetricsConfig `json:"metrics"`
}

type GeneralConfig struct {
	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile,omitempty"` // optional log file path

	// MaxConcurrent caps simultaneous invocations. Kept small on purpose:
	// parallel outreach from one account trips LinkedIn's abuse detection.
	MaxConcurrent int `json:"maxConcurrent"`

	// ActionsPerMinute paces browser work across all invocations.
	ActionsPerMinute float64 `json:"actionsPerMinute"`

	// InvocationTimeoutSeconds is the wall-clock deadline for one full
	// invocation, independent of the per-step timeouts.
	InvocationTimeoutSeconds int `json:"invocationTimeoutSeconds"`
}

type BrowserConfig struct {
	Headless               bool   `json:"headless"`
	NavigateTimeoutSeconds int    `json:"navigateTimeoutSeconds"`
	ActionTimeoutSeconds   int    `json:"actionTimeoutSeconds"`
	UserAgent              string `json:"userAgent,omitempty"`
}

type LLMConfig struct {
	DefaultProvider string            `json:"defaultProvider"` // anthropic | openai | google
	TimeoutSeconds  int               `json:"timeoutSeconds"`
	Models          map[string]string `json:"models,omitempty"` // per-provider default model override
}

type ServerConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	APIKey string `json:"apiKey,omitempty"` // optional static key for the execute endpoint
}

type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.linkreach).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linkreach"
	}
	return filepath.Join(home, ".linkreach")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	if cfg.General.MaxConcurrent < 1 || cfg.General.MaxConcurrent > 10 {
		errs = append(errs, "general.maxConcurrent must be between 1 and 10")
	}
	if cfg.General.ActionsPerMinute <= 0 {
		errs = append(errs, "general.actionsPerMinute must be > 0")
	}
	if cfg.General.InvocationTimeoutSeconds < 10 {
		errs = append(errs, "general.invocationTimeoutSeconds must be >= 10")
	}

	if cfg.Browser.NavigateTimeoutSeconds < 1 {
		errs = append(errs, "browser.navigateTimeoutSeconds must be >= 1")
	}
	if cfg.Browser.ActionTimeoutSeconds < 1 {
		errs = append(errs, "browser.actionTimeoutSeconds must be >= 1")
	}

	switch cfg.LLM.DefaultProvider {
	case "anthropic", "openai", "google":
		// valid
	default:
		errs = append(errs, "llm.defaultProvider must be one of: anthropic, openai, google")
	}
	if cfg.LLM.TimeoutSeconds < 1 {
		errs = append(errs, "llm.timeoutSeconds must be >= 1")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
