package config

import (
	"os"
	"path/filepath"
	"testing"
)

// --- Validate ---

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidate_MaxConcurrent_Bounds(t *testing.T) {
	cfg := Defaults()
	cfg.General.MaxConcurrent = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for maxConcurrent=0")
	}

	cfg.General.MaxConcurrent = 11
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for maxConcurrent=11")
	}

	cfg.General.MaxConcurrent = 1
	if err := Validate(cfg); err != nil {
		t.Fatalf("maxConcurrent=1 should be valid: %v", err)
	}
}

func TestValidate_InvalidProvider(t *testing.T) {
	cfg := Defaults()
	cfg.LLM.DefaultProvider = "ollama"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidate_ValidProviders(t *testing.T) {
	for _, name := range []string{"anthropic", "openai", "google"} {
		cfg := Defaults()
		cfg.LLM.DefaultProvider = name
		if err := Validate(cfg); err != nil {
			t.Fatalf("provider %q should be valid: %v", name, err)
		}
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for negative port")
	}

	cfg.Server.Port = 70000
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for port > 65535")
	}
}

func TestValidate_InvocationTimeoutTooShort(t *testing.T) {
	cfg := Defaults()
	cfg.General.InvocationTimeoutSeconds = 5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for invocationTimeoutSeconds=5")
	}
}

// --- Load ---

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"general": {"maxConcurrent": 3}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.MaxConcurrent != 3 {
		t.Fatalf("expected maxConcurrent=3, got %d", cfg.General.MaxConcurrent)
	}
	if cfg.LLM.DefaultProvider != "google" {
		t.Fatalf("expected default provider to survive merge, got %q", cfg.LLM.DefaultProvider)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"llm": {"defaultProvider": "bogus"}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

// --- Env var expansion ---

func TestExpandEnvVars_Set(t *testing.T) {
	t.Setenv("LINKREACH_TEST_VAR", "value123")
	out := ExpandEnvVars(`{"apiKey": "${LINKREACH_TEST_VAR}"}`)
	if out != `{"apiKey": "value123"}` {
		t.Fatalf("unexpected expansion: %s", out)
	}
}

func TestExpandEnvVars_DefaultUsed(t *testing.T) {
	out := ExpandEnvVars(`${LINKREACH_UNSET_VAR:-fallback}`)
	if out != "fallback" {
		t.Fatalf("expected fallback, got %q", out)
	}
}

func TestExpandEnvVars_UnsetNoDefault(t *testing.T) {
	in := `${LINKREACH_UNSET_VAR}`
	if out := ExpandEnvVars(in); out != in {
		t.Fatalf("expected original preserved, got %q", out)
	}
}

func TestExpandEnvVars_EnvOverridesDefault(t *testing.T) {
	t.Setenv("LINKREACH_TEST_VAR2", "real")
	out := ExpandEnvVars(`${LINKREACH_TEST_VAR2:-fallback}`)
	if out != "real" {
		t.Fatalf("expected env value, got %q", out)
	}
}
