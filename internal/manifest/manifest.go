// Package manifest describes the agent's capabilities to a hosting runtime:
// which credentials it needs, how long an invocation may run, and how many
// invocations may overlap. The host uses this for admission and validation;
// the core never reads it at run time.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CredentialSet is one acceptable combination of credential keys. The host
// must supply every key of at least one set.
type CredentialSet struct {
	Keys []string `yaml:"keys"`
	Note string   `yaml:"note,omitempty"`
}

// Manifest is the declared capability metadata.
type Manifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`

	// RequiredCredentials lists alternative credential sets; one must be
	// satisfied in full.
	RequiredCredentials []CredentialSet `yaml:"required_credentials"`
	OptionalCredentials []string        `yaml:"optional_credentials,omitempty"`

	// TimeoutCeilingSeconds is the longest a single invocation may run.
	TimeoutCeilingSeconds int `yaml:"timeout_ceiling_seconds"`
	// MaxConcurrency hints how many invocations the host should admit at once.
	MaxConcurrency int `yaml:"max_concurrency"`

	Actions []string `yaml:"actions"`
}

// Default returns the manifest shipped with this build.
func Default() Manifest {
	return Manifest{
		Name:        "linkreach",
		Version:     "1.0.0",
		Description: "Sends personalized LinkedIn connection requests and messages.",
		RequiredCredentials: []CredentialSet{
			{
				Keys: []string{"LINKEDIN_SESSION_COOKIE"},
				Note: "recommended, avoids security checkpoints",
			},
			{
				Keys: []string{"LINKEDIN_EMAIL", "LINKEDIN_PASSWORD"},
				Note: "may trigger security verification",
			},
		},
		OptionalCredentials:   []string{"LLM_API_KEY", "LLM_PROVIDER", "LLM_MODEL"},
		TimeoutCeilingSeconds: 90,
		MaxConcurrency:        2,
		Actions:               []string{"connect", "message"},
	}
}

// Load reads a manifest from a YAML file.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks structural invariants.
func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name is required")
	}
	if len(m.RequiredCredentials) == 0 {
		return fmt.Errorf("manifest: at least one required credential set")
	}
	for i, set := range m.RequiredCredentials {
		if len(set.Keys) == 0 {
			return fmt.Errorf("manifest: credential set %d has no keys", i)
		}
	}
	if m.TimeoutCeilingSeconds <= 0 {
		return fmt.Errorf("manifest: timeout_ceiling_seconds must be positive")
	}
	if m.MaxConcurrency <= 0 {
		return fmt.Errorf("manifest: max_concurrency must be positive")
	}
	if len(m.Actions) == 0 {
		return fmt.Errorf("manifest: at least one action")
	}
	return nil
}

// YAML renders the manifest for the host.
func (m Manifest) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// Satisfied reports whether the key bag fulfills at least one required
// credential set. Only key presence is checked, never values.
func (m Manifest) Satisfied(keys map[string]string) bool {
	for _, set := range m.RequiredCredentials {
		ok := true
		for _, k := range set.Keys {
			if keys[k] == "" {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
