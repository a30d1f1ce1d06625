package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig represents a single status provider to poll.
type ProviderConfig struct {
	ID      string        `yaml:"id"`
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ProvidersFile is the parsed YAML structure for provider configuration:
// providers: [{id, name, url, timeout}]
type ProvidersFile struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// DefaultProviders returns the two built-in providers: the AI-assistant
// platform and the code-hosting platform status pages.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{ID: "assistant", Name: "Anthropic", URL: "https://status.anthropic.com"},
		{ID: "codehost", Name: "GitHub", URL: "https://www.githubstatus.com"},
	}
}

// LoadProvidersFile parses a YAML provider file from the given path.
// An empty path falls back to the built-in provider pair.
func LoadProvidersFile(path string) ([]ProviderConfig, error) {
	if path == "" {
		return DefaultProviders(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	var pf ProvidersFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse providers file: %w", err)
	}

	if err := validateProviders(pf.Providers); err != nil {
		return nil, err
	}

	return pf.Providers, nil
}

// validateProviders ensures all provider entries are valid.
func validateProviders(providers []ProviderConfig) error {
	if len(providers) == 0 {
		return fmt.Errorf("providers file contains no providers")
	}

	seen := make(map[string]bool)

	for i, p := range providers {
		if p.ID == "" {
			return fmt.Errorf("provider %d: id is required", i)
		}

		if p.URL == "" {
			return fmt.Errorf("provider %q: url is required", p.ID)
		}

		if err := validateURL(p.URL, "url"); err != nil {
			return fmt.Errorf("provider %q: %w", p.ID, err)
		}

		if seen[p.ID] {
			return fmt.Errorf("provider %q: duplicate id", p.ID)
		}
		seen[p.ID] = true

		if p.Timeout < 0 {
			return fmt.Errorf("provider %q: timeout cannot be negative", p.ID)
		}
	}

	return nil
}
