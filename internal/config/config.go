// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Metadata  string `json:"metadata,omitempty"`  // Path to project metadata JSON file
	Proposal  string `json:"proposal,omitempty"`  // Path to proposal sections JSON file
	Reference string `json:"reference,omitempty"` // Path to reference document (pdf, docx, or txt)
	Output    string `json:"output,omitempty"`    // Path for exported documents

	// Behavior
	APIKey     string `json:"api_key,omitempty"`     // Gemini API key
	Model      string `json:"model,omitempty"`       // Override model for all tiers
	Port       int    `json:"port,omitempty"`        // HTTP server port
	SessionTTL string `json:"session_ttl,omitempty"` // Idle session lifetime, e.g. "2h"
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	for name, path := range map[string]string{
		"metadata":  c.Metadata,
		"proposal":  c.Proposal,
		"reference": c.Reference,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// ResolveAPIKey returns the API key from config or the GEMINI_API_KEY /
// GOOGLE_API_KEY environment variables, in that order.
func (c *Config) ResolveAPIKey() string {
	if c != nil && c.APIKey != "" {
		return c.APIKey
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}
