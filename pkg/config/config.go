package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the pageforge configuration
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Owner string `yaml:"owner"`
	Token string `yaml:"token,omitempty"`
}

// DefaultsConfig holds default provisioning settings applied when a
// manifest does not specify them.
type DefaultsConfig struct {
	Visibility  string `yaml:"visibility"`
	Branch      string `yaml:"branch"`
	Concurrency int    `yaml:"concurrency"`
}

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	// Create config directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may contain a token, keep it private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".pageforge", "config.yaml"), nil
}

// ResolveToken returns the GitHub token from the environment or the config
// file. Environment variables take precedence so CI can override a stored
// token.
func (c *Config) ResolveToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return strings.TrimSpace(token), nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return strings.TrimSpace(token), nil
	}
	if c != nil && c.GitHub.Token != "" {
		return strings.TrimSpace(c.GitHub.Token), nil
	}

	return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN or GH_TOKEN, or configure token in ~/.pageforge/config.yaml")
}

// ResolveOwner returns the owning account from the environment or the
// config file.
func (c *Config) ResolveOwner() string {
	if owner := os.Getenv("GITHUB_USERNAME"); owner != "" {
		return strings.TrimSpace(owner)
	}
	if c != nil {
		return c.GitHub.Owner
	}
	return ""
}
