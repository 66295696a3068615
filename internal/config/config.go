package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/prana/studio/internal/model"
)

// DefaultBaseURL points at a locally running studio backend.
const DefaultBaseURL = "http://localhost:5000/api"

// Config holds the persisted application state: where the backend lives and
// the credentials of the logged-in user, if any.
type Config struct {
	BaseURL   string      `json:"base_url"`
	AuthToken string      `json:"auth_token,omitempty"`
	User      *model.User `json:"user,omitempty"`
}

// DefaultConfig returns the configuration used before any login.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
	}
}

// configDir returns the config directory path (~/.prana)
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".prana"), nil
}

// configPath returns the full config file path (~/.prana/config.json)
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk. A missing file yields the default config
// rather than an error, so first runs need no setup step.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return &cfg, nil
}

// Save writes the config to disk, creating ~/.prana if needed.
func Save(cfg *Config) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
