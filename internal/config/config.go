// Package config loads client configuration. Precedence, highest first:
// environment variables, the YAML config file, built-in defaults. A .env
// file, when present in the working directory, is folded into the
// environment by the root command before this package runs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Assist AssistConfig `yaml:"assist"`
}

// APIConfig points the client at the exercise-platform backend.
type APIConfig struct {
	// BaseURL includes the /api prefix.
	BaseURL string `yaml:"base_url"`
}

// AssistConfig configures the optional AI template-drafting helper. Assist
// is disabled when APIKey is empty.
type AssistConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{BaseURL: "http://localhost:8000/api"},
	}
}

// Load reads the config file at path (missing file is not an error) and
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SKILLFORGE_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("SKILLFORGE_ASSIST_API_KEY"); v != "" {
		cfg.Assist.APIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.Assist.APIKey == "" {
		cfg.Assist.APIKey = v
	}
	if v := os.Getenv("SKILLFORGE_ASSIST_MODEL"); v != "" {
		cfg.Assist.Model = v
	}
	if v := os.Getenv("SKILLFORGE_ASSIST_BASE_URL"); v != "" {
		cfg.Assist.BaseURL = v
	}
}

// DefaultPath resolves the config file location:
// 1. SKILLFORGE_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/skillforge/config.yaml
// 3. ~/.config/skillforge/config.yaml
func DefaultPath() string {
	if p := os.Getenv("SKILLFORGE_CONFIG"); p != "" {
		return p
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "skillforge", "config.yaml")
}
