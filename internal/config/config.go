package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConcurrency = 10
	DefaultTimeoutSecs = 120
	DefaultProvider    = "zhipu"
)

// Config is loaded once at startup and read-only afterward. The file is YAML;
// a JSON config parses as well since YAML is a superset.
type Config struct {
	APIKey      string `yaml:"api_key"`
	APIEndpoint string `yaml:"api_endpoint"`
	ModelName   string `yaml:"model_name"`

	MaxConcurrency int `yaml:"max_concurrency"`
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Provider selects the OCR backend: "zhipu" (default) or "gemini".
	Provider string `yaml:"provider"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultConcurrency
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSecs
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}

	if c.APIKey == "" {
		return nil, errors.New("config: api_key is required")
	}
	if c.Provider == DefaultProvider && c.APIEndpoint == "" {
		return nil, errors.New("config: api_endpoint is required")
	}

	return &c, nil
}
