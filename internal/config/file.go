package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads, decodes and validates the configuration file at path.
// The format is chosen by extension: .toml (the default config.toml),
// or .yaml/.yml.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	cfg.applyDefaults()

	if err := cfg.resolveSecrets(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveSecrets replaces file-based credentials with the file contents.
func (c *Config) resolveSecrets() error {
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.APIKeyFile == "" {
			continue
		}
		content, err := os.ReadFile(p.APIKeyFile)
		if err != nil {
			return fmt.Errorf("reading api_key_file for provider %s: %w", p.Name, err)
		}
		p.APIKey = strings.TrimSpace(string(content))
	}
	return nil
}
