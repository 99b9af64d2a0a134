// Package config handles loading and validation of ddnsd configuration.
package config

import (
	"fmt"
	"time"

	"gitlab.bluewillows.net/root/ddnsd/pkg/provider"
)

// Defaults for the server section.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 3000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultUpdateTimeout = 30 * time.Second
)

// Config is the complete ddnsd configuration. It is loaded once at startup
// and treated as immutable; all concurrent requests share it read-only.
type Config struct {
	Server    ServerConfig `toml:"server" yaml:"server"`
	Providers []Provider   `toml:"providers" yaml:"providers"`
}

// ServerConfig holds the HTTP listener and logging settings.
type ServerConfig struct {
	Host          string `toml:"host" yaml:"host"`
	Port          int    `toml:"port" yaml:"port"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFormat     string `toml:"log_format" yaml:"log_format"` // json or text
	UpdateTimeout string `toml:"update_timeout" yaml:"update_timeout"`
}

// Provider is the identity of one configured DNS backend.
type Provider struct {
	// Name is the unique dispatch key used in request paths.
	Name string `toml:"name" yaml:"name"`

	// Type selects the backend implementation (e.g. "cloudflare").
	Type string `toml:"type" yaml:"type"`

	// Key is an optional shared secret callers must present.
	Key string `toml:"key" yaml:"key"`

	// APIKey is the backend API token. APIKeyFile, when set, takes
	// precedence and names a file holding the token (Docker secrets
	// pattern).
	APIKey     string `toml:"api_key" yaml:"api_key"`
	APIKeyFile string `toml:"api_key_file" yaml:"api_key_file"`

	// ZoneID scopes which records the credentials may operate on.
	ZoneID string `toml:"zone_id" yaml:"zone_id"`
}

// Addr returns the host:port the server should listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// UpdateTimeout returns the parsed per-update timeout bound.
func (c *Config) UpdateTimeout() time.Duration {
	if c.Server.UpdateTimeout == "" {
		return DefaultUpdateTimeout
	}
	d, err := time.ParseDuration(c.Server.UpdateTimeout)
	if err != nil {
		return DefaultUpdateTimeout
	}
	return d
}

// GetProvider returns the provider with the given dispatch name, or nil.
func (c *Config) GetProvider(name string) *Provider {
	for i := range c.Providers {
		if c.Providers[i].Name == name {
			return &c.Providers[i]
		}
	}
	return nil
}

// ProviderNames returns the configured provider names in file order.
func (c *Config) ProviderNames() []string {
	names := make([]string, len(c.Providers))
	for i, p := range c.Providers {
		names[i] = p.Name
	}
	return names
}

// ToSettings converts the provider entry into the immutable settings value
// passed into the reconciler.
func (p *Provider) ToSettings() provider.Settings {
	return provider.Settings{
		Name:   p.Name,
		Type:   p.Type,
		APIKey: p.APIKey,
		ZoneID: p.ZoneID,
	}
}

// applyDefaults fills unset server fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Server.LogFormat == "" {
		c.Server.LogFormat = DefaultLogFormat
	}
}
