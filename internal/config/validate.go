package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError collects everything wrong with a configuration so the
// operator sees all problems at once instead of one per restart.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration error: %s", e.Errors[0])
	}
	return fmt.Sprintf("configuration errors:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks the loaded configuration for completeness.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server port %d out of range", c.Server.Port))
	}

	switch c.Server.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("unknown log_format %q (want json or text)", c.Server.LogFormat))
	}

	if c.Server.UpdateTimeout != "" {
		if _, err := time.ParseDuration(c.Server.UpdateTimeout); err != nil {
			errs = append(errs, fmt.Sprintf("invalid update_timeout %q: %v", c.Server.UpdateTimeout, err))
		}
	}

	if len(c.Providers) == 0 {
		errs = append(errs, "at least one provider must be configured")
	}

	seen := make(map[string]bool)
	for _, p := range c.Providers {
		if p.Name == "" {
			errs = append(errs, "provider with empty name")
			continue
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Sprintf("duplicate provider name: %q", p.Name))
		}
		seen[p.Name] = true

		if p.Type == "" {
			errs = append(errs, fmt.Sprintf("provider %s: type is required", p.Name))
		}
		if p.APIKey == "" && p.APIKeyFile == "" {
			errs = append(errs, fmt.Sprintf("provider %s: api_key or api_key_file is required", p.Name))
		}
		if p.ZoneID == "" {
			errs = append(errs, fmt.Sprintf("provider %s: zone_id is required", p.Name))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
