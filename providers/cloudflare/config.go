package cloudflare

import (
	"fmt"
	"strings"
)

// Config holds Cloudflare-specific configuration.
type Config struct {
	APIKey string // API token (Bearer authentication)
	ZoneID string // Zone ID scoping the records the token may touch
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	var errs []string

	if c.APIKey == "" {
		errs = append(errs, "api_key is required")
	}
	if c.ZoneID == "" {
		errs = append(errs, "zone_id is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("cloudflare config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
