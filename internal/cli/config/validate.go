package config

import (
	"fmt"
	"net/url"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Archive.BaseURL)
	if err != nil {
		return fmt.Errorf("archive.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("archive.base_url must be an http or https URL, got %q", c.Archive.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("archive.base_url has no host: %q", c.Archive.BaseURL)
	}

	if c.Archive.Timeout < 0 {
		return fmt.Errorf("archive.timeout must not be negative, got %s", c.Archive.Timeout)
	}

	if _, err := c.SearchStart(); err != nil {
		return fmt.Errorf("search.start: %w", err)
	}
	return nil
}
