// Package config provides configuration management for the nemcon CLI.
package config

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// Config holds all CLI configuration options.
type Config struct {
	Archive      ArchiveConfig `koanf:"archive"`
	Search       SearchConfig  `koanf:"search"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
}

// ArchiveConfig configures access to the monthly MMSDM archive.
type ArchiveConfig struct {
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// SearchConfig configures backward searches.
type SearchConfig struct {
	// Start is the exclusive lower bound as YYYY-MM. Empty uses the
	// first published month.
	Start string `koanf:"start"`
}

// Default configuration values.
const (
	DefaultConfigName = "nemcon.yaml"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix         = "NEMCON_"
)

// FetcherConfig builds the archive client configuration.
func (c *Config) FetcherConfig(logger *slog.Logger) mms.FetcherConfig {
	return mms.FetcherConfig{
		BaseURL:   c.Archive.BaseURL,
		Timeout:   c.Archive.Timeout,
		UserAgent: c.Archive.UserAgent,
		Logger:    logger,
	}
}

// SearchStart returns the configured search lower bound, or the zero
// Period when unset.
func (c *Config) SearchStart() (mms.Period, error) {
	if c.Search.Start == "" {
		return mms.Period{}, nil
	}
	return mms.ParsePeriod(c.Search.Start)
}
