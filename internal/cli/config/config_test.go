package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nemcon/internal/mms"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), DefaultConfigName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	return cfgPath
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("base-url", "", "archive base URL")
	flags.Duration("timeout", 0, "request timeout")
	flags.String("user-agent", "", "user agent")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose output")
	return flags
}

// TestLoadConfig_Defaults tests that defaults apply with no file, env or flags.
func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, mms.DefaultBaseURL, cfg.Archive.BaseURL)
	assert.Equal(t, mms.DefaultTimeout, cfg.Archive.Timeout)
	assert.Equal(t, mms.DefaultUserAgent, cfg.Archive.UserAgent)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.Search.Start)
	assert.Same(t, cfg, GetCurrentConfig())
}

// TestLoadConfig_File tests nested keys read from YAML.
func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `archive:
  base_url: https://mirror.example.com/MMSDM
  timeout: 45s
  user_agent: research-bot
search:
  start: 2015-01
output: json
verbose: true
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example.com/MMSDM", cfg.Archive.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Archive.Timeout)
	assert.Equal(t, "research-bot", cfg.Archive.UserAgent)
	assert.Equal(t, "2015-01", cfg.Search.Start)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, cfgPath, GetConfigFileUsed())

	start, err := cfg.SearchStart()
	require.NoError(t, err)
	assert.Equal(t, mms.Period{Year: 2015, Month: time.January}, start)
}

// TestLoadConfig_MissingExplicitFile tests that a named config file must exist.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `archive:
  base_url: https://from-file.example.com
  timeout: 10s
`)
	t.Setenv("NEMCON_ARCHIVE_BASE_URL", "https://from-env.example.com")
	t.Setenv("NEMCON_SEARCH_START", "2020-06")
	t.Setenv("NEMCON_OUTPUT", "yaml")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.Archive.BaseURL, "env var should override config file")
	assert.Equal(t, 10*time.Second, cfg.Archive.Timeout, "file value kept when env is unset")
	assert.Equal(t, "2020-06", cfg.Search.Start)
	assert.Equal(t, "yaml", cfg.OutputFormat)
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `archive:
  base_url: https://from-file.example.com
output: markdown
`)
	t.Setenv("NEMCON_ARCHIVE_BASE_URL", "https://from-env.example.com")

	flags := newFlags()
	require.NoError(t, flags.Set("base-url", "https://from-flag.example.com"))
	require.NoError(t, flags.Set("timeout", "5s"))
	require.NoError(t, flags.Set("output", "csv"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "https://from-flag.example.com", cfg.Archive.BaseURL, "flag value should override config file and env var")
	assert.Equal(t, 5*time.Second, cfg.Archive.Timeout)
	assert.Equal(t, "csv", cfg.OutputFormat)
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("NEMCON_ARCHIVE_USER_AGENT", "from-env")

	flags := newFlags()
	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Archive.UserAgent, "env var should be used when flag is not set")
	assert.Equal(t, mms.DefaultBaseURL, cfg.Archive.BaseURL)
}

// TestLoadConfig_ExpandsEnvVars tests ${VAR} expansion in the archive URL.
func TestLoadConfig_ExpandsEnvVars(t *testing.T) {
	ResetConfig()
	t.Setenv("MIRROR_HOST", "mirror.internal")
	cfgPath := writeConfig(t, `archive:
  base_url: http://${MIRROR_HOST}/MMSDM
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://mirror.internal/MMSDM", cfg.Archive.BaseURL)
}

// TestLoadConfig_Invalid tests that invalid values are rejected at load time.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "non-http base url",
			content:   "archive:\n  base_url: ftp://nemweb.com.au\n",
			errSubstr: "http or https",
		},
		{
			name:      "bad search start",
			content:   "search:\n  start: July 2009\n",
			errSubstr: "search.start",
		},
		{
			name:      "negative timeout",
			content:   "archive:\n  timeout: -1s\n",
			errSubstr: "archive.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Nil(t, GetCurrentConfig())
		})
	}
}

// TestEnvKey tests the env var to config key transformation.
func TestEnvKey(t *testing.T) {
	tests := []struct {
		env      string
		expected string
	}{
		{"NEMCON_ARCHIVE_BASE_URL", "archive.base_url"},
		{"NEMCON_ARCHIVE_TIMEOUT", "archive.timeout"},
		{"NEMCON_SEARCH_START", "search.start"},
		{"NEMCON_OUTPUT", "output"},
		{"NEMCON_VERBOSE", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.expected, envKey(tt.env))
		})
	}
}

// TestExpandEnvVars tests the expandEnvVars function.
func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "multiple variables", input: "${TEST_VAR_ONE}/${TEST_VAR_TWO}", expected: "value_one/value_two"},
		{name: "unset variable stays as-is", input: "${UNSET_VARIABLE}", expected: "${UNSET_VARIABLE}"},
		{name: "no variables", input: "plain string", expected: "plain string"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

// TestGetLogger tests logger retrieval from context.
func TestGetLogger(t *testing.T) {
	t.Run("missing logger falls back to discard", func(t *testing.T) {
		assert.NotNil(t, GetLogger(context.Background()))
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		ctx := context.WithValue(context.Background(), LoggerKey(), logger)
		assert.Same(t, logger, GetLogger(ctx))
	})
}

// TestConfig_FetcherConfig tests the archive client settings mapping.
func TestConfig_FetcherConfig(t *testing.T) {
	cfg := &Config{Archive: ArchiveConfig{
		BaseURL:   "https://mirror.example.com",
		Timeout:   time.Minute,
		UserAgent: "ua",
	}}

	fc := cfg.FetcherConfig(nil)
	assert.Equal(t, "https://mirror.example.com", fc.BaseURL)
	assert.Equal(t, time.Minute, fc.Timeout)
	assert.Equal(t, "ua", fc.UserAgent)
}
