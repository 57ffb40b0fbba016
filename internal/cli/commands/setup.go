package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nemcon/internal/cli/config"
	"github.com/leapstack-labs/nemcon/internal/cli/output"
	"github.com/leapstack-labs/nemcon/internal/constraint"
	"github.com/leapstack-labs/nemcon/internal/mms"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Service  *constraint.Service
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an archive-backed service
// and a renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())

	fetcher := mms.NewFetcher(cfg.FetcherConfig(logger))
	svc := constraint.New(constraint.Config{Source: fetcher, Logger: logger})

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Service:  svc,
		Renderer: r,
	}, nil
}

// getConfig returns the current configuration, loading it from the
// environment when the root command has not done so.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

// parsePeriodArg parses a YYYY-MM command argument.
func parsePeriodArg(s string) (mms.Period, error) {
	p, err := mms.ParsePeriod(s)
	if err != nil {
		return mms.Period{}, fmt.Errorf("%w\nHint: months are written as YYYY-MM, e.g. 2022-06", err)
	}
	return p, nil
}

// addSearchFlags registers the --start and --end bounds of a backward search.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Stop before this month, YYYY-MM (default: search.start, or 2009-07)")
	cmd.Flags().String("end", "", "First month to search, YYYY-MM (default: two months ago)")
}

// searchStart reads --start, falling back to the configured search start.
func searchStart(cmd *cobra.Command, cfg *config.Config) (mms.Period, error) {
	start, err := cmd.Flags().GetString("start")
	if err != nil {
		return mms.Period{}, err
	}
	if start == "" {
		return cfg.SearchStart()
	}
	p, err := parsePeriodArg(start)
	if err != nil {
		return mms.Period{}, fmt.Errorf("--start: %w", err)
	}
	return p, nil
}

// searchOptions reads the bounds registered by addSearchFlags.
func searchOptions(cmd *cobra.Command, cfg *config.Config) (constraint.SearchOptions, error) {
	var opts constraint.SearchOptions

	start, err := searchStart(cmd, cfg)
	if err != nil {
		return opts, err
	}
	opts.Start = start

	end, err := cmd.Flags().GetString("end")
	if err != nil {
		return opts, err
	}
	if end != "" {
		p, err := parsePeriodArg(end)
		if err != nil {
			return opts, fmt.Errorf("--end: %w", err)
		}
		opts.End = p
	}
	return opts, nil
}
