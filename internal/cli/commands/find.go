package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nemcon/internal/constraint"
)

// NewFindCommand creates the find command.
func NewFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <prefix>",
		Short: "Find the most recent month defining a constraint",
		Long: `Search the monthly archive backward from --end until a constraint whose ID
starts with the given prefix appears in the registry.

Months whose archive is not published are skipped and reported. The search
stops, without a match, once it reaches --start.`,
		Example: `  # Find where a constraint was last defined
  nemcon find 'V^^S_NIL_MINLOAD'

  # Bound the search
  nemcon find 'Q>>NIL' --start 2018-12 --end 2022-06`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args[0], constraint.KindConstraint)
		},
	}

	addSearchFlags(cmd)

	return cmd
}

func runFind(cmd *cobra.Command, prefix string, kind constraint.RegistryKind) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	opts, err := searchOptions(cmd, cmdCtx.Cfg)
	if err != nil {
		return err
	}

	var res *constraint.SearchResult
	if kind == constraint.KindGenericFunction {
		res, err = cmdCtx.Service.FindGenericFunction(cmd.Context(), prefix, opts)
	} else {
		res, err = cmdCtx.Service.FindConstraint(cmd.Context(), prefix, opts)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if r.EffectiveMode().Structured() {
		return r.Data(res)
	}
	return renderSearch(r, kind, prefix, res)
}
