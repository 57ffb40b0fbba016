package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLHSCommand creates the lhs command.
func NewLHSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lhs <constraint> <YYYY-MM>",
		Short: "Show the left-hand-side terms of a constraint",
		Long: `Show the connection point, interconnector and region terms of a constraint
for one month. Connection points are resolved to dispatchable units.`,
		Example: `  nemcon lhs 'V^^S_NIL_MINLOAD' 2022-06`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLHS(cmd, args[0], args[1])
		},
	}
}

func runLHS(cmd *cobra.Command, id, month string) error {
	p, err := parsePeriodArg(month)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	terms, err := cmdCtx.Service.LHSTerms(cmd.Context(), id, p)
	if err != nil {
		return err
	}

	if r.EffectiveMode().Structured() {
		return r.Data(terms)
	}
	return r.Table(lhsTable(fmt.Sprintf("LHS terms of %s (%s)", id, p.Label()), terms))
}

// NewRHSCommand creates the rhs command.
func NewRHSCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rhs <constraint> <YYYY-MM>",
		Short: "Show the right-hand-side terms of a constraint",
		Long: `Show the right-hand-side terms of a constraint for one month, ordered by
term ID. SCADA terms are described from the SCADA master table; terms of
type X refer to generic RHS functions (see 'nemcon generic').`,
		Example: `  nemcon rhs 'V^^S_NIL_MINLOAD' 2022-06`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRHS(cmd, args[0], args[1])
		},
	}
}

func runRHS(cmd *cobra.Command, id, month string) error {
	p, err := parsePeriodArg(month)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	terms, err := cmdCtx.Service.RHSTerms(cmd.Context(), id, p)
	if err != nil {
		return err
	}

	if r.EffectiveMode().Structured() {
		return r.Data(terms)
	}
	return r.Table(rhsTable(fmt.Sprintf("RHS terms of %s (%s)", id, p.Label()), terms))
}
