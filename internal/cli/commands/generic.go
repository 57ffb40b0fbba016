package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nemcon/internal/constraint"
)

// NewGenericCommand creates the generic command group.
func NewGenericCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generic",
		Short: "Inspect generic RHS functions",
		Long: `Generic RHS functions are shared equations referenced from constraint RHS
terms of type X. They may be defined in an earlier month than the
constraints that use them.`,
	}

	cmd.AddCommand(newGenericFindCommand())
	cmd.AddCommand(newGenericTermsCommand())

	return cmd
}

func newGenericFindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "find <prefix>",
		Short:   "Find the most recent month defining a generic RHS function",
		Example: `  nemcon generic find X_VIC_EQ --end 2022-06`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args[0], constraint.KindGenericFunction)
		},
	}

	addSearchFlags(cmd)

	return cmd
}

func newGenericTermsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "terms <equation> <YYYY-MM>",
		Short:   "Show the terms of a generic RHS function",
		Example: `  nemcon generic terms X_VIC_EQ 2022-04`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenericTerms(cmd, args[0], args[1])
		},
	}
}

func runGenericTerms(cmd *cobra.Command, id, month string) error {
	p, err := parsePeriodArg(month)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	terms, err := cmdCtx.Service.GenericFunction(cmd.Context(), id, p)
	if err != nil {
		return err
	}

	if r.EffectiveMode().Structured() {
		return r.Data(terms)
	}
	return r.Table(rhsTable(fmt.Sprintf("Terms of %s (%s)", id, p.Label()), terms))
}
