package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nemcon/internal/cli/output"
	"github.com/leapstack-labs/nemcon/internal/constraint"
)

// detailsOutput is the structured form of the details command.
type detailsOutput struct {
	constraint.Details `yaml:",inline"`
	Generic            []constraint.GenericExpansion `json:"generic_functions,omitempty" yaml:"generic_functions,omitempty"`
}

// NewDetailsCommand creates the details command.
func NewDetailsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "details <constraint> <YYYY-MM>",
		Short: "Show a constraint's registry entry and equation terms",
		Long: `Show the registry entry, LHS terms and RHS terms of a constraint for one
month.

With --expand-generic, every generic RHS function the constraint refers to
is searched backward from that month and its terms are shown as defined in
the month it was found.`,
		Example: `  nemcon details 'V^^S_NIL_MINLOAD' 2022-06

  # Include generic RHS functions
  nemcon details 'V>>V_NIL_2' 2022-06 --expand-generic -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expand, _ := cmd.Flags().GetBool("expand-generic")
			return runDetails(cmd, args[0], args[1], expand)
		},
	}

	cmd.Flags().Bool("expand-generic", false, "Resolve generic RHS functions referenced by the constraint")
	cmd.Flags().String("start", "", "Lower bound for generic function searches, YYYY-MM")

	return cmd
}

func runDetails(cmd *cobra.Command, id, month string, expand bool) error {
	p, err := parsePeriodArg(month)
	if err != nil {
		return err
	}
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	ctx := cmd.Context()

	d, err := cmdCtx.Service.Details(ctx, id, p)
	if err != nil {
		return err
	}

	out := detailsOutput{Details: *d}
	if expand {
		start, err := searchStart(cmd, cmdCtx.Cfg)
		if err != nil {
			return err
		}
		out.Generic, err = cmdCtx.Service.ExpandGenericFunctions(ctx, d, constraint.SearchOptions{Start: start})
		if err != nil {
			return fmt.Errorf("failed to expand generic functions: %w", err)
		}
	}

	if !d.Found() {
		r.Warning(fmt.Sprintf("%s is not in the %s constraint registry", id, p.Label()))
	}

	if r.EffectiveMode().Structured() {
		return r.Data(out)
	}
	return renderDetails(r, &out)
}

func renderDetails(r *output.Renderer, out *detailsOutput) error {
	d := &out.Details
	csv := r.EffectiveMode() == output.ModeCSV

	if d.Found() && !csv {
		renderDescriptor(r, fmt.Sprintf("%s (%s)", d.ConstraintID, d.Period.Label()), d.Descriptor)
	}

	if err := r.Table(lhsTable("LHS terms", d.LHS)); err != nil {
		return err
	}
	if csv {
		r.Println("")
	}
	if err := r.Table(rhsTable("RHS terms", d.RHS)); err != nil {
		return err
	}

	for _, g := range out.Generic {
		if csv {
			r.Println("")
		}
		if !g.Found() {
			if !csv {
				r.Muted(fmt.Sprintf("Generic function %s not found after %s", g.EquationID, g.Search.Start.Label()))
			}
			continue
		}
		title := fmt.Sprintf("Generic function %s (%s)", g.EquationID, g.Search.Period.Label())
		if err := r.Table(rhsTable(title, g.Terms)); err != nil {
			return err
		}
	}
	return nil
}
