package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <YYYY-MM>",
		Short: "List the constraints defined in a month",
		Long: `List every constraint in a month's constraint registry (GENCONDATA),
in archive order, optionally filtered by ID prefix.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml, csv`,
		Example: `  # List all constraints for June 2022
  nemcon list 2022-06

  # Only Victorian outage constraints
  nemcon list 2022-06 --prefix 'V>>'

  # As CSV
  nemcon list 2022-06 -o csv > constraints.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, _ := cmd.Flags().GetString("prefix")
			return runList(cmd, args[0], prefix)
		},
	}

	cmd.Flags().String("prefix", "", "Only list constraints whose ID starts with this prefix")

	return cmd
}

func runList(cmd *cobra.Command, month, prefix string) error {
	p, err := parsePeriodArg(month)
	if err != nil {
		return err
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	descs, err := cmdCtx.Service.ListConstraints(cmd.Context(), p, prefix)
	if err != nil {
		return fmt.Errorf("failed to list constraints: %w", err)
	}

	if r.EffectiveMode().Structured() {
		return r.Data(descs)
	}
	return r.Table(descriptorTable(fmt.Sprintf("Constraints for %s (%d)", p.Label(), len(descs)), descs))
}
