package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/vsx/internal/item"
	"github.com/raphi011/vsx/internal/output"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List every discovered workspace and SSH host",
		Aliases: []string{"ls"},
		GroupID: GroupSearch,
		Args:    cobra.NoArgs,
		Example: `  vsx list           # All discovered items
  vsx list --json    # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a := newApp(ctx, cfg)
			a.engine.Bootstrap(ctx)
			defer a.engine.Stop(0)

			items := a.engine.List(ctx)

			if jsonOutput {
				return out.JSON(items)
			}

			printItems(out, items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func printItems(out *output.Printer, items []item.Item) {
	for _, it := range items {
		detail := it.Target
		if it.Kind.Label() != "" {
			detail = "[" + it.Kind.Label() + "] " + detail
		}
		if it.Remote != "" {
			detail += " (" + it.Remote + ")"
		}
		out.Printf("%-30s %s\n", it.Title, detail)
	}
}
