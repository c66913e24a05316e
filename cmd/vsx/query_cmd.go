package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsx/internal/output"
)

func newQueryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "query [QUERY...]",
		Short:   "Search workspaces and hosts once and print the ranked results",
		Aliases: []string{"q", "search"},
		GroupID: GroupSearch,
		Long: `Run one ranked search over all discovered workspaces and SSH hosts.

Query terms are matched fuzzily against titles, paths and host names;
every term must match somewhere. With no terms, all items are listed in
ranked order.`,
		Example: `  vsx query proj           # Fuzzy-search for "proj"
  vsx query proj ssh       # Every term must match
  vsx query --json proj    # Machine-readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a := newApp(ctx, cfg)
			a.engine.Bootstrap(ctx)
			defer a.engine.Stop(0)

			results := a.engine.Query(ctx, strings.Join(args, " "))

			if jsonOutput {
				return out.JSON(results)
			}

			for _, res := range results {
				line := res.Item.Title
				if label := res.Item.Kind.Label(); label != "" {
					line += "  [" + label + "]"
				}
				if res.Item.Remote != "" {
					line += "  (" + res.Item.Remote + ")"
				}
				out.Printf("%3d  %s\n", res.Score, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}
