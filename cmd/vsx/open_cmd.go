package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsx/internal/log"
	"github.com/raphi011/vsx/internal/output"
)

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "open QUERY...",
		Short:   "Open the best-matching workspace or host",
		Aliases: []string{"o"},
		GroupID: GroupSearch,
		Args:    cobra.MinimumNArgs(1),
		Long: `Search for the query and open the highest-ranked result: workspaces in
the VS Code variant they were discovered from, SSH hosts through the
editor's remoting or a plain ssh session.`,
		Example: `  vsx open proj-a      # Open the best match for "proj-a"
  vsx open build box   # Multi-term queries work like in "vsx query"`,
		ValidArgsFunction: completeItemTitles,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			a := newApp(ctx, cfg)
			a.engine.Bootstrap(ctx)
			defer a.engine.Stop(0)

			query := strings.Join(args, " ")
			best, ok := a.bestMatch(ctx, query)
			if !ok {
				return fmt.Errorf("no match for %q", query)
			}

			l.Debugf("best match for %q: %s", query, best.Title)
			if err := a.launcher.Open(ctx, best); err != nil {
				return fmt.Errorf("open %s: %w", best.Title, err)
			}

			out.Printf("Opened %s\n", best.Title)
			return nil
		},
	}

	return cmd
}
