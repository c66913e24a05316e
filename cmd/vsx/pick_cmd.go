package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/vsx/internal/output"
	"github.com/raphi011/vsx/internal/ui"
)

func newPickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pick",
		Short:   "Interactively search and open an item",
		Aliases: []string{"p"},
		GroupID: GroupSearch,
		Args:    cobra.NoArgs,
		Long: `Open an interactive picker that re-ranks results on every keystroke.
Discovery runs in the background; results appear as soon as the first
provider responds. When stdout is not a terminal the picker degrades to
a plain listing, as "vsx list" would print.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a := newApp(ctx, cfg)

			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				a.engine.Bootstrap(ctx)
				defer a.engine.Stop(0)
				printItems(out, a.engine.List(ctx))
				return nil
			}

			a.engine.Start(ctx)
			defer a.engine.Stop(cfg.RefreshWait.Std())

			result, err := ui.Pick(ctx, a.engine)
			if err != nil {
				return err
			}
			if result.Cancelled {
				return nil
			}

			if err := a.launcher.Open(ctx, result.Item); err != nil {
				return fmt.Errorf("open %s: %w", result.Item.Title, err)
			}
			out.Printf("Opened %s\n", result.Item.Title)
			return nil
		},
	}

	return cmd
}
