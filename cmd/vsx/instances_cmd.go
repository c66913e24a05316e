package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/vsx/internal/output"
)

func newInstancesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "instances",
		Short:   "List detected VS Code installations",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			a := newApp(ctx, cfg)
			instances := a.instances()

			if jsonOutput {
				return out.JSON(instances)
			}

			if len(instances) == 0 {
				out.Println("No VS Code installations found.")
				return nil
			}
			for _, inst := range instances {
				exe := inst.Executable
				if exe == "" {
					exe = "(no executable found)"
				}
				out.Printf("%-15s %s\n%-15s data: %s\n", inst.Name, exe, "", inst.UserDataDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}
