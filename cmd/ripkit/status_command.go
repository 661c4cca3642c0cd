package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripkit/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			statuses := deps.CheckBinaries(deps.Requirements(cfg.Tools))

			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					}
				}
				detail := status.Description
				if status.Detail != "" {
					detail = status.Detail
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Tool", "Command", "State", "Detail"},
				rows,
				nil,
			))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("required tools unavailable: %v", missing)
			}
			return nil
		},
	}
}
