package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showPhases bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent processing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if !cfg.Journal.Enabled {
				return fmt.Errorf("journal is disabled in configuration")
			}

			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				elapsed := ""
				if !run.FinishedAt.IsZero() {
					elapsed = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
				}
				rows = append(rows, []string{
					strconv.FormatInt(run.ID, 10),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Source,
					run.Destination,
					run.Status,
					elapsed,
					run.Error,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"ID", "Started", "Source", "Destination", "Status", "Elapsed", "Error"},
				rows,
				[]columnAlignment{alignRight},
			))

			if !showPhases {
				return nil
			}
			for _, run := range runs {
				phases, err := store.RunPhases(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if len(phases) == 0 {
					continue
				}
				fmt.Fprintf(out, "\nRun %d phases:\n", run.ID)
				phaseRows := make([][]string, 0, len(phases))
				for _, phase := range phases {
					phaseRows = append(phaseRows, []string{
						phase.Name,
						phase.Status,
						phase.FinishedAt.Sub(phase.StartedAt).Round(time.Second).String(),
						phase.Error,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Phase", "Status", "Elapsed", "Error"},
					phaseRows,
					nil,
				))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&showPhases, "phases", false, "Show per-phase detail for each run")
	return cmd
}
