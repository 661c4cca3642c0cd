package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ripkit/internal/probe"
	"ripkit/internal/toolexec"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Show stream layout of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.loggerValue()

			runner := toolexec.NewCommandRunner(logger)
			prober, err := probe.New(cfg.Tools.FFprobe, runner, logger)
			if err != nil {
				return err
			}

			result, err := prober.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			duration := time.Duration(result.Format.Duration * float64(time.Second)).Round(time.Second)
			fmt.Fprintf(out, "%s: %s, %s, %s\n",
				result.Format.Filename,
				result.Format.FormatName,
				duration,
				humanize.IBytes(uint64(result.Format.Size)),
			)

			rows := make([][]string, 0, len(result.Streams))
			for _, stream := range result.Streams {
				channels := ""
				if stream.Channels > 0 {
					channels = strconv.Itoa(stream.Channels)
				}
				flags := ""
				if stream.IsDefault() {
					flags = "default"
				}
				if stream.IsForced() {
					if flags != "" {
						flags += ",forced"
					} else {
						flags = "forced"
					}
				}
				rows = append(rows, []string{
					strconv.Itoa(stream.GlobalIndex),
					stream.CodecType,
					stream.CodecName,
					stream.Language,
					channels,
					stream.Title,
					flags,
				})
			}

			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Type", "Codec", "Lang", "Ch", "Title", "Flags"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))

			if len(result.Chapters) > 0 {
				fmt.Fprintf(out, "%d chapters\n", len(result.Chapters))
			}
			return nil
		},
	}
	return cmd
}
