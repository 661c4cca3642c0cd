package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ripkit/internal/probe"
	"ripkit/internal/scan"
	"ripkit/internal/toolexec"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		patterns  []string
		minSizeMB int
		languages []string
		streams   bool
	)

	cmd := &cobra.Command{
		Use:   "scan <dir> [dir...]",
		Short: "List video files matching the configured filters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.loggerValue()

			if len(patterns) == 0 {
				patterns = cfg.Scan.FilePatterns
			}
			if minSizeMB == 0 {
				minSizeMB = cfg.Scan.MinFileSizeMB
			}
			if len(languages) == 0 {
				languages = cfg.Scan.Languages
			}

			filter := scan.NewFileFilter(logger)
			files, err := filter.FilterVideoFiles(args, patterns, int64(minSizeMB)*1024*1024)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No matching files")
				return nil
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				size := ""
				if info, err := os.Stat(file); err == nil {
					size = humanize.IBytes(uint64(info.Size()))
				}
				rows = append(rows, []string{file, size})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"File", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))

			if !streams {
				return nil
			}

			runner := toolexec.NewCommandRunner(logger)
			prober, err := probe.New(cfg.Tools.FFprobe, runner, logger)
			if err != nil {
				return err
			}
			streamFilter, err := scan.NewStreamFilter(prober, cfg.Scan.MaxSameLanguageStreams, logger)
			if err != nil {
				return err
			}
			matched, err := streamFilter.FilterAudioStreams(cmd.Context(), files, languages)
			if err != nil {
				return err
			}

			streamRows := make([][]string, 0, len(matched))
			for _, stream := range matched {
				streamRows = append(streamRows, []string{
					stream.SourceFile,
					strconv.Itoa(stream.TypeIndex),
					stream.CodecName,
					stream.Language,
					strconv.Itoa(stream.Channels),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"File", "Audio #", "Codec", "Lang", "Ch"},
				streamRows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&patterns, "pattern", nil, "Filename glob patterns (defaults to configured patterns)")
	cmd.Flags().IntVar(&minSizeMB, "min-size", 0, "Minimum file size in MB")
	cmd.Flags().StringSliceVar(&languages, "language", nil, "Audio languages to keep when listing streams")
	cmd.Flags().BoolVar(&streams, "streams", false, "Probe matching files and list their audio streams")

	return cmd
}
