package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripkit/internal/config"
	"ripkit/internal/dvd"
	"ripkit/internal/journal"
	"ripkit/internal/tvdb"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		source          string
		destination     string
		show            string
		season          int
		extractChapters bool
		extractCaptions bool
		convert         bool
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run the DVD processing pipeline for a ripped disc",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.loggerValue()

			lookup, err := tvdb.New(cfg.TVDB.BaseURL, cfg.TVDB.APIKey, logger)
			if err != nil {
				return err
			}

			opts := []dvd.Option{}
			if cfg.Journal.Enabled {
				store, err := openJournal(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, dvd.WithJournal(store))
			}

			pipeline, err := dvd.New(cfg, lookup, logger, opts...)
			if err != nil {
				return err
			}

			dest := destination
			if dest == "" {
				dest = cfg.Paths.LibraryDir
			}

			req := dvd.Request{
				Source:          source,
				DestinationDir:  dest,
				Show:            show,
				Season:          season,
				ExtractChapters: extractChapters,
				ExtractCaptions: extractCaptions,
				Convert:         convert,
			}
			if err := pipeline.Process(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %s season %d into %s\n", show, season, dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Directory holding ripped video files")
	cmd.Flags().StringVarP(&destination, "dest", "d", "", "Library root directory (defaults to configured library)")
	cmd.Flags().StringVar(&show, "show", "", "Series name for metadata lookup and naming")
	cmd.Flags().IntVar(&season, "season", 0, "Season number of the ripped disc")
	cmd.Flags().BoolVar(&extractChapters, "chapters", false, "Extract chapter markers with mkvextract")
	cmd.Flags().BoolVar(&extractCaptions, "captions", false, "Extract the first subtitle stream to .srt")
	cmd.Flags().BoolVar(&convert, "convert", false, "Convert files with the configured encoding settings")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("show")
	_ = cmd.MarkFlagRequired("season")

	return cmd
}

func openJournal(cfg *config.Config) (*journal.Store, error) {
	path, err := config.ExpandPath(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}
	return journal.Open(path)
}
