package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripkit/internal/encode"
	"ripkit/internal/language"
	"ripkit/internal/probe"
	"ripkit/internal/toolexec"
)

func newRemuxCommand(ctx *commandContext) *cobra.Command {
	var languages []string
	var subtitles bool

	cmd := &cobra.Command{
		Use:   "remux <input> <output>",
		Short: "Repackage selected tracks into a new container without re-encoding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.loggerValue()

			if len(languages) == 0 {
				languages = cfg.Scan.Languages
			}

			runner := toolexec.NewCommandRunner(logger)
			prober, err := probe.New(cfg.Tools.FFprobe, runner, logger)
			if err != nil {
				return err
			}

			result, err := prober.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var audio []encode.AudioTrackMapping
			for _, stream := range result.AudioStreams() {
				if !matchesAnyLanguage(stream.Language, languages) {
					continue
				}
				audio = append(audio, encode.AudioTrackMapping{
					SourceIndex: stream.TypeIndex,
					Title:       stream.Title,
					Default:     len(audio) == 0,
				})
			}
			if len(audio) == 0 {
				return fmt.Errorf("no audio streams matching languages %v in %s", languages, args[0])
			}

			var subs []encode.SubtitleTrackMapping
			if subtitles {
				for _, stream := range result.SubtitleStreams() {
					if !matchesAnyLanguage(stream.Language, languages) {
						continue
					}
					subs = append(subs, encode.SubtitleTrackMapping{
						SourceIndex: stream.TypeIndex,
						Language:    language.ToISO3(stream.Language),
						Forced:      stream.IsForced(),
					})
				}
			}

			toolArgs := []string{"-hide_banner", "-nostdin", "-y", "-i", args[0]}
			toolArgs = append(toolArgs, encode.RemuxArgs(audio, subs)...)
			toolArgs = append(toolArgs, args[1])

			if _, err := runner.Run(cmd.Context(), cfg.Tools.FFmpeg, toolArgs...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Remuxed %s (%d audio, %d subtitle tracks)\n",
				args[1], len(audio), len(subs))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "language", nil, "Track languages to keep (defaults to configured languages)")
	cmd.Flags().BoolVar(&subtitles, "subtitles", true, "Include matching subtitle tracks")
	return cmd
}

func matchesAnyLanguage(streamLanguage string, wanted []string) bool {
	for _, lang := range wanted {
		if language.Matches(streamLanguage, lang) {
			return true
		}
	}
	return false
}
