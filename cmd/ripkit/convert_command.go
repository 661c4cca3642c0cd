package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripkit/internal/encode"
	"ripkit/internal/toolexec"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		codec     string
		mode      string
		quality   int
		bitrate   string
		preset    string
		profile   string
		level     string
		handbrake bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a single video file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.loggerValue()

			if codec == "" {
				codec = cfg.Encoding.Codec
			}
			if mode == "" {
				mode = cfg.Encoding.Mode
			}
			if quality == 0 {
				quality = cfg.Encoding.Quality
			}
			if bitrate == "" {
				bitrate = cfg.Encoding.Bitrate
			}
			if preset == "" {
				preset = cfg.Encoding.Preset
			}

			rate, err := encode.ParseRateControl(mode, quality, bitrate)
			if err != nil {
				return err
			}
			var opts []encode.EncodingOption
			if profile != "" {
				opts = append(opts, encode.WithProfile(profile))
			}
			if level != "" {
				opts = append(opts, encode.WithLevel(level))
			}
			video, err := encode.NewEncodingConfig(codec, rate, preset, opts...)
			if err != nil {
				return err
			}

			var binary string
			var toolArgs []string
			if handbrake {
				binary = cfg.Tools.HandBrake
				toolArgs, err = encode.HandBrakeArgs(args[0], args[1], video, nil)
			} else {
				binary = cfg.Tools.FFmpeg
				toolArgs, err = encode.ConvertArgs(args[0], args[1], video, nil)
			}
			if err != nil {
				return err
			}

			runner := toolexec.NewCommandRunner(logger)
			if _, err := runner.Run(cmd.Context(), binary, toolArgs...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s (%s)\n", args[1], video.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&codec, "codec", "", "Video codec (defaults to configured codec)")
	cmd.Flags().StringVar(&mode, "mode", "", "Rate control mode: vbr, crf, or cqp")
	cmd.Flags().IntVar(&quality, "quality", 0, "CRF or QP value")
	cmd.Flags().StringVar(&bitrate, "bitrate", "", "Target bitrate for vbr mode, e.g. 4000k")
	cmd.Flags().StringVar(&preset, "preset", "", "Encoder preset")
	cmd.Flags().StringVar(&profile, "profile", "", "Encoder profile")
	cmd.Flags().StringVar(&level, "level", "", "Encoder level")
	cmd.Flags().BoolVar(&handbrake, "handbrake", false, "Convert with HandBrakeCLI instead of FFmpeg")

	return cmd
}
