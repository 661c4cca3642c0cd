package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripkit/internal/disc"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var device string
	var wait bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Wait for a disc to be inserted and print the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if device == "" {
				device = cfg.Disc.Device
			}

			watcher := disc.NewWatcher(device, ctx.loggerValue())
			devname, err := watcher.WaitForMedia(cmd.Context())
			if err != nil {
				return err
			}

			if wait {
				if _, err := disc.WaitForReady(cmd.Context(), devname); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), devname)
			return nil
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "Device to watch (defaults to configured device)")
	cmd.Flags().BoolVar(&wait, "wait-ready", true, "Poll the drive until the disc is readable")
	return cmd
}

func newEjectCommand(ctx *commandContext) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "eject",
		Short: "Eject the optical drive tray",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if device == "" {
				device = cfg.Disc.Device
			}

			status, err := disc.CheckDriveStatus(device)
			if err != nil {
				return err
			}
			if status == disc.DriveStatusTrayOpen {
				fmt.Fprintln(cmd.OutOrStdout(), "Tray already open")
				return nil
			}

			if err := disc.Eject(device); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s\n", device)
			return nil
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "Device to eject (defaults to configured device)")
	return cmd
}
