package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ripkit/internal/plex"
)

func newPlexCommand(ctx *commandContext) *cobra.Command {
	plexCmd := &cobra.Command{
		Use:   "plex",
		Short: "Plex Media Server operations",
	}

	plexCmd.AddCommand(newPlexSectionsCommand(ctx))
	plexCmd.AddCommand(newPlexRefreshCommand(ctx))
	plexCmd.AddCommand(newPlexServerCommand(ctx))
	plexCmd.AddCommand(newPlexSignInCommand(ctx))

	return plexCmd
}

func (c *commandContext) plexClient() *plex.Client {
	cfg := c.configValue()
	return plex.New(cfg.Plex.URL, cfg.Plex.Token, c.loggerValue())
}

func newPlexSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := ctx.plexClient().Sections(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				rows = append(rows, []string{section.Key, section.Title, section.Type})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Key", "Title", "Type"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newPlexRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <library>",
		Short: "Trigger a scan of a library section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.plexClient().Refresh(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Refresh triggered for %q\n", args[0])
			return nil
		},
	}
}

func newPlexServerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Show Plex server identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := ctx.plexClient().Server(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:     %s\n", info.Name)
			fmt.Fprintf(out, "Version:  %s\n", info.Version)
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			return nil
		},
	}
}

func newPlexSignInCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Exchange Plex account credentials for a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}

			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			password, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			token, err := ctx.plexClient().SignIn(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Sign-in succeeded.")
			fmt.Fprintf(out, "Add to %s:\n\n  [plex]\n  token = %q\n", configHint(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Plex account username or email")
	return cmd
}

func configHint() string {
	if path, err := os.UserHomeDir(); err == nil {
		return path + "/.config/ripkit/config.toml"
	}
	return "the ripkit config file"
}
