package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripkit/internal/gitops"
)

func (c *commandContext) gitWorkflow(baseRef string) *gitops.Workflow {
	cfg := c.configValue()
	var opts []gitops.Option
	if baseRef != "" {
		opts = append(opts, gitops.WithBaseRef(baseRef))
	}
	return gitops.New(cfg.Tools.Git, cfg.Tools.GitHub, c.loggerValue(), opts...)
}

func newBranchCommand(ctx *commandContext) *cobra.Command {
	var baseRef string

	branchCmd := &cobra.Command{
		Use:   "branch",
		Short: "Git branch workflows",
	}
	branchCmd.PersistentFlags().StringVar(&baseRef, "base", "", "Base branch (defaults to main)")

	startCmd := &cobra.Command{
		Use:   "start <name>",
		Short: "Create a new branch from an updated base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.gitWorkflow(baseRef).StartBranch(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to new branch %s\n", args[0])
			return nil
		},
	}

	pushCmd := &cobra.Command{
		Use:   "push <name>",
		Short: "Push a branch to origin with upstream tracking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.gitWorkflow(baseRef).Push(cmd.Context(), args[0])
		},
	}

	cleanupCmd := &cobra.Command{
		Use:   "cleanup <name>",
		Short: "Delete a merged branch and return to base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.gitWorkflow(baseRef).CleanupBranch(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted branch %s\n", args[0])
			return nil
		},
	}

	branchCmd.AddCommand(startCmd, pushCmd, cleanupCmd)
	return branchCmd
}

func newPRCommand(ctx *commandContext) *cobra.Command {
	var baseRef string

	prCmd := &cobra.Command{
		Use:   "pr",
		Short: "GitHub pull request workflows",
	}
	prCmd.PersistentFlags().StringVar(&baseRef, "base", "", "Base branch (defaults to main)")

	var title, body string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a pull request for the current branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := ctx.gitWorkflow(baseRef).CreatePullRequest(cmd.Context(), title, body)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	createCmd.Flags().StringVarP(&title, "title", "t", "", "Pull request title")
	createCmd.Flags().StringVarP(&body, "body", "b", "", "Pull request body")
	_ = createCmd.MarkFlagRequired("title")

	mergeCmd := &cobra.Command{
		Use:   "merge <branch>",
		Short: "Squash-merge the pull request for a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.gitWorkflow(baseRef).MergePullRequest(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged pull request for %s\n", args[0])
			return nil
		},
	}

	prCmd.AddCommand(createCmd, mergeCmd)
	return prCmd
}
