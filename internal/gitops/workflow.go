package gitops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ripkit/internal/logging"
	"ripkit/internal/toolexec"
)

// ErrDirtyWorkTree is returned when an operation requires a clean
// working tree and local modifications exist.
var ErrDirtyWorkTree = errors.New("working tree has uncommitted changes")

// Workflow drives branch and pull-request operations in a repository
// working directory.
type Workflow struct {
	gitBinary string
	ghBinary  string
	baseRef   string
	runner    toolexec.Runner
	logger    *slog.Logger
}

// Option customizes workflow construction.
type Option func(*Workflow)

// WithRunner overrides the process runner.
func WithRunner(runner toolexec.Runner) Option {
	return func(w *Workflow) { w.runner = runner }
}

// WithBaseRef overrides the base branch new branches start from.
func WithBaseRef(ref string) Option {
	return func(w *Workflow) { w.baseRef = ref }
}

// New constructs a workflow using the named git and gh binaries.
func New(gitBinary, ghBinary string, logger *slog.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		gitBinary: gitBinary,
		ghBinary:  ghBinary,
		baseRef:   "main",
		runner:    toolexec.NewCommandRunner(logger),
		logger:    logging.NewComponentLogger(logger, "gitops"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) git(ctx context.Context, args ...string) (toolexec.Result, error) {
	return w.runner.Run(ctx, w.gitBinary, args...)
}

func (w *Workflow) gh(ctx context.Context, args ...string) (toolexec.Result, error) {
	return w.runner.Run(ctx, w.ghBinary, args...)
}

// CurrentBranch returns the checked-out branch name.
func (w *Workflow) CurrentBranch(ctx context.Context) (string, error) {
	result, err := w.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve current branch: %w", err)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (w *Workflow) IsClean(ctx context.Context) (bool, error) {
	result, err := w.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return strings.TrimSpace(result.Stdout) == "", nil
}

// StartBranch updates the base branch and creates a new branch from it.
// The working tree must be clean.
func (w *Workflow) StartBranch(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("branch name required")
	}

	clean, err := w.IsClean(ctx)
	if err != nil {
		return err
	}
	if !clean {
		return ErrDirtyWorkTree
	}

	if _, err := w.git(ctx, "checkout", w.baseRef); err != nil {
		return fmt.Errorf("checkout %s: %w", w.baseRef, err)
	}
	if _, err := w.git(ctx, "pull", "--ff-only"); err != nil {
		return fmt.Errorf("update %s: %w", w.baseRef, err)
	}
	if _, err := w.git(ctx, "checkout", "-b", name); err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}

	w.logger.Info("branch created", logging.String("branch", name))
	return nil
}

// Push publishes the named branch to origin with upstream tracking.
func (w *Workflow) Push(ctx context.Context, branch string) error {
	if _, err := w.git(ctx, "push", "--set-upstream", "origin", branch); err != nil {
		return fmt.Errorf("push branch %s: %w", branch, err)
	}
	w.logger.Info("branch pushed", logging.String("branch", branch))
	return nil
}

// CreatePullRequest opens a pull request for the current branch and
// returns its URL.
func (w *Workflow) CreatePullRequest(ctx context.Context, title, body string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.New("pull request title required")
	}

	args := []string{"pr", "create", "--title", title, "--body", body, "--base", w.baseRef}
	result, err := w.gh(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("create pull request: %w", err)
	}

	url := strings.TrimSpace(result.Stdout)
	w.logger.Info("pull request opened",
		logging.String("title", title),
		logging.String("url", url),
	)
	return url, nil
}

// MergePullRequest squash-merges the pull request for the named branch
// and deletes the remote branch.
func (w *Workflow) MergePullRequest(ctx context.Context, branch string) error {
	if _, err := w.gh(ctx, "pr", "merge", branch, "--squash", "--delete-branch"); err != nil {
		return fmt.Errorf("merge pull request for %s: %w", branch, err)
	}
	w.logger.Info("pull request merged", logging.String("branch", branch))
	return nil
}

// CleanupBranch switches back to the base branch, updates it, and
// deletes the local feature branch.
func (w *Workflow) CleanupBranch(ctx context.Context, name string) error {
	if name == w.baseRef {
		return fmt.Errorf("refusing to delete base branch %q", name)
	}

	if _, err := w.git(ctx, "checkout", w.baseRef); err != nil {
		return fmt.Errorf("checkout %s: %w", w.baseRef, err)
	}
	if _, err := w.git(ctx, "pull", "--ff-only"); err != nil {
		return fmt.Errorf("update %s: %w", w.baseRef, err)
	}
	if _, err := w.git(ctx, "branch", "-D", name); err != nil {
		return fmt.Errorf("delete branch %s: %w", name, err)
	}

	w.logger.Info("branch removed", logging.String("branch", name))
	return nil
}
