package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"ripkit/internal/logging"
)

// Result holds the outcome of a single external tool invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner abstracts command execution for testability.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) (Result, error)
}

// ExitError reports a nonzero exit status with the stderr tail attached
// for diagnostics.
type ExitError struct {
	Binary   string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	tail := stderrTail(e.Stderr, 4)
	if tail == "" {
		return fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Binary, e.ExitCode, tail)
}

func stderrTail(stderr string, lines int) string {
	trimmed := strings.TrimSpace(stderr)
	if trimmed == "" {
		return ""
	}
	all := strings.Split(trimmed, "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	return strings.TrimSpace(strings.Join(all, "; "))
}

// CommandRunner executes binaries with os/exec, blocking until exit.
type CommandRunner struct {
	logger *slog.Logger
}

// NewCommandRunner constructs a runner. A nil logger disables invocation
// logging.
func NewCommandRunner(logger *slog.Logger) *CommandRunner {
	return &CommandRunner{logger: logging.NewComponentLogger(logger, "toolexec")}
}

// Run executes the binary and waits for it to exit. A nonzero exit status
// returns an *ExitError; the Result carries captured output either way.
func (r *CommandRunner) Run(ctx context.Context, binary string, args ...string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{}, errors.New("toolexec: binary name required")
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			err := &ExitError{Binary: binary, ExitCode: result.ExitCode, Stderr: result.Stderr}
			r.logger.Debug("tool failed",
				logging.String("binary", binary),
				logging.Int("exit_code", result.ExitCode),
				logging.Duration("elapsed", time.Since(start)),
			)
			return result, err
		}
		if ctx.Err() != nil {
			return result, fmt.Errorf("run %s: %w", binary, ctx.Err())
		}
		return result, fmt.Errorf("run %s: %w", binary, runErr)
	}

	r.logger.Debug("tool completed",
		logging.String("binary", binary),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
