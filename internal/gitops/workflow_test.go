package gitops

import (
	"context"
	"strings"
	"testing"

	"ripkit/internal/toolexec"
)

type call struct {
	binary string
	args   []string
}

type fakeRunner struct {
	calls   []call
	results map[string]toolexec.Result
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, binary string, args ...string) (toolexec.Result, error) {
	f.calls = append(f.calls, call{binary: binary, args: args})
	key := binary + " " + strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return toolexec.Result{ExitCode: 1}, err
	}
	if result, ok := f.results[key]; ok {
		return result, nil
	}
	return toolexec.Result{}, nil
}

func (f *fakeRunner) commandLines() []string {
	lines := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		lines = append(lines, c.binary+" "+strings.Join(c.args, " "))
	}
	return lines
}

func newTestWorkflow(runner *fakeRunner) *Workflow {
	return New("git", "gh", nil, WithRunner(runner))
}

func TestStartBranch(t *testing.T) {
	runner := &fakeRunner{results: map[string]toolexec.Result{
		"git status --porcelain": {Stdout: ""},
	}}
	w := newTestWorkflow(runner)

	if err := w.StartBranch(context.Background(), "feature/rip"); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"git status --porcelain",
		"git checkout main",
		"git pull --ff-only",
		"git checkout -b feature/rip",
	}
	got := runner.commandLines()
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStartBranchDirtyTree(t *testing.T) {
	runner := &fakeRunner{results: map[string]toolexec.Result{
		"git status --porcelain": {Stdout: " M internal/encode/audio.go\n"},
	}}
	w := newTestWorkflow(runner)

	if err := w.StartBranch(context.Background(), "feature/rip"); err != ErrDirtyWorkTree {
		t.Fatalf("got %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("no checkout should happen on a dirty tree: %v", runner.commandLines())
	}
}

func TestCreatePullRequest(t *testing.T) {
	runner := &fakeRunner{results: map[string]toolexec.Result{
		"gh pr create --title Add rip support --body details --base main": {
			Stdout: "https://github.com/example/repo/pull/42\n",
		},
	}}
	w := newTestWorkflow(runner)

	url, err := w.CreatePullRequest(context.Background(), "Add rip support", "details")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://github.com/example/repo/pull/42" {
		t.Fatalf("url = %q", url)
	}
}

func TestCreatePullRequestRequiresTitle(t *testing.T) {
	w := newTestWorkflow(&fakeRunner{})
	if _, err := w.CreatePullRequest(context.Background(), "  ", "body"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMergePullRequest(t *testing.T) {
	runner := &fakeRunner{}
	w := newTestWorkflow(runner)

	if err := w.MergePullRequest(context.Background(), "feature/rip"); err != nil {
		t.Fatal(err)
	}
	got := runner.commandLines()
	if len(got) != 1 || got[0] != "gh pr merge feature/rip --squash --delete-branch" {
		t.Fatalf("got %v", got)
	}
}

func TestCleanupBranch(t *testing.T) {
	runner := &fakeRunner{}
	w := newTestWorkflow(runner)

	if err := w.CleanupBranch(context.Background(), "feature/rip"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"git checkout main",
		"git pull --ff-only",
		"git branch -D feature/rip",
	}
	got := runner.commandLines()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCleanupBranchRefusesBase(t *testing.T) {
	w := newTestWorkflow(&fakeRunner{})
	if err := w.CleanupBranch(context.Background(), "main"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCurrentBranch(t *testing.T) {
	runner := &fakeRunner{results: map[string]toolexec.Result{
		"git rev-parse --abbrev-ref HEAD": {Stdout: "feature/rip\n"},
	}}
	w := newTestWorkflow(runner)

	branch, err := w.CurrentBranch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if branch != "feature/rip" {
		t.Fatalf("branch = %q", branch)
	}
}
