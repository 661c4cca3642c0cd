package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	want := []string{
		"process", "convert", "remux", "probe", "scan", "plex",
		"branch", "pr", "status", "history", "watch", "eject", "config",
	}
	have := map[string]bool{}
	for _, cmd := range root.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--path", target})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tools]") {
		t.Fatalf("sample config missing tools section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"config", "init", "--path", target})

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for existing config file")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(new(bytes.Buffer)) {
		t.Fatal("buffers are not terminals")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(new(bytes.Buffer),
		[]string{"Tool", "State"},
		[][]string{{"ffmpeg", "ok"}, {"gh", "missing"}},
		[]columnAlignment{alignLeft, alignLeft},
	)
	if !strings.Contains(out, "ffmpeg") || !strings.Contains(out, "missing") {
		t.Fatalf("unexpected table output:\n%s", out)
	}
	// Non-terminal writers get the plain style, no ANSI escapes.
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("table for non-terminal output must not be colorized:\n%s", out)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("yesNo mapping broken")
	}
}
