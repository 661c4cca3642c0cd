package encode

import (
	"slices"
	"strings"
	"testing"
)

func TestEncodingConfigCRFArgs(t *testing.T) {
	cfg, err := NewEncodingConfig("libx265", CRF(23), "slow")
	if err != nil {
		t.Fatal(err)
	}

	args := cfg.Args()
	assertSubsequence(t, args, "-crf", "23")
	assertSubsequence(t, args, "-preset", "slow")
	if slices.Contains(args, "-b:v") {
		t.Fatalf("crf mode must not emit -b:v: %v", args)
	}
}

func TestEncodingConfigVBRArgs(t *testing.T) {
	rate, err := VBR("4000k")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := NewEncodingConfig("libx264", rate, "medium")
	if err != nil {
		t.Fatal(err)
	}

	args := cfg.Args()
	assertSubsequence(t, args, "-b:v", "4000k")
	if slices.Contains(args, "-crf") || slices.Contains(args, "-qp") {
		t.Fatalf("vbr mode must not emit quality flags: %v", args)
	}
}

func TestEncodingConfigCQPArgs(t *testing.T) {
	cfg, err := NewEncodingConfig("hevc_vaapi", CQP(25), "")
	if err != nil {
		t.Fatal(err)
	}
	assertSubsequence(t, cfg.Args(), "-qp", "25")
}

func TestEncodingConfigOptionalFlags(t *testing.T) {
	cfg, err := NewEncodingConfig("libx265", CRF(20), "slow", WithProfile("main10"), WithLevel("4.1"))
	if err != nil {
		t.Fatal(err)
	}
	args := cfg.Args()
	assertSubsequence(t, args, "-profile:v", "main10")
	assertSubsequence(t, args, "-level", "4.1")

	plain, err := NewEncodingConfig("libx265", CRF(20), "slow")
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(plain.Args(), "-profile:v") {
		t.Fatal("absent profile must omit its flag")
	}
}

func TestParseRateControlRejectsUnknownMode(t *testing.T) {
	if _, err := ParseRateControl("abr", 0, ""); err == nil {
		t.Fatal("expected construction-time error for unknown mode")
	}
}

func TestVBRRequiresBitrate(t *testing.T) {
	if _, err := VBR("  "); err == nil {
		t.Fatal("expected error for empty bitrate")
	}
}

func TestNewEncodingConfigRequiresRateControl(t *testing.T) {
	if _, err := NewEncodingConfig("libx265", RateControl{}, "slow"); err == nil {
		t.Fatal("expected error for zero rate control")
	}
}

func TestEncodingConfigString(t *testing.T) {
	cfg, err := NewEncodingConfig("libx265", CRF(23), "slow")
	if err != nil {
		t.Fatal(err)
	}
	s := cfg.String()
	if !strings.Contains(s, "crf") || !strings.Contains(s, "23") {
		t.Fatalf("description should name mode and value: %q", s)
	}
}

// assertSubsequence checks that flag and value appear adjacently in args.
func assertSubsequence(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}
	t.Fatalf("missing %s %s in %v", flag, value, args)
}
