package dvd

import (
	"testing"

	"ripkit/internal/tvdb"
)

func TestShowTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"the office", "The Office"},
		{"  twin   peaks  ", "Twin Peaks"},
		{"BREAKING bad", "Breaking Bad"},
	}
	for _, tc := range cases {
		if got := ShowTitle(tc.in); got != tc.want {
			t.Errorf("ShowTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEpisodeFileName(t *testing.T) {
	episode := tvdb.Episode{SeasonNumber: 1, EpisodeNumber: 2, Title: "Traces to Nowhere"}
	got := EpisodeFileName("Twin Peaks", episode, ".mkv")
	want := "Twin Peaks - S01E02 - Traces to Nowhere.mkv"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEpisodeFileNameSanitizesTitle(t *testing.T) {
	episode := tvdb.Episode{SeasonNumber: 3, EpisodeNumber: 11, Title: "Part 1/2: What?"}
	got := EpisodeFileName("Show", episode, ".mkv")
	for _, ch := range `/\:*?"<>|` {
		if containsRune(got, ch) {
			t.Fatalf("unsanitized %q in %q", string(ch), got)
		}
	}
}

func TestEpisodeFileNameMissingTitle(t *testing.T) {
	episode := tvdb.Episode{SeasonNumber: 2, EpisodeNumber: 5}
	got := EpisodeFileName("Show", episode, ".mkv")
	want := "Show - S02E05 - Episode 5.mkv"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
