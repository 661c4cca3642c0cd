package language

import "testing"

func TestToISO3(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en", "eng"},
		{"eng", "eng"},
		{"english", "eng"},
		{"fre", "fra"},
		{"ger", "deu"},
		{"xyz", "xyz"},
		{"q", "und"},
		{"", "und"},
	}
	for _, tc := range cases {
		if got := ToISO3(tc.in); got != tc.want {
			t.Errorf("ToISO3(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("jpn"); got != "Japanese" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayName("xx"); got != "XX" {
		t.Fatalf("unrecognized should uppercase: got %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("got %q", got)
	}
}

func TestMatches(t *testing.T) {
	if !Matches("en", "eng") {
		t.Fatal("en should match eng")
	}
	if !Matches("fre", "fra") {
		t.Fatal("fre should match fra")
	}
	if Matches("eng", "jpn") {
		t.Fatal("eng should not match jpn")
	}
	if !Matches("zzz", "zzz") {
		t.Fatal("identical unknown codes should match")
	}
}

func TestExtractFromTags(t *testing.T) {
	tags := map[string]string{"LANGUAGE": "ENG"}
	if got := ExtractFromTags(tags); got != "eng" {
		t.Fatalf("got %q", got)
	}
	if got := ExtractFromTags(nil); got != "" {
		t.Fatalf("nil tags should yield empty, got %q", got)
	}
}
