package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" a/b\\c.pdf ")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "a_b_c.pdf" {
		t.Fatalf("unexpected name %q", got)
	}
	for _, bad := range []string{"", "   ", "../x.pdf"} {
		if _, err := SanitizeFileName(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Ada Lovelace", want: "Ada Lovelace"},
		{name: "unsafe characters", input: `Ada<>:"/\|?*Lovelace`, want: "AdaLovelace"},
		{name: "collapse whitespace", input: "  Ada \t\n  Lovelace  ", want: "Ada Lovelace"},
		{name: "leading and trailing dots", input: "..Ada.. ", want: "Ada"},
		{name: "empty falls back", input: " ?* ", want: "Unknown"},
		{name: "control chars", input: "Ada\x00\x07Lovelace", want: "Ada Lovelace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLabel(tt.input, "Unknown"); got != tt.want {
				t.Fatalf("SanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	long := SanitizeLabel(strings.Repeat("é", 250), "Unknown")
	if n := len([]rune(long)); n != 100 {
		t.Fatalf("expected 100 runes, got %d", n)
	}
}
