package util

import (
	"errors"
	"strings"
	"unicode"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

const maxLabelLength = 100

// SanitizeLabel turns free text into a string safe to embed in a download
// file name. It drops path-unsafe and control characters, collapses
// whitespace, trims dots and spaces from both ends and caps the length.
// An empty result becomes fallback.
func SanitizeLabel(label, fallback string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r):
			continue
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	s = strings.Trim(s, ". ")
	if runes := []rune(s); len(runes) > maxLabelLength {
		s = strings.Trim(string(runes[:maxLabelLength]), ". ")
	}
	if s == "" {
		return fallback
	}
	return s
}
