// Package export renders plain-text cover letters as downloadable documents.
package export

import (
	"strings"
	"time"

	"coverletter-backend/internal/shared/util"
)

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"

	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// epoch stamps every generated container so repeated exports match.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FileName builds "<label> Cover Letter.<ext>" from a caller supplied label.
func FileName(label, ext string) string {
	return util.SanitizeLabel(label, "Unknown") + " Cover Letter." + ext
}

// Paragraphs splits text into its non-blank lines.
func Paragraphs(text string) []string {
	var out []string
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
}
