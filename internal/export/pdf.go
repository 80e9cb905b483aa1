package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfFontSize   = 12
	pdfLeft       = 15.0
	pdfTop        = 20.0
	pdfWrapWidth  = 180.0
	pdfLineHeight = 5.0
	pdfPageWidth  = 210.0
)

// Block is the wrapped layout of one non-blank input line.
type Block struct {
	Lines []string
}

func newPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfLeft, pdfTop, pdfPageWidth-pdfLeft-pdfWrapWidth)
	pdf.SetAutoPageBreak(true, pdfTop)
	pdf.SetFont(pdfFont, "", pdfFontSize)
	pdf.SetCreator("coverletter-backend", true)
	pdf.SetCreationDate(epoch)
	pdf.SetCatalogSort(true)
	return pdf
}

// LayoutPDF returns the line wrapping PDF applies to text, one Block per
// non-blank line. Lines stay UTF-8.
func LayoutPDF(text string) []Block {
	pdf := newPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	var blocks []Block
	for _, p := range Paragraphs(text) {
		blocks = append(blocks, Block{Lines: wrapLine(pdf, tr, p, pdfWrapWidth)})
	}
	return blocks
}

// PDF renders text on A4 pages in 12pt Helvetica wrapped to 180mm. Blank
// input lines become vertical space. Runes outside cp1252 print as '.'.
func PDF(text string) ([]byte, error) {
	pdf := newPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(pdfLineHeight)
			continue
		}
		for _, wrapped := range wrapLine(pdf, tr, line, pdfWrapWidth) {
			pdf.CellFormat(pdfWrapWidth, pdfLineHeight, tr(wrapped), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapLine breaks line at spaces so each piece fits in width once translated
// to the core font's single-byte encoding. A word wider than width is split
// mid-word. The break space is dropped.
func wrapLine(pdf *fpdf.Fpdf, tr func(string) string, line string, width float64) []string {
	limit := width - 2*pdf.GetCellMargin()
	runes := []rune(line)
	var lines []string
	start, sep := 0, -1
	used := 0.0
	for i := 0; i < len(runes); {
		r := runes[i]
		used += pdf.GetStringWidth(tr(string(r)))
		if r == ' ' || r == '\t' {
			sep = i
		}
		if used <= limit {
			i++
			continue
		}
		if sep == -1 {
			if i == start {
				i++
			}
			sep = i
		} else {
			i = sep + 1
		}
		lines = append(lines, string(runes[start:sep]))
		start, sep, used = i, -1, 0
	}
	if start < len(runes) {
		lines = append(lines, string(runes[start:]))
	}
	return lines
}
