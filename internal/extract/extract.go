// Package extract turns uploaded résumé files into plain text.
//
// Extraction is best effort: any unsupported format or unreadable payload
// yields ErrExtractionFailed and never a panic.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
)

// ErrExtractionFailed is returned for unsupported or unreadable files.
var ErrExtractionFailed = errors.New("extraction failed")

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"

	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtensionOf returns the lower-case extension of fileName without the dot.
func ExtensionOf(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))), ".")
}

// FormatOf picks the extraction format from the declared file name, falling
// back to the mime type for names without a usable extension.
func FormatOf(fileName, mimeType string) string {
	if ext := ExtensionOf(fileName); ext != "" {
		return ext
	}
	switch strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])) {
	case mimePDF:
		return FormatPDF
	case mimeDOCX:
		return FormatDOCX
	}
	return ""
}

// Text extracts plain text from data in the given format.
func Text(ctx context.Context, data []byte, format string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %s: panic: %v", ErrExtractionFailed, format, rec)
		}
	}()

	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrExtractionFailed, format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtractionFailed, format, err)
	}
	return text, nil
}

// TextOrEmpty is Text for callers that treat extraction as optional. Failures
// are logged and counted, and the caller gets "".
func TextOrEmpty(ctx context.Context, data []byte, fileName, mimeType string) string {
	format := FormatOf(fileName, mimeType)
	text, err := Text(ctx, data, format)
	if err != nil {
		metrics.IncExtractionFailure(format)
		telemetry.Warn("extract.failed", map[string]any{
			"file_name": fileName,
			"format":    format,
			"error":     err,
		})
		return ""
	}
	return text
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimRight(text, "\n"))
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return documentText(rc)
}

// documentText collects w:t runs, breaking lines at paragraphs and w:br.
func documentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				buf.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
