// Package pdftext extracts plain text from OCR'd PDFs page by page.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract concatenates per-page text with newline separators, skipping pages
// that yield nothing. An empty aggregate is logged but not an error; the
// caller decides whether that is fatal.
func (e *Extractor) Extract(ctx context.Context, path string) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic on %s: %v", filepath.Base(path), r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			e.logger.Warn("page_text_extraction_failed",
				"file", filepath.Base(path), "page", i, "error", pageErr)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text = sb.String()
	if strings.TrimSpace(text) == "" {
		e.logger.Warn("empty_extracted_text", "file", filepath.Base(path))
	}
	return text, nil
}
