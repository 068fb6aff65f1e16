package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	dslipak "github.com/dslipak/pdf"
	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/Mayur7685/SpecterAI/pkg/logger"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractText returns the plain text of an uploaded document. Text and
// markdown files are read as-is; PDFs go through a two-library fallback
// chain.
func ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return string(data), nil
	case ".pdf":
		return ExtractPDFText(ctx, filename, data)
	default:
		return "", fmt.Errorf("unsupported file type: please upload TXT, PDF, or MD files")
	}
}

// ExtractPDFText extracts text from a PDF. The primary extractor handles
// most text-based PDFs; a second library is tried when it fails. A PDF
// that parses but yields no text (scanned pages) produces guidance text
// instead of an error, and the analysis proceeds with that.
func ExtractPDFText(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := extractPrimary(data)
	if err == nil && strings.TrimSpace(text) != "" {
		logger.Debug(ctx, "pdf text extracted", "file", filename, "chars", len(text))
		return text, nil
	}
	if err != nil {
		logger.Warn(ctx, "primary pdf extraction failed, trying fallback", "file", filename, "error", err)
	}

	text, pages, fallbackErr := extractFallback(data)
	if fallbackErr != nil {
		if err != nil {
			return "", fmt.Errorf("unable to process PDF file: please ensure the file is not corrupted or try converting to text format")
		}
		// Primary parsed the document but found no text.
		pages = 0
	}

	if strings.TrimSpace(text) == "" {
		return scannedPDFGuidance(filename, pages, len(data)), nil
	}
	return text, nil
}

// extractPrimary reads the whole document through ledongthuc/pdf. The
// library panics on some malformed files, hence the recover.
func extractPrimary(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	content, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text: %w", err)
	}
	return string(content), nil
}

// extractFallback walks the PDF page by page with dslipak/pdf, skipping
// pages that fail individually.
func extractFallback(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf extraction panicked: %v", r)
		}
	}()

	reader, err := dslipak.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages = reader.NumPage()
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString(" ")
	}
	return b.String(), pages, nil
}

// scannedPDFGuidance is returned when a PDF parses but carries no
// extractable text, so the report still tells the user what to do.
func scannedPDFGuidance(filename string, pages, size int) string {
	return fmt.Sprintf(`PDF Document Analysis - %s

This PDF document contains %d page(s) but appears to have limited extractable text content.

For optimal analysis, please consider:

1. Text-based PDFs: ensure your PDF contains selectable text (not just images)
2. Alternative formats: convert to .txt or .md format for best results
3. Copy-paste method: extract text manually and save as a text file

Document Information:
- File: %s
- Pages: %d
- Size: %.2f MB
- Type: PDF document

The analysis will proceed with available content, but results may be limited. For comprehensive legal document analysis, text-based formats are recommended.`,
		filename, pages, filename, pages, float64(size)/1024/1024)
}

// CleanDocument collapses whitespace runs into single spaces and trims.
func CleanDocument(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
