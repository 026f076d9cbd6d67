// Package extract pulls plain text out of uploaded reference documents
// (PDF, DOCX, plain text) so it can be fed into generation prompts.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize is the upload ceiling for reference files.
const MaxFileSize = 100 * 1024 * 1024

// Extract returns the plain text of an uploaded document. The format is
// chosen from the declared MIME type first, then the filename extension.
// Oversized or unrecognized files fail with the typed errors in errors.go.
func Extract(filename, mimeType string, data []byte) (string, error) {
	if len(data) > MaxFileSize {
		return "", &TooLargeError{Size: len(data)}
	}

	switch {
	case mimeType == "application/pdf" || hasExt(filename, ".pdf"):
		return extractPDF(data)
	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || hasExt(filename, ".docx"):
		return extractDOCX(data)
	case mimeType == "text/plain" || hasExt(filename, ".txt"):
		return extractText(data)
	default:
		return "", &UnsupportedFormatError{Filename: filename, MIMEType: mimeType}
	}
}

func hasExt(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Cause: err}
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Cause: err}
	}

	var b bytes.Buffer
	if _, err := io.Copy(&b, textReader); err != nil {
		return "", &ExtractionError{Format: "pdf", Cause: err}
	}
	return strings.TrimSpace(b.String()), nil
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &ExtractionError{Format: "txt", Cause: fmt.Errorf("file is not valid UTF-8")}
	}
	return strings.TrimSpace(string(data)), nil
}
