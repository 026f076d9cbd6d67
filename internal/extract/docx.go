package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX reads word/document.xml out of the OOXML container and
// collects the text runs, one line per paragraph. A DOCX file is a zip
// archive; no further structure (tables, styles) is preserved, matching
// raw-text extraction.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Cause: err}
	}

	var doc *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", &ExtractionError{Format: "docx", Cause: fmt.Errorf("word/document.xml not found in archive")}
	}

	rc, err := doc.Open()
	if err != nil {
		return "", &ExtractionError{Format: "docx", Cause: err}
	}
	defer rc.Close()

	text, err := collectDocumentText(rc)
	if err != nil {
		return "", &ExtractionError{Format: "docx", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// collectDocumentText walks the WordprocessingML token stream. Character
// data inside <w:t> elements is text; <w:p> boundaries and <w:br> become
// newlines.
func collectDocumentText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
