package extract

import "fmt"

// UnsupportedFormatError indicates a file type outside {pdf, docx, txt}.
// Surfaced to the user as a rejection; not retried.
type UnsupportedFormatError struct {
	Filename string
	MIMEType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format (file %q, type %q): only PDF, DOCX and TXT are accepted", e.Filename, e.MIMEType)
}

// UserMessage is the Korean rejection shown in the UI.
func (e *UnsupportedFormatError) UserMessage() string {
	return "지원하지 않는 파일 형식입니다. PDF, DOCX, TXT만 가능합니다."
}

// TooLargeError indicates the upload exceeded MaxFileSize.
type TooLargeError struct {
	Size int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file too large: %d bytes (limit %d)", e.Size, MaxFileSize)
}

// UserMessage is the Korean rejection shown in the UI.
func (e *TooLargeError) UserMessage() string {
	return fmt.Sprintf("파일 크기가 너무 큽니다. 최대 100MB까지 업로드 가능합니다. (현재 파일: %.1fMB)", float64(e.Size)/1024/1024)
}

// ExtractionError indicates the file was accepted but its content could not
// be read.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s text failed: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
