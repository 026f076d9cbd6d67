package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/proposal-assistant/internal/extract"
)

// ---------------------------------------------------------------------
// Reference Upload Handler
// ---------------------------------------------------------------------

// referenceUserMessage maps extraction failures to the Korean message shown
// to the user; unexpected errors get a generic one.
func referenceUserMessage(err error) string {
	type userMessager interface{ UserMessage() string }
	if um, ok := err.(userMessager); ok {
		return um.UserMessage()
	}
	return "파일에서 텍스트를 추출하지 못했습니다. 다른 파일로 다시 시도해 주세요."
}

// handleUploadReference accepts either a multipart file upload (field "file")
// or a JSON body with pasted text, extracts the reference text, and stores it
// on the session.
func (s *Server) handleUploadReference(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")

	var text string
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(extract.MaxFileSize); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, extract.MaxFileSize+1))
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to read upload")
			return
		}

		text, err = extract.Extract(header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			s.jsonResponse(w, HTTPStatus(err), map[string]string{
				"error":   err.Error(),
				"message": referenceUserMessage(err),
			})
			return
		}

	default:
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		text = req.Text
	}

	text = strings.TrimSpace(text)
	sess.SetReference(text)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "stored",
		"length":  utf8.RuneCountInString(text),
		"preview": preview(text, 200),
	})
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
