package server

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/jonathan/proposal-assistant/internal/export"
)

// ---------------------------------------------------------------------
// Export Handler
// ---------------------------------------------------------------------

// handleExport renders the proposal as a print-ready HTML document and
// serves it as a download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	meta := sess.Metadata()
	doc, err := export.Render(&meta, sess.Sections())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to render document: "+err.Error())
		return
	}

	filename := export.Filename(&meta)
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc) //nolint:errcheck
}
