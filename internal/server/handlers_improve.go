package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/proposal-assistant/internal/improve"
)

// ---------------------------------------------------------------------
// Improvement Run Handler
// ---------------------------------------------------------------------

type improveRequest struct {
	// Categories selects rubric categories by index; empty means all.
	Categories []int `json:"categories,omitempty"`
}

// handleImprove runs one checklist-driven improvement pass, streaming
// progress over SSE. The session is claimed for the duration of the run;
// overlapping runs get 409.
func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var req improveRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if err := sess.BeginRun(); err != nil {
		s.errorResponse(w, HTTPStatus(err), "개선 작업이 이미 진행 중입니다. 완료 후 다시 시도해 주세요.")
		return
	}
	defer sess.EndRun()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	meta := sess.Metadata()
	input := improve.Input{
		Metadata:  &meta,
		Reference: sess.Reference(),
		Sections:  sess.Sections(),
		State:     sess.ChecklistState(),
	}

	report, err := s.runner.Run(r.Context(), input, improve.RunOptions{
		Categories: req.Categories,
		OnProgress: func(ev improve.Event) {
			if werr := sse.WriteEvent(ev.Type, ev); werr != nil {
				log.Printf("improve: dropping SSE event for session %s: %v", sess.ID, werr)
			}
		},
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	sess.CommitSections(report.Sections)

	sse.WriteEvent("report", report) //nolint:errcheck
}
