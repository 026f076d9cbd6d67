package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/evaluate"
	"github.com/jonathan/proposal-assistant/internal/generate"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// ---------------------------------------------------------------------
// Section Generation Handler
// ---------------------------------------------------------------------

// streamStatusTrailer reports "complete" or "aborted" after a chunked
// generation response ends.
const streamStatusTrailer = "X-Stream-Status"

type generateSectionRequest struct {
	// Improve regenerates from the current text instead of drafting fresh.
	Improve bool `json:"improve"`
}

// handleGenerateSection streams one section draft as chunked plain text and
// commits the accumulated result to the session when the stream ends.
func (s *Server) handleGenerateSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	key, err := types.ParseSectionKey(r.PathValue("key"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Unknown section: "+r.PathValue("key"))
		return
	}

	var req generateSectionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	meta := sess.Metadata()
	if meta.AgencyName == "" || meta.ProjectName == "" {
		s.errorResponse(w, http.StatusBadRequest, "Agency name and project name are required before generation")
		return
	}

	if err := sess.BeginSectionStream(key); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var current string
	if req.Improve {
		current = sess.Sections()[key]
	}

	stream, err := s.generator.Stream(r.Context(), generate.Request{
		Section:   key,
		Metadata:  &meta,
		Reference: sess.Reference(),
		Current:   current,
	})
	if err != nil {
		sess.EndSectionStream(key)
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	// The trailer tells the client whether the text it accumulated is the
	// whole draft or a truncated partial.
	w.Header().Set("Trailer", streamStatusTrailer)
	w.WriteHeader(http.StatusOK)

	var accumulated string
	var streamErr error
	for chunk := range stream {
		if chunk.Err != nil {
			streamErr = chunk.Err
			break
		}
		accumulated += chunk.Text
		fmt.Fprint(w, chunk.Text)
		if canFlush {
			flusher.Flush()
		}
	}

	if streamErr != nil {
		// Headers are already out; all we can do is keep any partial text,
		// mark the response aborted, and log the failure. Empty partials do
		// not overwrite the section.
		log.Printf("generate: stream aborted for session %s section %s: %v", sess.ID, key, streamErr)
		w.Header().Set(streamStatusTrailer, "aborted")
		if accumulated == "" {
			sess.EndSectionStream(key)
			return
		}
		sess.SetSectionStreamed(key, accumulated)
		return
	}

	w.Header().Set(streamStatusTrailer, "complete")
	sess.SetSectionStreamed(key, accumulated)
}

// ---------------------------------------------------------------------
// Checklist Evaluation Handler
// ---------------------------------------------------------------------

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	if sess.Improving() {
		s.errorResponse(w, http.StatusConflict, "개선 작업이 진행 중입니다. 완료 후 다시 시도해 주세요.")
		return
	}

	meta := sess.Metadata()
	verdicts, err := s.evaluator.Evaluate(r.Context(), sess.Sections(), &meta)
	if err != nil {
		var backend *evaluate.BackendError
		switch {
		case errors.Is(err, evaluate.ErrMalformedResponse):
			log.Printf("check: malformed evaluator response for session %s", sess.ID)
			s.jsonResponse(w, HTTPStatus(err), map[string]string{
				"error":   err.Error(),
				"message": "AI 점검 결과를 해석하지 못했습니다. 다시 시도해 주세요.",
			})
		case errors.As(err, &backend):
			log.Printf("check: backend error for session %s: %v", sess.ID, err)
			s.jsonResponse(w, HTTPStatus(err), map[string]string{
				"error":   err.Error(),
				"message": "AI 점검 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요.",
			})
		default:
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	var snapshot map[string]types.CriterionStatus
	var score int
	var tier string
	if err := sess.WithState(func(state *checklist.State) {
		state.ApplyVerdicts(verdicts)
		snapshot = state.Snapshot()
		score = state.Score()
		tier = state.Tier()
	}); err != nil {
		// A run claimed the session while the evaluation was in flight.
		s.errorResponse(w, HTTPStatus(err), "개선 작업이 진행 중입니다. 완료 후 다시 시도해 주세요.")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"verdict_count": len(verdicts),
		"checklist":     snapshot,
		"score":         score,
		"tier":          tier,
	})
}
