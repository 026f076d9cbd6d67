package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/rubric"
	"github.com/jonathan/proposal-assistant/internal/session"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// ---------------------------------------------------------------------
// Session Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Create()
	s.jsonResponse(w, http.StatusCreated, sess.Snapshot())
}

// getSession resolves the {id} path value, writing the error response itself
// on failure.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "Session not found")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.getSession(w, r); !ok {
		return
	}
	s.store.Delete(r.PathValue("id"))
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Metadata and Section Handlers
// ---------------------------------------------------------------------

func (s *Server) handlePutMetadata(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	var meta types.ProposalMetadata
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validate.Struct(&meta); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid field: "+errs[0].Field())
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid metadata")
		return
	}

	sess.SetMetadata(meta)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

type putSectionRequest struct {
	Text string `json:"text"`
}

func (s *Server) handlePutSection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	key, err := types.ParseSectionKey(r.PathValue("key"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Unknown section: "+r.PathValue("key"))
		return
	}

	var req putSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := sess.SetSection(key, req.Text); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ---------------------------------------------------------------------
// Checklist Handlers
// ---------------------------------------------------------------------

func (s *Server) handleToggleCriterion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.getSession(w, r)
	if !ok {
		return
	}

	ci, err1 := strconv.Atoi(r.PathValue("ci"))
	ii, err2 := strconv.Atoi(r.PathValue("ii"))
	if err1 != nil || err2 != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid checklist item key")
		return
	}
	key := types.CriterionKey{Category: ci, Item: ii}
	if _, known := rubric.Criterion(key); !known {
		s.errorResponse(w, http.StatusNotFound, "Unknown checklist item: "+key.String())
		return
	}

	var status types.CriterionStatus
	var score int
	var tier string
	err := sess.WithState(func(state *checklist.State) {
		status = state.Toggle(key)
		score = state.Score()
		tier = state.Tier()
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "개선 작업이 진행 중입니다. 완료 후 다시 시도해 주세요.")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"key":    key.String(),
		"status": status,
		"score":  score,
		"tier":   tier,
	})
}

// handleChecklistCatalog returns the full rubric: categories, items, and the
// sections each category maps to.
func (s *Server) handleChecklistCatalog(w http.ResponseWriter, _ *http.Request) {
	type categoryView struct {
		Index    int                `json:"index"`
		Name     string             `json:"name"`
		Items    []string           `json:"items"`
		Sections []types.SectionKey `json:"sections"`
	}

	categories := rubric.Categories()
	out := make([]categoryView, 0, len(categories))
	for ci, cat := range categories {
		out = append(out, categoryView{
			Index:    ci,
			Name:     cat.Name,
			Items:    cat.Items,
			Sections: rubric.SectionsFor(ci),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"categories":  out,
		"total_items": rubric.TotalItems(),
	})
}

// ---------------------------------------------------------------------
// Writing Guide Handler
// ---------------------------------------------------------------------

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	key, err := types.ParseSectionKey(r.PathValue("section"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Unknown section: "+r.PathValue("section"))
		return
	}

	guide := rubric.GuideFor(key)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"section":   key,
		"label":     key.Label(),
		"points":    guide.Points,
		"mistakes":  guide.Mistakes,
		"templates": guide.Templates,
	})
}
