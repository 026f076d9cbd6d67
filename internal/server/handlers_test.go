package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/session"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// fakeLLM serves canned responses for both evaluation and generation.
type fakeLLM struct {
	jsonResponse string
	jsonErr      error
	streamChunks []llm.Chunk
}

func (f *fakeLLM) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (f *fakeLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return f.jsonResponse, f.jsonErr
}

func (f *fakeLLM) GenerateStream(context.Context, string, string, llm.ModelTier) (<-chan llm.Chunk, error) {
	out := make(chan llm.Chunk, len(f.streamChunks))
	for _, c := range f.streamChunks {
		out <- c
	}
	close(out)
	return out, nil
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	srv, err := New(Config{Port: 0, LLMClient: client})
	require.NoError(t, err)
	return srv
}

func (s *Server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// createSession creates a session via the API and returns its id.
func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := decodeBody(t, rec)["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func validMetadata() map[string]string {
	return map[string]string{
		"agency_name":  "행복복지관",
		"project_name": "마음잇기 프로젝트",
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, id, body["session_id"])
	assert.Equal(t, float64(0), body["score"])

	rec = srv.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPutMetadata(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", validMetadata())
	assert.Equal(t, http.StatusOK, rec.Code)

	// Missing required fields.
	rec = srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", map[string]string{
		"agency_name": "행복복지관",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed email.
	meta := validMetadata()
	meta["email"] = "not-an-email"
	rec = srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", meta)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutSection(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/necessity",
		map[string]string{"text": "지역 내 고립 어르신 증가"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	body := decodeBody(t, rec)
	sections := body["sections"].(map[string]any)
	assert.Equal(t, "지역 내 고립 어르신 증가", sections["necessity"])

	rec = srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/conclusion",
		map[string]string{"text": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutSection_ConflictsWhileStreaming(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.BeginSectionStream(types.SectionBudget))

	rec := srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/budget",
		map[string]string{"text": "편집 시도"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestToggleCriterion(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/checklist/0/1/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "0_1", body["key"])
	status := body["status"].(map[string]any)
	assert.Equal(t, true, status["checked"])

	// Unknown criteria and garbage indexes are rejected.
	rec = srv.do(t, http.MethodPost, "/api/sessions/"+id+"/checklist/99/0/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/sessions/"+id+"/checklist/a/b/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleCriterion_ConflictWhileImproving(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.BeginRun())

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/checklist/0/1/toggle", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	sess.EndRun()
	rec = srv.do(t, http.MethodPost, "/api/sessions/"+id+"/checklist/0/1/toggle", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChecklistCatalog(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})

	rec := srv.do(t, http.MethodGet, "/api/checklist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	categories := body["categories"].([]any)
	assert.Len(t, categories, 6)
	first := categories[0].(map[string]any)
	assert.Equal(t, "사업 필요성", first["name"])
	assert.NotEmpty(t, first["items"])
	assert.NotEmpty(t, first["sections"])
}

func TestGuide(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})

	rec := srv.do(t, http.MethodGet, "/api/guide/budget", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "5. 예산 계획", body["label"])
	assert.NotEmpty(t, body["points"])

	rec = srv.do(t, http.MethodGet, "/api/guide/unknown", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadReference_PastedText(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/reference",
		map[string]string{"text": "  작년 실적 보고서 요약  "})
	require.Equal(t, http.StatusOK, rec.Code)

	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "작년 실적 보고서 요약", sess.Reference())
}

func TestUploadReference_File(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "report.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("참고 자료 본문"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/reference", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "참고 자료 본문", sess.Reference())
}

func TestUploadReference_UnsupportedFormat(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "slides.pptx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("irrelevant"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/reference", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "지원하지 않는 파일 형식")
}

func TestCheck_AppliesVerdicts(t *testing.T) {
	client := &fakeLLM{jsonResponse: `[
		{"key": "0_0", "ok": true},
		{"key": "0_1", "ok": false, "why": "통계 근거 없음"}
	]`}
	srv := newTestServer(t, client)
	id := createSession(t, srv)

	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", validMetadata())
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/necessity",
		map[string]string{"text": "고립 어르신 증가"})

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["verdict_count"])

	checklist := body["checklist"].(map[string]any)
	require.Contains(t, checklist, "0_1")
	item := checklist["0_1"].(map[string]any)
	assert.Equal(t, false, item["checked"])
	assert.Equal(t, "통계 근거 없음", item["reason"])
}

func TestCheck_EmptyNarrativeIsNoOp(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{jsonResponse: "ignored"})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(0), body["verdict_count"])
}

func TestCheck_BackendError(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{jsonErr: fmt.Errorf("quota exceeded")})
	id := createSession(t, srv)

	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/necessity",
		map[string]string{"text": "본문"})

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/check", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "다시 시도")
}

func TestCheck_ConflictWhileImproving(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{jsonResponse: `[{"key": "0_0", "ok": true}]`})
	id := createSession(t, srv)

	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/necessity",
		map[string]string{"text": "본문"})

	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.BeginRun())

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/check", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	sess.EndRun()
	rec = srv.do(t, http.MethodPost, "/api/sessions/"+id+"/check", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateSection_StreamsAndCommits(t *testing.T) {
	client := &fakeLLM{streamChunks: []llm.Chunk{
		{Text: "첫 문단. "},
		{Text: "둘째 문단."},
	}}
	srv := newTestServer(t, client)
	id := createSession(t, srv)
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", validMetadata())

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/sections/necessity/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "첫 문단. 둘째 문단.", rec.Body.String())
	assert.Equal(t, "complete", rec.Result().Trailer.Get("X-Stream-Status"))

	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "첫 문단. 둘째 문단.", sess.Sections()[types.SectionNecessity])
}

func TestGenerateSection_AbortedStreamKeepsPartial(t *testing.T) {
	client := &fakeLLM{streamChunks: []llm.Chunk{
		{Text: "부분 결과."},
		{Err: fmt.Errorf("stream interrupted")},
	}}
	srv := newTestServer(t, client)
	id := createSession(t, srv)
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", validMetadata())

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/sections/necessity/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "부분 결과.", rec.Body.String())
	assert.Equal(t, "aborted", rec.Result().Trailer.Get("X-Stream-Status"),
		"the trailer must tell the client the text is truncated")

	// The partial survives in the session and the section is editable again.
	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "부분 결과.", sess.Sections()[types.SectionNecessity])
	assert.NoError(t, sess.SetSection(types.SectionNecessity, "수정"))
}

func TestGenerateSection_RequiresMetadata(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/sections/necessity/generate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImprove_SSEFlow(t *testing.T) {
	client := &fakeLLM{
		streamChunks: []llm.Chunk{{Text: "개선된 목표 본문"}},
		jsonResponse: `[{"key": "1_0", "ok": true}]`,
	}
	srv := newTestServer(t, client)
	id := createSession(t, srv)
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", validMetadata())
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/objectives",
		map[string]string{"text": "초기 목표"})

	// Seed the checklist with an evaluator-identified gap in category 1.
	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	sess.ChecklistState().ApplyVerdicts(map[types.CriterionKey]types.Verdict{
		{Category: 1, Item: 0}: {Checked: false, Reason: "수치 목표 없음"},
	})

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/improve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := rec.Body.String()
	assert.Contains(t, events, "event: category_start")
	assert.Contains(t, events, "event: section_done")
	assert.Contains(t, events, "event: complete")
	assert.Contains(t, events, "event: report")

	// The run's output was committed and the verdict merged.
	assert.Equal(t, "개선된 목표 본문", sess.Sections()[types.SectionObjectives])
	st, _ := sess.ChecklistState().Get(types.CriterionKey{Category: 1, Item: 0})
	assert.True(t, st.Checked)
}

func TestImprove_ConflictWhileRunning(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	sess, err := srv.store.Get(id)
	require.NoError(t, err)
	require.NoError(t, sess.BeginRun())

	rec := srv.do(t, http.MethodPost, "/api/sessions/"+id+"/improve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExport(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/metadata", validMetadata())
	srv.do(t, http.MethodPut, "/api/sessions/"+id+"/sections/necessity",
		map[string]string{"text": "고립 어르신 **증가**"})

	rec := srv.do(t, http.MethodGet, "/api/sessions/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	html := rec.Body.String()
	assert.Contains(t, html, "마음잇기 프로젝트")
	assert.Contains(t, html, "<strong>증가</strong>")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})

	rec := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "fake-model", body["model"])
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(session.ErrNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(session.ErrBusy))
	assert.Equal(t, http.StatusConflict, HTTPStatus(&session.SectionBusyError{Section: types.SectionBudget}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("anything else")))
}

func TestRequestValidation_BadJSON(t *testing.T) {
	srv := newTestServer(t, &fakeLLM{})
	id := createSession(t, srv)

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id+"/metadata",
		strings.NewReader("{ broken"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
