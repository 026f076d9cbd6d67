package evaluate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// fakeClient captures evaluation prompts and returns canned responses.
type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) GenerateStream(_ context.Context, _, _ string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func testMeta() *types.ProposalMetadata {
	return &types.ProposalMetadata{
		AgencyName:  "행복복지관",
		ProjectName: "마음잇기 프로젝트",
	}
}

func TestEvaluate_EmptyNarrativeSkipsBackend(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client)

	verdicts, err := svc.Evaluate(context.Background(), types.NewSections(), testMeta())
	require.NoError(t, err)
	assert.Empty(t, verdicts)
	assert.Empty(t, client.prompts, "empty narrative must not reach the backend")
}

func TestEvaluate_Success(t *testing.T) {
	client := &fakeClient{response: `[{"key": "0_0", "ok": false, "why": "근거 부족"}]`}
	svc := NewService(client)

	narrative := types.NewSections()
	narrative[types.SectionNecessity] = "지역 내 고립 어르신이 늘고 있다."

	verdicts, err := svc.Evaluate(context.Background(), narrative, testMeta())
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, "근거 부족", verdicts[types.CriterionKey{Category: 0, Item: 0}].Reason)
}

func TestEvaluate_BackendError(t *testing.T) {
	cause := errors.New("quota exceeded")
	client := &fakeClient{err: cause}
	svc := NewService(client)

	narrative := types.NewSections()
	narrative[types.SectionNecessity] = "본문"

	verdicts, err := svc.Evaluate(context.Background(), narrative, testMeta())
	assert.Empty(t, verdicts)

	var backend *BackendError
	require.ErrorAs(t, err, &backend)
	assert.ErrorIs(t, err, cause)
}

func TestEvaluate_MalformedResponse(t *testing.T) {
	client := &fakeClient{response: "평가 결과를 드릴 수 없습니다."}
	svc := NewService(client)

	narrative := types.NewSections()
	narrative[types.SectionNecessity] = "본문"

	verdicts, err := svc.Evaluate(context.Background(), narrative, testMeta())
	assert.Empty(t, verdicts)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBuildPrompt_Contents(t *testing.T) {
	narrative := types.NewSections()
	narrative[types.SectionNecessity] = "고립 어르신 증가"
	narrative[types.SectionBudget] = "총 2,000만원"

	prompt := BuildPrompt(narrative, testMeta())

	// Metadata and non-empty sections appear, labeled by key.
	assert.Contains(t, prompt, "마음잇기 프로젝트")
	assert.Contains(t, prompt, "[necessity]\n고립 어르신 증가")
	assert.Contains(t, prompt, "[budget]\n총 2,000만원")
	assert.NotContains(t, prompt, "[schedule]")

	// The rubric appears flattened as "{ci}_{ii} [category] item" lines.
	assert.Contains(t, prompt, "0_0 [")
	assert.Contains(t, prompt, "5_2 [")
}
