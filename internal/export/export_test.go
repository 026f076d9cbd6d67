package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-assistant/internal/types"
)

func testMeta() *types.ProposalMetadata {
	return &types.ProposalMetadata{
		AgencyName:  "행복복지관",
		ProjectName: "마음잇기 프로젝트",
		ProjectType: "문제해결형",
		StartDate:   "2026-03-01",
		EndDate:     "2026-12-31",
		BudgetTotal: "20,000,000",
		Target:      "독거 어르신",
		TargetCount: "30명",
	}
}

func TestRender_CoverAndSections(t *testing.T) {
	sections := types.NewSections()
	sections[types.SectionNecessity] = "## 현황\n\n- 고립 어르신 **증가**"
	sections[types.SectionBudget] = "인건비 10,000,000원"

	doc, err := Render(testMeta(), sections)
	require.NoError(t, err)
	html := string(doc)

	// Cover table.
	assert.Contains(t, html, "마음잇기 프로젝트")
	assert.Contains(t, html, "행복복지관")
	assert.Contains(t, html, "2026-03-01 ~ 2026-12-31")
	assert.Contains(t, html, "20,000,000원")
	assert.Contains(t, html, "독거 어르신 30명")

	// Non-empty sections appear with their numbered headings; empty ones are
	// omitted entirely.
	assert.Contains(t, html, "1. 사업 필요성")
	assert.Contains(t, html, "5. 예산 계획")
	assert.NotContains(t, html, "4. 추진 일정")

	// Markdown bodies are rendered to HTML.
	assert.Contains(t, html, "<strong>증가</strong>")
	assert.Contains(t, html, "<h2")
}

func TestRender_OptionalRows(t *testing.T) {
	meta := testMeta()
	doc, err := Render(meta, types.NewSections())
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "담  당  자")

	meta.ManagerName = "김담당"
	meta.Region = "서울 강북구"
	doc, err = Render(meta, types.NewSections())
	require.NoError(t, err)
	assert.Contains(t, string(doc), "김담당")
	assert.Contains(t, string(doc), "서울 강북구")
}

func TestRender_MissingValues(t *testing.T) {
	doc, err := Render(&types.ProposalMetadata{AgencyName: "행복복지관"}, types.NewSections())
	require.NoError(t, err)
	html := string(doc)

	assert.Contains(t, html, "(미입력)")
	assert.Contains(t, html, "미정")
}

func TestRender_NilMetadata(t *testing.T) {
	_, err := Render(nil, types.NewSections())
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "행복복지관_사업계획서.html", Filename(testMeta()))
	assert.Equal(t, "기관_사업계획서.html", Filename(&types.ProposalMetadata{}))
}

func TestKoreanDate(t *testing.T) {
	d := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026년 9월 1일", koreanDate(d))
}
