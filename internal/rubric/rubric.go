// Package rubric holds the expert review checklist used to judge proposal
// completeness, and the static writing guide shown next to each section.
//
// The checklist is a fixed, ordered catalog: category index (ci) and item
// index (ii) are the stable identity of a criterion everywhere else in the
// system, so entries must never be reordered at runtime.
package rubric

import "github.com/jonathan/proposal-assistant/internal/types"

// Category is one group of checklist criteria.
type Category struct {
	Name  string   `json:"category"`
	Items []string `json:"items"`
}

// categories is the expert checklist for 공동모금회 배분사업 proposals.
// Items are phrased as statements a reviewer can mark met or unmet.
var categories = []Category{
	{
		Name: "사업 필요성",
		Items: []string{
			"문제 현황을 뒷받침하는 통계·수치 근거가 제시되어 있다",
			"지역사회 실태와 기존 서비스의 한계가 구체적으로 기술되어 있다",
			"수행기관의 특화 역량과 개입 필요성이 드러나 있다",
		},
	},
	{
		Name: "목표의 구체성",
		Items: []string{
			"성과목표에 수치 목표치(%)가 명시되어 있다",
			"성과 측정 도구(척도명)가 명시되어 있다",
			"산출목표(투입 규모·횟수·인원)가 제시되어 있다",
		},
	},
	{
		Name: "사업 내용의 충실성",
		Items: []string{
			"세부 프로그램이 단계별 또는 회기별로 구체적으로 서술되어 있다",
			"대상자 모집 방법과 선정 기준이 제시되어 있다",
			"전문인력 구성과 역할 분담이 명시되어 있다",
			"월별 추진 일정에 성과 측정(사전·중간·사후) 시점이 포함되어 있다",
		},
	},
	{
		Name: "예산 편성의 적정성",
		Items: []string{
			"모든 예산 항목에 산출근거(단가 × 수량 = 금액)가 포함되어 있다",
			"인건비 단가 기준(생활임금 또는 호봉표)이 명시되어 있다",
			"예산 합계가 신청금액과 일치한다",
		},
	},
	{
		Name: "평가 계획의 타당성",
		Items: []string{
			"성과목표별로 평가 지표와 측정 도구가 연결되어 있다",
			"사전·사후 측정 시점이 명확히 제시되어 있다",
			"정성 평가(관찰·면담·소감문 등) 방법이 포함되어 있다",
		},
	},
	{
		Name: "기대 효과와 지속 가능성",
		Items: []string{
			"참여자·지역사회·기관 차원의 기대 효과가 구분되어 있다",
			"기대 효과가 수치화 가능한 형태로 기술되어 있다",
			"사업 종료 후 지속 운영·연계 방안이 제시되어 있다",
		},
	},
}

// categorySections maps each category index to the narrative sections that
// satisfying it depends on. Order matters: the improvement loop regenerates
// sections in exactly this order.
var categorySections = [][]types.SectionKey{
	{types.SectionNecessity},
	{types.SectionObjectives},
	{types.SectionContent, types.SectionSchedule},
	{types.SectionBudget},
	{types.SectionObjectives, types.SectionEvaluation},
	{types.SectionEffects},
}

// Categories returns the full checklist in rubric order.
// The returned slice must not be modified.
func Categories() []Category {
	return categories
}

// CategoryCount returns the number of checklist categories.
func CategoryCount() int {
	return len(categories)
}

// TotalItems returns the total number of criteria across all categories.
// Score percentages divide by this, so never-evaluated criteria count as unmet.
func TotalItems() int {
	total := 0
	for _, cat := range categories {
		total += len(cat.Items)
	}
	return total
}

// Criterion returns the literal text of one criterion, or false if the key
// does not address an existing rubric entry.
func Criterion(key types.CriterionKey) (string, bool) {
	if key.Category < 0 || key.Category >= len(categories) {
		return "", false
	}
	items := categories[key.Category].Items
	if key.Item < 0 || key.Item >= len(items) {
		return "", false
	}
	return items[key.Item], true
}

// SectionsFor returns the sections that category ci depends on, in the
// declared regeneration order. Unknown indices yield nil.
func SectionsFor(ci int) []types.SectionKey {
	if ci < 0 || ci >= len(categorySections) {
		return nil
	}
	return categorySections[ci]
}
