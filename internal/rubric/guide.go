package rubric

import "github.com/jonathan/proposal-assistant/internal/types"

// Guide holds the static writing aid for one section: what to cover, what
// reviewers flag, and insertable example passages.
type Guide struct {
	Points    []string `json:"points"`
	Mistakes  []string `json:"mistakes"`
	Templates []string `json:"templates"`
}

var guides = map[types.SectionKey]Guide{
	types.SectionNecessity: {
		Points: []string{
			"국내외 통계를 인용해 문제의 심각성을 제시",
			"지역사회 실태를 구체적인 현황 데이터로 뒷받침",
			"기존 서비스의 한계와 기관의 개입 필요성을 연결",
		},
		Mistakes: []string{
			"\"있을 것으로 예상된다\" 등 근거 없는 추정 표현",
			"타 기관과의 차별성 없이 일반론만 나열",
		},
		Templates: []string{
			"통계청(2024)에 따르면 ○○ 인구는 전체의 ○○%로, 최근 5년간 ○○% 증가하였다. 특히 ○○ 지역은...",
			"본 기관은 ○년간 ○○ 사업을 수행하며 누적 ○○명의 대상자를 지원한 경험과 전문인력을 보유하고 있어...",
		},
	},
	types.SectionObjectives: {
		Points: []string{
			"최종 목적은 1~2문장으로 간결하게",
			"성과목표는 SMART 원칙에 따라 수치 목표치와 측정 도구를 명시",
			"산출목표에 투입 규모(횟수·인원)를 제시",
		},
		Mistakes: []string{
			"\"향상\", \"증진\" 등 방향만 있고 수치 목표치가 없는 목표",
			"측정 도구 없이 선언만 하는 성과목표",
		},
		Templates: []string{
			"성과목표 1: 참여자의 자존감을 RSES 척도 기준 사전 대비 15% 이상 향상시킨다.",
			"산출목표: 주 1회, 회기당 90분, 총 24회기 프로그램 운영 (연인원 480명 참여)",
		},
	},
	types.SectionContent: {
		Points: []string{
			"프로그램 전체 구조를 먼저 제시한 뒤 세부 내용 서술",
			"대상자 모집 방법과 선정 기준을 명시",
			"전문인력 구성과 협력기관 역할 분담 포함",
		},
		Mistakes: []string{
			"프로그램 제목만 나열하고 내용 서술이 없는 경우",
			"선정 기준 없이 \"희망자 모집\"으로만 기재",
		},
		Templates: []string{
			"1단계(1~2월): 대상자 모집 및 사전 측정 → 2단계(3~10월): 주 1회 프로그램 운영 → 3단계(11~12월): 사후 측정 및 평가",
		},
	},
	types.SectionSchedule: {
		Points: []string{
			"준비–실행–마무리 단계로 구분해 월별 활동 정리",
			"성과 측정(사전·중간·사후) 시점을 일정에 명시",
		},
		Mistakes: []string{
			"측정 시점 없이 프로그램 운영 일정만 나열",
		},
		Templates: []string{
			"| 월 | 주요 활동 |\n| 1월 | 참여자 모집·홍보, 오리엔테이션, 사전 측정 |\n| 2~10월 | 프로그램 운영, 6월 중간 모니터링 |\n| 11월 | 사후 측정, 만족도 조사 |\n| 12월 | 결과 분석, 평가회, 결과보고서 제출 |",
		},
	},
	types.SectionBudget: {
		Points: []string{
			"모든 항목에 산출근거(단가 × 수량 = 금액) 기재",
			"인건비 단가 기준(생활임금/호봉표) 명시",
			"합계가 신청금액과 일치하는지 확인",
		},
		Mistakes: []string{
			"산출근거 없이 총액만 기재",
			"예비비가 총액의 10%를 초과",
		},
		Templates: []string{
			"강사비: 150,000원 × 24회 = 3,600,000원 (서울시 생활임금 기준 전문강사 단가 적용)",
		},
	},
	types.SectionEvaluation: {
		Points: []string{
			"성과목표별 평가 지표와 측정 도구(척도명)를 연결",
			"정량 평가와 정성 평가를 병행",
			"데이터 수집·분석 담당자와 결과 활용 방안 포함",
		},
		Mistakes: []string{
			"\"설문지 실시\" 등 척도명 없는 막연한 서술",
		},
		Templates: []string{
			"자존감 변화는 RSES(Rosenberg Self-Esteem Scale)로 사전(1월)·사후(11월) 측정하며, 대응표본 t-검정으로 분석한다.",
		},
	},
	types.SectionEffects: {
		Points: []string{
			"참여자·지역사회·기관 세 차원으로 구분해 기술",
			"수치화 가능한 기대 효과 제시",
			"사업 종료 후 지속 가능성(자체 운영·연계) 포함",
		},
		Mistakes: []string{
			"\"삶의 질이 향상될 것입니다\" 같은 모호한 표현",
		},
		Templates: []string{
			"참여자 차원: 우울감 20% 감소, 사회적 관계망 1인당 평균 2명 확대 / 기관 차원: ○○ 분야 전문 프로그램 매뉴얼 확보",
		},
	},
}

// GuideFor returns the writing guide for a section. Unknown keys return an
// empty guide rather than an error; the guide is advisory data.
func GuideFor(k types.SectionKey) Guide {
	return guides[k]
}
