package types

import "strings"

// ProjectTypes are the funding-program categories offered by the grant body.
var ProjectTypes = []string{"성과중심형", "문제해결형", "기획사업형"}

// ProposalMetadata holds the structured project information entered on the
// basic-info form. Most fields are optional at the type level; prompt builders
// substitute "미입력" for blanks the way the form preview does.
type ProposalMetadata struct {
	AgencyName  string `json:"agency_name" validate:"required"`
	ManagerName string `json:"manager_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	ProjectName string `json:"project_name" validate:"required"`
	ProjectType string `json:"project_type,omitempty"`
	Region      string `json:"region,omitempty"`
	StartDate   string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BudgetTotal string `json:"budget_total,omitempty"`
	Target      string `json:"target,omitempty"`
	TargetCount string `json:"target_count,omitempty"`
	KeyOutcome  string `json:"key_outcome,omitempty"`
}

// Period renders the project period as "start ~ end", or "미정" when either
// date is missing.
func (m *ProposalMetadata) Period() string {
	if m.StartDate != "" && m.EndDate != "" {
		return m.StartDate + " ~ " + m.EndDate
	}
	return "미정"
}

// TargetLine joins target and head count for display ("50세 이상 중장년 20명").
func (m *ProposalMetadata) TargetLine() string {
	return strings.TrimSpace(m.Target + " " + m.TargetCount)
}

// OrDefault returns v, or "미입력" when v is blank.
func OrDefault(v string) string {
	if strings.TrimSpace(v) == "" {
		return "미입력"
	}
	return v
}
