// Package types provides type definitions for structured data used throughout the proposal-assistant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// SectionKey identifies one narrative section of the proposal document.
type SectionKey string

// The seven narrative sections, in document order.
const (
	SectionNecessity  SectionKey = "necessity"
	SectionObjectives SectionKey = "objectives"
	SectionContent    SectionKey = "content"
	SectionSchedule   SectionKey = "schedule"
	SectionBudget     SectionKey = "budget"
	SectionEvaluation SectionKey = "evaluation"
	SectionEffects    SectionKey = "effects"
)

// sectionOrder fixes the document order of sections. Export, prompts, and
// the UI all iterate in this order.
var sectionOrder = []SectionKey{
	SectionNecessity,
	SectionObjectives,
	SectionContent,
	SectionSchedule,
	SectionBudget,
	SectionEvaluation,
	SectionEffects,
}

// sectionLabels are the numbered Korean headings used in the exported document.
var sectionLabels = map[SectionKey]string{
	SectionNecessity:  "1. 사업 필요성",
	SectionObjectives: "2. 목적 및 목표",
	SectionContent:    "3. 사업 내용",
	SectionSchedule:   "4. 추진 일정",
	SectionBudget:     "5. 예산 계획",
	SectionEvaluation: "6. 평가 계획",
	SectionEffects:    "7. 기대 효과",
}

// SectionKeys returns all section keys in document order.
// The returned slice must not be modified.
func SectionKeys() []SectionKey {
	return sectionOrder
}

// Label returns the numbered Korean heading for the section.
func (k SectionKey) Label() string {
	if label, ok := sectionLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid reports whether k is one of the seven known section keys.
func (k SectionKey) Valid() bool {
	_, ok := sectionLabels[k]
	return ok
}

// ParseSectionKey validates a raw section identifier (e.g. from a URL path).
func ParseSectionKey(raw string) (SectionKey, error) {
	k := SectionKey(raw)
	if !k.Valid() {
		return "", fmt.Errorf("unknown section key %q", raw)
	}
	return k, nil
}

// Sections maps section keys to their current narrative text.
// A nil map is treated as all-empty.
type Sections map[SectionKey]string

// NewSections returns a Sections map with every known key present and empty.
func NewSections() Sections {
	s := make(Sections, len(sectionOrder))
	for _, k := range sectionOrder {
		s[k] = ""
	}
	return s
}

// Clone returns an independent copy. The improvement loop works on a clone
// so that in-flight regeneration never observes external edits.
func (s Sections) Clone() Sections {
	out := make(Sections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether every section is empty or whitespace-only.
func (s Sections) IsEmpty() bool {
	for _, v := range s {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
