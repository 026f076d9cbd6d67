// Package checklist tracks which rubric criteria the current draft satisfies,
// and derives improvement hints from the gaps the evaluator has identified.
package checklist

import (
	"sync"

	"github.com/jonathan/proposal-assistant/internal/rubric"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// Readiness tiers for the aggregate score, matching the review UI thresholds.
const (
	TierReady  = "ready"   // >= 80%
	TierAlmost = "almost"  // >= 60%
	TierDraft  = "writing" // below 60%
)

// State holds the per-criterion standing for one editing session.
// Keys are created lazily: an absent key means the criterion has never been
// evaluated or touched, and counts as unmet in the score.
//
// State is safe for concurrent use: an improvement run merges verdicts while
// session snapshots keep reading the standing.
type State struct {
	mu       sync.Mutex
	statuses map[types.CriterionKey]types.CriterionStatus
}

// NewState returns an empty checklist state.
func NewState() *State {
	return &State{statuses: make(map[types.CriterionKey]types.CriterionStatus)}
}

// Get returns the status for a criterion and whether it has ever been set.
func (s *State) Get(key types.CriterionKey) (types.CriterionStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[key]
	return st, ok
}

// ApplyVerdicts merges evaluator verdicts into the state. Criteria absent
// from the verdict map retain their prior status. Evaluator verdicts always
// win, including over manual toggles.
func (s *State) ApplyVerdicts(verdicts map[types.CriterionKey]types.Verdict) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range verdicts {
		s.statuses[key] = types.CriterionStatus{
			Checked: v.Checked,
			Auto:    true,
			Reason:  v.Reason,
		}
	}
}

// Toggle flips a criterion by hand. A manual toggle is authoritative user
// input: it drops the auto flag and clears the evaluator's reason, which
// also removes the criterion from hint extraction.
func (s *State) Toggle(key types.CriterionKey) types.CriterionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.statuses[key]
	next := types.CriterionStatus{Checked: !prev.Checked, Auto: false}
	s.statuses[key] = next
	return next
}

// Hints returns the literal text of every criterion in category ci that the
// evaluator marked unmet. Manually unchecked criteria and criteria that were
// never evaluated are excluded: only AI-identified gaps drive regeneration.
func (s *State) Hints(ci int) []string {
	if ci < 0 || ci >= rubric.CategoryCount() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := rubric.Categories()[ci].Items
	var hints []string
	for ii, item := range items {
		st, ok := s.statuses[types.CriterionKey{Category: ci, Item: ii}]
		if ok && !st.Checked && st.Auto {
			hints = append(hints, item)
		}
	}
	return hints
}

// CheckedCount returns how many criteria are currently marked satisfied.
func (s *State) CheckedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkedCountLocked()
}

func (s *State) checkedCountLocked() int {
	n := 0
	for _, st := range s.statuses {
		if st.Checked {
			n++
		}
	}
	return n
}

// CategoryChecked returns how many criteria in category ci are satisfied.
func (s *State) CategoryChecked(ci int) int {
	if ci < 0 || ci >= rubric.CategoryCount() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for ii := range rubric.Categories()[ci].Items {
		if st, ok := s.statuses[types.CriterionKey{Category: ci, Item: ii}]; ok && st.Checked {
			n++
		}
	}
	return n
}

// Score returns the satisfaction percentage over the whole rubric.
// The denominator is the full criterion count, so untouched criteria pull
// the score down rather than being skipped.
func (s *State) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked()
}

func (s *State) scoreLocked() int {
	total := rubric.TotalItems()
	if total == 0 {
		return 0
	}
	return s.checkedCountLocked() * 100 / total
}

// Tier classifies the current score into a readiness tier.
func (s *State) Tier() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch score := s.scoreLocked(); {
	case score >= 80:
		return TierReady
	case score >= 60:
		return TierAlmost
	default:
		return TierDraft
	}
}

// Snapshot returns a copy of all statuses keyed by wire-format key, for
// JSON responses.
func (s *State) Snapshot() map[string]types.CriterionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]types.CriterionStatus, len(s.statuses))
	for key, st := range s.statuses {
		out[key.String()] = st
	}
	return out
}
