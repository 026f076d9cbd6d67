package types

import (
	"fmt"
	"strconv"
	"strings"
)

// CriterionKey identifies one checklist criterion by its position in the
// rubric: category index and item index within the category. The rubric is
// fixed at startup, so keys are stable across evaluation runs.
type CriterionKey struct {
	Category int `json:"category"`
	Item     int `json:"item"`
}

// String renders the key in the "{ci}_{ii}" wire format used in evaluator
// prompts and responses.
func (k CriterionKey) String() string {
	return fmt.Sprintf("%d_%d", k.Category, k.Item)
}

// ParseCriterionKey parses the "{ci}_{ii}" wire format.
func ParseCriterionKey(raw string) (CriterionKey, error) {
	ci, ii, ok := strings.Cut(raw, "_")
	if !ok {
		return CriterionKey{}, fmt.Errorf("criterion key %q: missing separator", raw)
	}
	cat, err := strconv.Atoi(ci)
	if err != nil {
		return CriterionKey{}, fmt.Errorf("criterion key %q: bad category index", raw)
	}
	item, err := strconv.Atoi(ii)
	if err != nil {
		return CriterionKey{}, fmt.Errorf("criterion key %q: bad item index", raw)
	}
	if cat < 0 || item < 0 {
		return CriterionKey{}, fmt.Errorf("criterion key %q: negative index", raw)
	}
	return CriterionKey{Category: cat, Item: item}, nil
}

// CriterionStatus is the current standing of one criterion.
//
// Invariant: Reason is only meaningful while Auto is true. A manual toggle
// always sets Auto=false and clears Reason; only the evaluator sets Auto=true.
type CriterionStatus struct {
	Checked bool   `json:"checked"`
	Auto    bool   `json:"auto"`
	Reason  string `json:"reason,omitempty"`
}

// Verdict is the evaluator's judgment for one criterion: whether the
// proposal satisfies it, plus a short justification.
type Verdict struct {
	Checked bool   `json:"checked"`
	Reason  string `json:"reason"`
}
