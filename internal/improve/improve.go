// Package improve implements the checklist-driven improvement loop: unmet
// checklist criteria become improvement hints, the affected sections are
// regenerated with those hints, and the evaluator re-judges the result.
//
// One run proceeds strictly sequentially. Categories are processed in rubric
// order and sections in the category map's declared order, because a section
// regenerated for an earlier category must feed its new text into any later
// regeneration in the same run. The run owns a working snapshot of the
// section texts for exactly this reason; callers see the final snapshot in
// the report and commit it themselves.
package improve

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/generate"
	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/rubric"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// Evaluator re-judges the full rubric after regeneration.
type Evaluator interface {
	Evaluate(ctx context.Context, narrative types.Sections, meta *types.ProposalMetadata) (map[types.CriterionKey]types.Verdict, error)
}

// Generator streams a section draft.
type Generator interface {
	Stream(ctx context.Context, req generate.Request) (<-chan llm.Chunk, error)
}

// Event types emitted during a run.
const (
	EventCategoryStart = "category_start"
	EventCategorySkip  = "category_skip"
	EventSectionStart  = "section_start"
	EventSectionDelta  = "section_delta"
	EventSectionDone   = "section_done"
	EventSectionError  = "section_error"
	EventEvaluating    = "evaluating"
	EventComplete      = "complete"
)

// Event is one progress update during an improvement run.
type Event struct {
	Type         string           `json:"type"`
	Category     int              `json:"category,omitempty"`
	CategoryName string           `json:"category_name,omitempty"`
	Section      types.SectionKey `json:"section,omitempty"`
	Text         string           `json:"text,omitempty"`
	Message      string           `json:"message,omitempty"`
}

// RunOptions configures one improvement run.
type RunOptions struct {
	// Categories selects rubric categories by index. Nil or empty means all
	// categories; either way, categories without qualifying hints are skipped.
	Categories []int

	// OnProgress, when set, receives events as the run advances.
	OnProgress func(Event)
}

// Input is the session state one run operates on. Sections is cloned at
// entry; State is mutated in place when the final evaluation merges.
type Input struct {
	Metadata  *types.ProposalMetadata
	Reference string
	Sections  types.Sections
	State     *checklist.State
}

// Report summarizes what one run did.
type Report struct {
	// Sections is the final working snapshot. The caller commits it back to
	// the externally visible state.
	Sections types.Sections `json:"sections"`

	// Regenerated lists sections whose text was replaced, in completion order.
	Regenerated []types.SectionKey `json:"regenerated"`

	// SectionErrors holds the failure message for sections whose stream
	// aborted. Partial text, if any, is still present in Sections.
	SectionErrors map[types.SectionKey]string `json:"section_errors,omitempty"`

	// Evaluated reports whether the final evaluation pass ran.
	Evaluated bool `json:"evaluated"`

	// EvalError holds the evaluation failure message, if the pass ran and
	// produced no verdicts.
	EvalError string `json:"eval_error,omitempty"`

	// VerdictCount is the number of verdicts merged into the checklist.
	VerdictCount int `json:"verdict_count"`
}

// Runner coordinates improvement runs.
type Runner struct {
	Gen  Generator
	Eval Evaluator
}

// NewRunner creates a runner over the given generator and evaluator.
func NewRunner(gen Generator, eval Evaluator) *Runner {
	return &Runner{Gen: gen, Eval: eval}
}

// Run executes one improvement run to completion.
//
// Failures inside one section are contained: the partial text is kept, the
// error is recorded, and the run continues with the next unit of work. Only
// context cancellation and invalid input abort the run.
func (r *Runner) Run(ctx context.Context, in Input, opts RunOptions) (*Report, error) {
	if in.Metadata == nil {
		return nil, fmt.Errorf("metadata is required")
	}
	if in.State == nil {
		return nil, fmt.Errorf("checklist state is required")
	}

	selected, err := selectCategories(opts.Categories)
	if err != nil {
		return nil, err
	}

	emit := func(e Event) {
		if opts.OnProgress != nil {
			opts.OnProgress(e)
		}
	}

	report := &Report{
		Sections:      in.Sections.Clone(),
		SectionErrors: make(map[types.SectionKey]string),
	}
	working := report.Sections

	attempted := false
	for _, ci := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		catName := rubric.Categories()[ci].Name
		hints := in.State.Hints(ci)
		if len(hints) == 0 {
			emit(Event{Type: EventCategorySkip, Category: ci, CategoryName: catName})
			continue
		}
		attempted = true
		emit(Event{Type: EventCategoryStart, Category: ci, CategoryName: catName,
			Message: fmt.Sprintf("%d개 보완 사항", len(hints))})

		for _, section := range rubric.SectionsFor(ci) {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			r.regenerateSection(ctx, in, working, report, ci, section, hints, emit)
		}
	}

	// Nothing qualified anywhere: the run is a no-op and needs no
	// re-evaluation.
	if !attempted {
		emit(Event{Type: EventComplete, Message: "보완할 항목이 없습니다"})
		return report, nil
	}

	emit(Event{Type: EventEvaluating})
	report.Evaluated = true
	verdicts, err := r.Eval.Evaluate(ctx, working, in.Metadata)
	if err != nil {
		// Contained: the regenerated text stands, the checklist just was
		// not refreshed.
		log.Printf("improve: final evaluation failed: %v", err)
		report.EvalError = err.Error()
	}
	if len(verdicts) > 0 {
		in.State.ApplyVerdicts(verdicts)
		report.VerdictCount = len(verdicts)
	}

	emit(Event{Type: EventComplete,
		Message: fmt.Sprintf("%d개 섹션 재작성, %d개 항목 재평가", len(report.Regenerated), report.VerdictCount)})
	return report, nil
}

// regenerateSection streams one section draft into the working snapshot.
// The snapshot is updated as soon as the stream ends so that later
// regenerations in the same run start from this output.
func (r *Runner) regenerateSection(ctx context.Context, in Input, working types.Sections, report *Report, ci int, section types.SectionKey, hints []string, emit func(Event)) {
	emit(Event{Type: EventSectionStart, Category: ci, Section: section})

	stream, err := r.Gen.Stream(ctx, generate.Request{
		Section:   section,
		Metadata:  in.Metadata,
		Reference: in.Reference,
		Current:   working[section],
		Hints:     hints,
	})
	if err != nil {
		log.Printf("improve: starting regeneration of %s failed: %v", section, err)
		report.SectionErrors[section] = err.Error()
		emit(Event{Type: EventSectionError, Category: ci, Section: section, Message: err.Error()})
		return
	}

	text, err := generate.Collect(stream, func(accumulated string) {
		emit(Event{Type: EventSectionDelta, Category: ci, Section: section, Text: accumulated})
	})
	if err != nil {
		log.Printf("improve: regeneration of %s aborted: %v", section, err)
		report.SectionErrors[section] = err.Error()
		// Keep the partial text as the best-effort result, but never
		// replace existing content with nothing.
		if text != "" {
			working[section] = text
			report.Regenerated = append(report.Regenerated, section)
		}
		emit(Event{Type: EventSectionError, Category: ci, Section: section, Message: err.Error()})
		return
	}

	working[section] = text
	report.Regenerated = append(report.Regenerated, section)
	emit(Event{Type: EventSectionDone, Category: ci, Section: section, Text: text})
}

// selectCategories resolves the category selection to a sorted, validated,
// de-duplicated list of rubric indices. Rubric order is the processing order.
func selectCategories(requested []int) ([]int, error) {
	if len(requested) == 0 {
		all := make([]int, rubric.CategoryCount())
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool, len(requested))
	var out []int
	for _, ci := range requested {
		if ci < 0 || ci >= rubric.CategoryCount() {
			return nil, fmt.Errorf("category index %d out of range", ci)
		}
		if !seen[ci] {
			seen[ci] = true
			out = append(out, ci)
		}
	}
	sort.Ints(out)
	return out, nil
}
