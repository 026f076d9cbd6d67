// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/improve"
	"github.com/jonathan/proposal-assistant/internal/rubric"
	"github.com/jonathan/proposal-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChecklist outputs the checklist standing, category by category.
func (p *Printer) PrintChecklist(state *checklist.State) {
	if state == nil {
		return
	}

	var sb strings.Builder
	for ci, cat := range rubric.Categories() {
		sb.WriteString(fmt.Sprintf("%s (%d/%d)\n", cat.Name, state.CategoryChecked(ci), len(cat.Items)))
		for ii, item := range cat.Items {
			key := types.CriterionKey{Category: ci, Item: ii}
			mark := "✗"
			if status, ok := state.Get(key); ok && status.Checked {
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf("  %s %s\n", mark, item))
			if status, ok := state.Get(key); ok && status.Reason != "" {
				sb.WriteString(fmt.Sprintf("      → %s\n", status.Reason))
			}
		}
	}
	sb.WriteString(fmt.Sprintf("\n점수: %d점 (%s)", state.Score(), state.Tier()))

	p.printBox("체크리스트 점검 결과", sb.String())
}

// PrintReport outputs a summary of one improvement run.
func (p *Printer) PrintReport(report *improve.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if len(report.Regenerated) == 0 {
		sb.WriteString("다시 작성한 항목 없음\n")
	} else {
		sb.WriteString("다시 작성한 항목:\n")
		for _, key := range report.Regenerated {
			sb.WriteString(fmt.Sprintf("  • %s\n", key.Label()))
		}
	}

	for key, msg := range report.SectionErrors {
		sb.WriteString(fmt.Sprintf("  ! %s: %s\n", key.Label(), msg))
	}

	if report.Evaluated {
		sb.WriteString(fmt.Sprintf("\n재점검 완료: 판정 %d건 반영", report.VerdictCount))
		if report.EvalError != "" {
			sb.WriteString(fmt.Sprintf(" (오류: %s)", report.EvalError))
		}
	} else {
		sb.WriteString("\n재점검 생략")
	}

	p.printBox("개선 실행 결과", sb.String())
}

// PrintSections outputs each non-empty section with its Korean heading.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSections(sections types.Sections) {
	for _, key := range types.SectionKeys() {
		text := sections[key]
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(p.out, "\n== %s ==\n%s\n", key.Label(), text)
	}
}
