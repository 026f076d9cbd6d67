// Package export renders the finished proposal as a self-contained,
// print-ready HTML document: a cover page with the project summary table
// followed by the numbered narrative sections.
//
// Section bodies are written in light markdown (headings, lists, bold,
// tables) by the generation backend; goldmark renders them to HTML.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jonathan/proposal-assistant/internal/types"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// infoRow is one labeled row of the cover table.
type infoRow struct {
	Label string
	Value string
}

// sectionBlock is one rendered narrative section.
type sectionBlock struct {
	Label string
	Body  template.HTML
}

type documentData struct {
	Title      string
	Subtitle   string
	InfoRows   []infoRow
	Date       string
	AgencyName string
	Sections   []sectionBlock
}

// Render produces the downloadable HTML document. Sections with empty text
// are omitted, as are optional cover rows with no value.
func Render(meta *types.ProposalMetadata, sections types.Sections) ([]byte, error) {
	if meta == nil {
		return nil, fmt.Errorf("metadata is required")
	}

	data := documentData{
		Title:      "사 업 계 획 서",
		Subtitle:   "사회복지공동모금회 배분사업 신청",
		Date:       koreanDate(time.Now()),
		AgencyName: meta.AgencyName,
		InfoRows: []infoRow{
			{"사  업  명", orMissing(meta.ProjectName)},
			{"수 행 기 관", orMissing(meta.AgencyName)},
			{"사 업 유 형", orMissing(meta.ProjectType)},
			{"사 업 기 간", meta.Period()},
			{"신 청 금 액", budgetValue(meta.BudgetTotal)},
			{"사 업 대 상", orMissing(meta.TargetLine())},
		},
	}
	if meta.KeyOutcome != "" {
		data.InfoRows = append(data.InfoRows, infoRow{"핵심 성과목표", meta.KeyOutcome})
	}
	if meta.Region != "" {
		data.InfoRows = append(data.InfoRows, infoRow{"사 업 지 역", meta.Region})
	}
	if meta.ManagerName != "" {
		data.InfoRows = append(data.InfoRows, infoRow{"담  당  자", meta.ManagerName})
	}

	for _, key := range types.SectionKeys() {
		text := sections[key]
		if text == "" {
			continue
		}
		var body bytes.Buffer
		if err := markdown.Convert([]byte(text), &body); err != nil {
			return nil, fmt.Errorf("rendering section %s: %w", key, err)
		}
		data.Sections = append(data.Sections, sectionBlock{
			Label: key.Label(),
			//nolint:gosec // goldmark output over author-owned text
			Body: template.HTML(body.String()),
		})
	}

	var out bytes.Buffer
	if err := documentTemplate.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}
	return out.Bytes(), nil
}

// Filename returns the download filename, e.g. "행복복지재단_사업계획서.html".
func Filename(meta *types.ProposalMetadata) string {
	agency := meta.AgencyName
	if agency == "" {
		agency = "기관"
	}
	return agency + "_사업계획서.html"
}

func orMissing(v string) string {
	if v == "" {
		return "(미입력)"
	}
	return v
}

func budgetValue(v string) string {
	if v == "" {
		return "(미입력)"
	}
	return v + "원"
}

// koreanDate formats t as "2026년 1월 2일".
func koreanDate(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}
