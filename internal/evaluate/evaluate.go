// Package evaluate runs the expert checklist against the drafted proposal.
//
// The evaluator builds a single prompt holding the proposal text and the
// flattened rubric, asks the model for a JSON array of per-criterion
// verdicts, and parses it defensively: anything that is not a valid verdict
// for an existing criterion is dropped, and a response with no parseable
// array degrades to "no verdicts produced" rather than an error the
// improvement loop would have to abort on.
package evaluate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/prompts"
	"github.com/jonathan/proposal-assistant/internal/rubric"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// DefaultTimeout caps one evaluation call.
const DefaultTimeout = 30 * time.Second

// Service evaluates proposal drafts against the rubric.
type Service struct {
	Client  llm.Client
	Timeout time.Duration // zero means DefaultTimeout
}

// NewService creates an evaluator backed by the given LLM client.
func NewService(client llm.Client) *Service {
	return &Service{Client: client, Timeout: DefaultTimeout}
}

// Evaluate judges every rubric criterion against the current narrative.
//
// An all-empty narrative short-circuits to an empty map with no backend
// call. Backend failures return a *BackendError and malformed responses
// return ErrMalformedResponse; in both cases the verdict map is empty and
// the caller must not assume any criterion changed. Criteria absent from
// the returned map keep their prior status.
func (s *Service) Evaluate(ctx context.Context, narrative types.Sections, meta *types.ProposalMetadata) (map[types.CriterionKey]types.Verdict, error) {
	if narrative.IsEmpty() {
		return map[types.CriterionKey]types.Verdict{}, nil
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := BuildPrompt(narrative, meta)

	raw, err := s.Client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return map[types.CriterionKey]types.Verdict{}, &BackendError{Cause: err}
	}

	verdicts, err := ParseVerdicts(raw)
	if err != nil {
		return map[types.CriterionKey]types.Verdict{}, err
	}
	return verdicts, nil
}

// BuildPrompt assembles the single evaluation prompt: labeled non-empty
// section texts followed by the rubric flattened into "{ci}_{ii} [{category}]
// {criterion}" lines, then the fixed response-format instructions.
func BuildPrompt(narrative types.Sections, meta *types.ProposalMetadata) string {
	var b strings.Builder

	header := prompts.MustGet("evaluation.json", "header")
	b.WriteString(prompts.Format(header, map[string]string{
		"ProjectName": types.OrDefault(meta.ProjectName),
		"AgencyName":  types.OrDefault(meta.AgencyName),
	}))
	b.WriteString("\n\n")

	b.WriteString(prompts.MustGet("evaluation.json", "proposal_header"))
	b.WriteString("\n")
	for _, key := range types.SectionKeys() {
		text := strings.TrimSpace(narrative[key])
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n%s\n\n", key, text)
	}

	b.WriteString(prompts.MustGet("evaluation.json", "checklist_header"))
	b.WriteString("\n")
	for ci, cat := range rubric.Categories() {
		for ii, item := range cat.Items {
			fmt.Fprintf(&b, "%d_%d [%s] %s\n", ci, ii, cat.Name, item)
		}
	}
	b.WriteString("\n")

	b.WriteString(prompts.MustGet("evaluation.json", "instructions"))
	return b.String()
}
