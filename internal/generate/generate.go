// Package generate drafts and improves individual narrative sections of the
// proposal by streaming text from the generation backend.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/proposal-assistant/internal/llm"
	"github.com/jonathan/proposal-assistant/internal/prompts"
	"github.com/jonathan/proposal-assistant/internal/types"
)

const (
	// DefaultTimeout caps one generation stream end to end, matching the
	// original service's 60-second ceiling for long-form drafting.
	DefaultTimeout = 60 * time.Second

	// ReferenceLimit bounds how much uploaded reference text is included in
	// a prompt. Longer uploads are truncated to this rune prefix.
	ReferenceLimit = 3000
)

// Request describes one section draft or improvement.
type Request struct {
	Section   types.SectionKey
	Metadata  *types.ProposalMetadata
	Reference string   // extracted reference text, may be empty
	Current   string   // current section content; non-empty means "improve"
	Hints     []string // unmet checklist items to address, may be empty
}

// Service streams section drafts from the generation backend.
type Service struct {
	Client  llm.Client
	Timeout time.Duration // zero means DefaultTimeout

	// Sem, when set, caps concurrent backend calls across all sessions.
	Sem *semaphore.Weighted
}

// NewService creates a regenerator backed by the given LLM client.
func NewService(client llm.Client) *Service {
	return &Service{Client: client, Timeout: DefaultTimeout}
}

// Stream starts generating the section and returns an ordered, finite
// channel of text fragments. The channel closes when generation completes or
// fails; failures and cancellation end the stream with one Chunk carrying
// Err. Cancelling ctx releases the backend stream.
func (s *Service) Stream(ctx context.Context, req Request) (<-chan llm.Chunk, error) {
	if !req.Section.Valid() {
		return nil, fmt.Errorf("unknown section key %q", req.Section)
	}
	if req.Metadata == nil {
		return nil, fmt.Errorf("metadata is required")
	}

	if s.Sem != nil {
		if err := s.Sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("waiting for generation slot: %w", err)
		}
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	streamCtx, cancel := context.WithTimeout(ctx, timeout)

	system := prompts.MustGet("generation.json", "system")
	inner, err := s.Client.GenerateStream(streamCtx, system, BuildPrompt(req), llm.TierAdvanced)
	if err != nil {
		cancel()
		if s.Sem != nil {
			s.Sem.Release(1)
		}
		return nil, err
	}

	// One slot of slack so the abort chunk below can land even when the
	// reader is between receives.
	out := make(chan llm.Chunk, 1)
	go func() {
		defer close(out)
		defer cancel()
		if s.Sem != nil {
			defer s.Sem.Release(1)
		}
		abort := func(err error) {
			// Surface the cancellation so consumers see an aborted stream,
			// not a short successful one. Best-effort: the reader may
			// already be gone.
			select {
			case out <- llm.Chunk{Err: err}:
			default:
			}
		}
		for chunk := range inner {
			if err := ctx.Err(); err != nil {
				abort(err)
				return
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				abort(ctx.Err())
				return
			}
			if chunk.Err != nil {
				return
			}
		}
	}()
	return out, nil
}

// Collect accumulates a stream into the final section text. onDelta, if not
// nil, is called with the accumulated text after every fragment, in arrival
// order. On a mid-stream failure the text accumulated so far is returned as
// the best-effort partial result alongside the error.
func Collect(stream <-chan llm.Chunk, onDelta func(accumulated string)) (string, error) {
	var b strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			return b.String(), chunk.Err
		}
		b.WriteString(chunk.Text)
		if onDelta != nil {
			onDelta(b.String())
		}
	}
	return b.String(), nil
}

// BuildPrompt assembles the user prompt: project metadata, the fixed
// section instruction, truncated reference text, the current content with an
// improve instruction when present, and the list of gaps to address.
func BuildPrompt(req Request) string {
	meta := req.Metadata
	var b strings.Builder

	b.WriteString("## 사업 기본 정보\n")
	fmt.Fprintf(&b, "- 수행기관: %s\n", types.OrDefault(meta.AgencyName))
	fmt.Fprintf(&b, "- 사업명: %s\n", types.OrDefault(meta.ProjectName))
	fmt.Fprintf(&b, "- 사업 유형: %s\n", types.OrDefault(meta.ProjectType))
	fmt.Fprintf(&b, "- 사업 기간: %s\n", meta.Period())
	if meta.BudgetTotal != "" {
		fmt.Fprintf(&b, "- 신청 금액: %s원\n", meta.BudgetTotal)
	} else {
		b.WriteString("- 신청 금액: 미입력\n")
	}
	target := types.OrDefault(meta.Target)
	if meta.TargetCount != "" {
		target += " (" + meta.TargetCount + ")"
	}
	fmt.Fprintf(&b, "- 사업 대상: %s\n", target)
	fmt.Fprintf(&b, "- 핵심 성과 지표: %s\n", types.OrDefault(meta.KeyOutcome))
	fmt.Fprintf(&b, "- 사업 지역: %s\n", types.OrDefault(meta.Region))

	b.WriteString("\n## 작성 지침\n")
	b.WriteString(prompts.MustGet("generation.json", string(req.Section)))
	b.WriteString("\n")

	if ref := strings.TrimSpace(req.Reference); ref != "" {
		b.WriteString("\n")
		b.WriteString(prompts.MustGet("generation.json", "reference_header"))
		b.WriteString("\n")
		b.WriteString(truncateRunes(ref, ReferenceLimit))
		b.WriteString("\n")
	}

	if hints := req.Hints; len(hints) > 0 {
		b.WriteString("\n")
		b.WriteString(prompts.MustGet("generation.json", "hints_header"))
		b.WriteString("\n")
		for _, hint := range hints {
			fmt.Fprintf(&b, "- %s\n", hint)
		}
	}

	if current := strings.TrimSpace(req.Current); current != "" {
		b.WriteString("\n")
		b.WriteString(prompts.MustGet("generation.json", "current_header"))
		b.WriteString("\n")
		b.WriteString(current)
		b.WriteString("\n\n")
		b.WriteString(prompts.MustGet("generation.json", "improve_suffix"))
	} else {
		b.WriteString("\n")
		b.WriteString(prompts.MustGet("generation.json", "fresh_suffix"))
	}

	return b.String()
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
