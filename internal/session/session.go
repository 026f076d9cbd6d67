// Package session holds the per-editing-session state: project metadata,
// narrative section texts, uploaded reference text, and checklist standing.
//
// Nothing is persisted; a session lives in memory for the duration of an
// editing session and is discarded afterwards. The session serializes all
// access and enforces the sole-writer rule: while an improvement run or a
// section stream is in flight, conflicting writes are rejected instead of
// racing with streamed output.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/proposal-assistant/internal/checklist"
	"github.com/jonathan/proposal-assistant/internal/types"
)

// ErrBusy indicates an improvement run is already in flight for the session.
var ErrBusy = errors.New("an improvement run is already in progress for this session")

// SectionBusyError indicates the section is being regenerated and cannot be
// edited until the stream finishes.
type SectionBusyError struct {
	Section types.SectionKey
}

func (e *SectionBusyError) Error() string {
	return fmt.Sprintf("section %s is being regenerated; edits are disabled until the stream finishes", e.Section)
}

// Session is one user's editing session.
type Session struct {
	ID string

	mu         sync.Mutex
	metadata   types.ProposalMetadata
	sections   types.Sections
	reference  string
	state      *checklist.State
	busy       bool
	streaming  map[types.SectionKey]bool
	lastAccess time.Time
}

// newSession creates an empty session.
func newSession(id string) *Session {
	return &Session{
		ID:         id,
		sections:   types.NewSections(),
		state:      checklist.NewState(),
		streaming:  make(map[types.SectionKey]bool),
		lastAccess: time.Now(),
	}
}

func (s *Session) touch() {
	s.lastAccess = time.Now()
}

// Snapshot is the externally visible view of a session.
type Snapshot struct {
	ID        string                           `json:"session_id"`
	Metadata  types.ProposalMetadata           `json:"metadata"`
	Sections  types.Sections                   `json:"sections"`
	Reference string                           `json:"reference,omitempty"`
	Checklist map[string]types.CriterionStatus `json:"checklist"`
	Score     int                              `json:"score"`
	Tier      string                           `json:"tier"`
	Improving bool                             `json:"improving"`
	Streaming []types.SectionKey               `json:"streaming,omitempty"`
}

// Snapshot returns a consistent copy of the whole session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var streaming []types.SectionKey
	for _, key := range types.SectionKeys() {
		if s.streaming[key] {
			streaming = append(streaming, key)
		}
	}

	return Snapshot{
		ID:        s.ID,
		Metadata:  s.metadata,
		Sections:  s.sections.Clone(),
		Reference: s.reference,
		Checklist: s.state.Snapshot(),
		Score:     s.state.Score(),
		Tier:      s.state.Tier(),
		Improving: s.busy,
		Streaming: streaming,
	}
}

// Metadata returns a copy of the current project metadata.
func (s *Session) Metadata() types.ProposalMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// SetMetadata replaces the project metadata.
func (s *Session) SetMetadata(meta types.ProposalMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.metadata = meta
}

// Reference returns the uploaded reference text.
func (s *Session) Reference() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reference
}

// SetReference stores extracted or pasted reference text.
func (s *Session) SetReference(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.reference = text
}

// Sections returns a copy of the current narrative texts.
func (s *Session) Sections() types.Sections {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections.Clone()
}

// SetSection replaces one section's text with a user edit. The edit is
// rejected while that section has a stream in flight or an improvement run
// owns the narrative.
func (s *Session) SetSection(key types.SectionKey, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.busy {
		return ErrBusy
	}
	if s.streaming[key] {
		return &SectionBusyError{Section: key}
	}
	s.sections[key] = text
	return nil
}

// CommitSections writes an improvement run's final snapshot back. Only the
// run holder calls this, so it bypasses the busy check.
func (s *Session) CommitSections(sections types.Sections) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for key, text := range sections {
		s.sections[key] = text
	}
}

// SetSectionStreamed applies the final text of a single-section generation
// stream (the non-improvement path) and clears its streaming mark.
func (s *Session) SetSectionStreamed(key types.SectionKey, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.sections[key] = text
	delete(s.streaming, key)
}

// BeginSectionStream marks a section as receiving streamed output; user
// edits to it are rejected until the stream ends.
func (s *Session) BeginSectionStream(key types.SectionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.busy {
		return ErrBusy
	}
	if s.streaming[key] {
		return &SectionBusyError{Section: key}
	}
	s.streaming[key] = true
	return nil
}

// EndSectionStream clears a section's streaming mark without writing text
// (stream failed before producing anything).
func (s *Session) EndSectionStream(key types.SectionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.streaming, key)
}

// BeginRun claims the session for one improvement run. Overlapping runs are
// rejected, not queued.
func (s *Session) BeginRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.busy {
		return ErrBusy
	}
	if len(s.streaming) > 0 {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// EndRun releases the session after an improvement run.
func (s *Session) EndRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// WithState runs fn against the checklist state under the session lock.
// Checklist writes follow the sole-writer rule: while an improvement run
// owns the session the call is rejected with ErrBusy, the same way section
// edits are.
func (s *Session) WithState(fn func(state *checklist.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.busy {
		return ErrBusy
	}
	fn(s.state)
	return nil
}

// Improving reports whether an improvement run currently owns the session.
func (s *Session) Improving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// ChecklistState returns the underlying state for an improvement run. Only
// the run holder (BeginRun) uses it; the state carries its own lock, so
// concurrent snapshot reads stay safe while the run merges verdicts.
func (s *Session) ChecklistState() *checklist.State {
	return s.state
}
