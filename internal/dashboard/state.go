package dashboard

import (
	"sync"

	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/logs"
)

// State is the single shared mutable object of the dashboard: the log window,
// the latest statistics, the committed filter and the input mode.
//
// Every method takes the state lock for its whole duration, so each call is
// one atomic mutation or one consistent read.
type State struct {
	mu sync.Mutex

	buffer *logs.Buffer
	stats  *domain.StatsSnapshot
	filter *logs.Filter
	input  Controller

	status      string
	admitted    uint64
	filteredOut uint64
}

// New creates an empty state: no records, no stats, no filter, ModeNormal
func New(capacity int) *State {
	return &State{
		buffer: logs.NewBuffer(capacity),
		filter: logs.NewFilter(""),
	}
}

// Ingest admits record if it passes the committed filter.
// It reports whether the record was added.
func (s *State) Ingest(record domain.LogRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filter.Matches(record) {
		s.filteredOut++
		return false
	}
	s.buffer.Add(record)
	s.admitted++
	return true
}

// SetStats replaces the current statistics snapshot
func (s *State) SetStats(stats domain.StatsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := stats.Clone()
	s.stats = &st
}

// SelectNext moves the selection toward older records.
// Returns false when navigation is not accepted in the current mode.
func (s *State) SelectNext() bool {
	return s.navigate((*logs.Buffer).SelectNext)
}

// SelectPrevious moves the selection toward newer records
func (s *State) SelectPrevious() bool {
	return s.navigate((*logs.Buffer).SelectPrevious)
}

// Unselect returns the view to tracking the newest record
func (s *State) Unselect() bool {
	return s.navigate((*logs.Buffer).Unselect)
}

func (s *State) navigate(op func(*logs.Buffer)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.input.Navigable() {
		return false
	}
	op(s.buffer)
	return true
}

// SelectedMessage returns the message of the selected record.
// Nothing is returned outside ModeNormal.
func (s *State) SelectedMessage() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.input.Navigable() {
		return "", false
	}
	r, ok := s.buffer.SelectedRecord()
	if !ok {
		return "", false
	}
	return r.Message, true
}

// StartEditing enters ModeEditing, seeding the edit buffer with the committed filter
func (s *State) StartEditing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.StartEditing(s.filter.Text())
}

// InsertChar appends r to the edit buffer
func (s *State) InsertChar(r rune) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.InsertChar(r)
}

// DeleteChar removes the last character of the edit buffer
func (s *State) DeleteChar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.DeleteChar()
}

// SubmitEditing compiles the edit buffer into the committed filter and
// returns to ModeNormal. An invalid pattern disables filtering; the compile
// error is returned for diagnostics only. Records already in the window are
// not re-filtered.
func (s *State) SubmitEditing() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.input.Submit()
	if !ok {
		return false, nil
	}
	s.filter = logs.NewFilter(text)
	return true, s.filter.Err()
}

// CancelEditing discards the edit buffer, keeping the committed filter
func (s *State) CancelEditing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Cancel()
}

// Mode returns the current interaction mode
func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Mode()
}

// SetStatus sets the transient status line shown in the filter pane
func (s *State) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

// Snapshot returns a deep copy of the state taken at a single instant
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Records:      s.buffer.Records(),
		Capacity:     s.buffer.Capacity(),
		FilterText:   s.filter.Text(),
		FilterActive: s.filter.Active(),
		FilterErr:    s.filter.Err(),
		Mode:         s.input.Mode(),
		EditingText:  s.input.Text(),
		Status:       s.status,
		Admitted:     s.admitted,
		FilteredOut:  s.filteredOut,
	}
	snap.Selected, snap.HasSelection = s.buffer.Selected()
	if s.stats != nil {
		st := s.stats.Clone()
		snap.Stats = &st
	}
	return snap
}
