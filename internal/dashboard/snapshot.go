package dashboard

import "github.com/charliek/logdash/internal/domain"

// Snapshot is an immutable copy of State for rendering and the API.
type Snapshot struct {
	Records      []domain.LogRecord // newest first
	Capacity     int
	Selected     int
	HasSelection bool

	Stats *domain.StatsSnapshot // nil until the first stats update

	FilterText   string
	FilterActive bool
	FilterErr    error // set when FilterText failed to compile and filtering is disabled

	Mode        Mode
	EditingText string
	Status      string

	Admitted    uint64
	FilteredOut uint64
}

// SelectedRecord returns the selected record, if any
func (s Snapshot) SelectedRecord() (domain.LogRecord, bool) {
	if !s.HasSelection || s.Selected < 0 || s.Selected >= len(s.Records) {
		return domain.LogRecord{}, false
	}
	return s.Records[s.Selected], true
}
