package domain

// Known severity levels. The set is open: records carrying any other level
// are admitted and rendered with the default style.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogRecord represents one structured log line received from the bus.
// Records are never mutated once admitted to the buffer.
type LogRecord struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	Message   string `json:"message"`
}

// StatsSnapshot is one pre-aggregated statistics window.
type StatsSnapshot struct {
	WindowStart string  `json:"window_start"`
	WindowEnd   string  `json:"window_end"`
	TotalCount  uint64  `json:"total_count"`
	ErrorCount  uint64  `json:"error_count"`
	TopService  *string `json:"top_service"` // nil when the window held no records
}

// TopServiceOr returns the top service, or fallback when the window was empty
func (s StatsSnapshot) TopServiceOr(fallback string) string {
	if s.TopService == nil {
		return fallback
	}
	return *s.TopService
}

// Clone returns a copy that shares no pointers with s
func (s StatsSnapshot) Clone() StatsSnapshot {
	if s.TopService != nil {
		top := *s.TopService
		s.TopService = &top
	}
	return s
}
