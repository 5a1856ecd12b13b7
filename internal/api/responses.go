package api

import (
	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/domain"
)

// StatusResponse represents the response for GET /status
type StatusResponse struct {
	Mode        string `json:"mode"`
	Filter      string `json:"filter"`
	FilterValid bool   `json:"filter_valid"`
	Buffered    int    `json:"buffered"`
	Capacity    int    `json:"capacity"`
	Admitted    uint64 `json:"admitted"`
	FilteredOut uint64 `json:"filtered_out"`
	HasStats    bool   `json:"has_stats"`
	Subscribers int    `json:"subscribers"`
	APIVersion  string `json:"api_version"`
}

// LogsResponse represents the response for GET /logs
type LogsResponse struct {
	Logs          []LogRecordResponse `json:"logs"`
	FilteredCount int                 `json:"filtered_count"`
	TotalCount    int                 `json:"total_count"`
}

// LogRecordResponse represents a single log record
type LogRecordResponse struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service"`
	Message   string `json:"message"`
}

// StatsResponse represents the response for GET /stats
type StatsResponse struct {
	WindowStart string  `json:"window_start"`
	WindowEnd   string  `json:"window_end"`
	TotalCount  uint64  `json:"total_count"`
	ErrorCount  uint64  `json:"error_count"`
	TopService  *string `json:"top_service"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToLogRecordResponse converts domain.LogRecord to LogRecordResponse
func ToLogRecordResponse(r domain.LogRecord) LogRecordResponse {
	return LogRecordResponse{
		Timestamp: r.Timestamp,
		Level:     r.Level,
		Service:   r.Service,
		Message:   r.Message,
	}
}

// ToStatsResponse converts domain.StatsSnapshot to StatsResponse
func ToStatsResponse(s domain.StatsSnapshot) StatsResponse {
	s = s.Clone()
	return StatsResponse{
		WindowStart: s.WindowStart,
		WindowEnd:   s.WindowEnd,
		TotalCount:  s.TotalCount,
		ErrorCount:  s.ErrorCount,
		TopService:  s.TopService,
	}
}

// ToStatusResponse summarizes a dashboard snapshot
func ToStatusResponse(snap dashboard.Snapshot, subscribers int) StatusResponse {
	return StatusResponse{
		Mode:        snap.Mode.String(),
		Filter:      snap.FilterText,
		FilterValid: snap.FilterErr == nil,
		Buffered:    len(snap.Records),
		Capacity:    snap.Capacity,
		Admitted:    snap.Admitted,
		FilteredOut: snap.FilteredOut,
		HasStats:    snap.Stats != nil,
		Subscribers: subscribers,
		APIVersion:  "v1",
	}
}
