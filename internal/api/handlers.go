package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/logs"
)

// SnapshotSource provides read-only copies of the dashboard state
type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
}

// Handlers contains all HTTP handlers
type Handlers struct {
	source        SnapshotSource
	subscriptions *logs.SubscriptionManager
	log           logr.Logger
}

// NewHandlers creates new HTTP handlers
func NewHandlers(source SnapshotSource, subs *logs.SubscriptionManager, log logr.Logger) *Handlers {
	return &Handlers{
		source:        source,
		subscriptions: subs,
		log:           log.WithName("api"),
	}
}

// GetStatus handles GET /api/v1/status
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	subscribers := 0
	if h.subscriptions != nil {
		subscribers = h.subscriptions.Count()
	}
	h.writeJSON(w, http.StatusOK, ToStatusResponse(h.source.Snapshot(), subscribers))
}

// GetLogs handles GET /api/v1/logs
func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	filter, limit, err := parseLogParams(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	snap := h.source.Snapshot()
	resp := LogsResponse{
		Logs:       make([]LogRecordResponse, 0, min(limit, len(snap.Records))),
		TotalCount: len(snap.Records),
	}
	for _, rec := range snap.Records {
		if !filter.Matches(rec) {
			continue
		}
		resp.FilteredCount++
		if len(resp.Logs) < limit {
			resp.Logs = append(resp.Logs, ToLogRecordResponse(rec))
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetStats handles GET /api/v1/stats
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.source.Snapshot()
	if snap.Stats == nil {
		h.writeError(w, domain.ErrNoStats)
		return
	}
	h.writeJSON(w, http.StatusOK, ToStatsResponse(*snap.Stats))
}

// parseLogParams extracts the pattern filter and line limit from a request.
// Unlike the dashboard filter, a bad pattern is rejected rather than ignored.
func parseLogParams(r *http.Request) (*logs.Filter, int, error) {
	filter, err := logs.CompileFilter(r.URL.Query().Get("pattern"))
	if err != nil {
		return nil, 0, err
	}

	limit := constants.DefaultLogLimit
	if linesStr := r.URL.Query().Get("lines"); linesStr != "" {
		if l, err := strconv.Atoi(linesStr); err == nil && l > 0 {
			limit = min(l, constants.MaxLogs)
		}
	}

	return filter, limit, nil
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.V(1).Info("encoding JSON response failed", "error", err.Error())
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "an internal error occurred"

	switch {
	case errors.Is(err, domain.ErrInvalidPattern):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrNoStats):
		status = http.StatusNotFound
		message = err.Error()
	default:
		h.log.Error(err, "internal error")
	}

	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  domain.ErrorCode(err),
	})
}
