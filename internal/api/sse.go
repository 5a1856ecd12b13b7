package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charliek/logdash/internal/domain"
)

// StreamLogs handles GET /api/v1/logs/stream (SSE)
func (h *Handlers) StreamLogs(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "streaming not supported",
			Code:  domain.ErrCodeStreamingNotSupported,
		})
		return
	}

	subID, ch, err := h.subscriptions.Subscribe(r.URL.Query().Get("pattern"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer h.subscriptions.Unsubscribe(subID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	// Slow clients lose records at the subscription buffer; the loop never waits.
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}

			data, err := json.Marshal(ToLogRecordResponse(rec))
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				h.log.V(1).Info("SSE write failed, client likely disconnected", "subscription", subID, "error", err.Error())
				return
			}
			flusher.Flush()
		}
	}
}
