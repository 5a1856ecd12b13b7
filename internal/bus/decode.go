package bus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charliek/logdash/internal/domain"
)

// wireRecord uses pointers so absent fields can be told apart from empty ones
type wireRecord struct {
	Timestamp *string `json:"timestamp"`
	Level     *string `json:"level"`
	Service   *string `json:"service"`
	Message   *string `json:"message"`
}

type wireStats struct {
	WindowStart *string `json:"window_start"`
	WindowEnd   *string `json:"window_end"`
	TotalCount  *uint64 `json:"total_count"`
	ErrorCount  *uint64 `json:"error_count"`
	TopService  *string `json:"top_service"`
}

// DecodeLogRecord parses a logs channel payload. All four fields are required.
func DecodeLogRecord(payload []byte) (domain.LogRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(payload, &w); err != nil {
		return domain.LogRecord{}, fmt.Errorf("%w: log record: %v", domain.ErrParse, err)
	}

	switch {
	case w.Timestamp == nil:
		return domain.LogRecord{}, fmt.Errorf("%w: log record: missing timestamp", domain.ErrParse)
	case w.Level == nil:
		return domain.LogRecord{}, fmt.Errorf("%w: log record: missing level", domain.ErrParse)
	case w.Service == nil:
		return domain.LogRecord{}, fmt.Errorf("%w: log record: missing service", domain.ErrParse)
	case w.Message == nil:
		return domain.LogRecord{}, fmt.Errorf("%w: log record: missing message", domain.ErrParse)
	}

	return domain.LogRecord{
		Timestamp: *w.Timestamp,
		Level:     *w.Level,
		Service:   *w.Service,
		Message:   *w.Message,
	}, nil
}

// DecodeStats parses a stats channel payload and returns its first element.
// Every element must be well formed; later elements are otherwise ignored.
// ok is false when the array is empty.
func DecodeStats(payload []byte) (stats domain.StatsSnapshot, ok bool, err error) {
	var ws []wireStats
	if err := json.Unmarshal(payload, &ws); err != nil {
		return domain.StatsSnapshot{}, false, fmt.Errorf("%w: stats: %v", domain.ErrParse, err)
	}
	if len(ws) == 0 {
		return domain.StatsSnapshot{}, false, nil
	}

	for i, w := range ws {
		if err := w.validate(); err != nil {
			return domain.StatsSnapshot{}, false, fmt.Errorf("%w: stats[%d]: %v", domain.ErrParse, i, err)
		}
	}

	first := ws[0]
	return domain.StatsSnapshot{
		WindowStart: *first.WindowStart,
		WindowEnd:   *first.WindowEnd,
		TotalCount:  *first.TotalCount,
		ErrorCount:  *first.ErrorCount,
		TopService:  first.TopService,
	}, true, nil
}

func (w wireStats) validate() error {
	switch {
	case w.WindowStart == nil:
		return errors.New("missing window_start")
	case w.WindowEnd == nil:
		return errors.New("missing window_end")
	case w.TotalCount == nil:
		return errors.New("missing total_count")
	case w.ErrorCount == nil:
		return errors.New("missing error_count")
	}
	return nil
}

// EncodeLogRecord renders a record in the logs channel wire format
func EncodeLogRecord(r domain.LogRecord) ([]byte, error) {
	return json.Marshal(r)
}

// EncodeStats renders stats windows in the stats channel wire format
func EncodeStats(stats ...domain.StatsSnapshot) ([]byte, error) {
	if stats == nil {
		stats = []domain.StatsSnapshot{}
	}
	return json.Marshal(stats)
}
