package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/logdash/internal/api"
	"github.com/charliek/logdash/internal/domain"
)

// serviceColors cycles through distinct colours for service names
var serviceColors = []lipgloss.Color{"6", "5", "4", "2", "3", "14", "13", "12"}

var levelColors = map[string]lipgloss.Color{
	domain.LevelError: "9",
	domain.LevelWarn:  "11",
	domain.LevelDebug: "8",
}

// LogPrinter writes records with a stable colour per service
type LogPrinter struct {
	w          io.Writer
	colors     map[string]lipgloss.Style
	colorIndex int
}

// NewLogPrinter creates a new LogPrinter writing to w
func NewLogPrinter(w io.Writer) *LogPrinter {
	return &LogPrinter{
		w:      w,
		colors: make(map[string]lipgloss.Style),
	}
}

// Print writes one record as "15:04:05 service | LEVEL message"
func (lp *LogPrinter) Print(rec api.LogRecordResponse) {
	ts := rec.Timestamp
	if t, err := time.Parse(time.RFC3339Nano, rec.Timestamp); err == nil {
		ts = t.Format("15:04:05")
	}

	level := lipgloss.NewStyle().Foreground(levelColors[rec.Level]).Render(fmt.Sprintf("%-5s", rec.Level))
	service := lp.style(rec.Service).Render(fmt.Sprintf("%-16s", rec.Service))
	fmt.Fprintf(lp.w, "%s %s | %s %s\n", ts, service, level, rec.Message)
}

func (lp *LogPrinter) style(service string) lipgloss.Style {
	style, ok := lp.colors[service]
	if !ok {
		style = lipgloss.NewStyle().Foreground(serviceColors[lp.colorIndex%len(serviceColors)])
		lp.colors[service] = style
		lp.colorIndex++
	}
	return style
}
