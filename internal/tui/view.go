package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/domain"
)

const (
	filterPaneHeight = 3
	statsPaneHeight  = 8
	helpHeight       = 1
	minLogsHeight    = 3

	// Used before the first WindowSizeMsg arrives
	defaultWidth  = 80
	defaultHeight = 24

	filterPlaceholder = "Type regex filter here... (Press 'i' to enter editing mode)"
	invalidMarker     = "(invalid, showing all)"
	statsWaiting      = "Waiting for statistics data..."
	noTopService      = "N/A"
)

// renderDashboard lays out the three panes and the key help for snap.
// inputView is the rendered filter input used while editing.
func renderDashboard(snap dashboard.Snapshot, width, height int, inputView string, h help.Model) string {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	logsHeight := height - filterPaneHeight - statsPaneHeight - helpHeight
	if logsHeight < minLogsHeight {
		logsHeight = minLogsHeight
	}

	var keys help.KeyMap = normalKeys
	if snap.Mode == dashboard.ModeEditing {
		keys = editingKeys
	}
	h.Width = width

	return lipgloss.JoinVertical(lipgloss.Left,
		renderFilterPane(snap, width, inputView),
		renderLogsPane(snap, width, logsHeight),
		renderStatsPane(snap, width),
		h.View(keys),
	)
}

func renderFilterPane(snap dashboard.Snapshot, width int, inputView string) string {
	color := filterNormalColor
	var body string

	switch {
	case snap.Mode == dashboard.ModeEditing:
		color = filterEditingColor
		body = inputView
	case snap.FilterText == "":
		body = dimStyle.Render(filterPlaceholder)
	case snap.FilterErr != nil:
		body = snap.FilterText + " " + invalidStyle.Render(invalidMarker)
	default:
		body = snap.FilterText
	}

	title := "Filter Input"
	if snap.Status != "" {
		title += " · " + snap.Status
	}
	return pane(title, []string{body}, width, filterPaneHeight, color)
}

func renderLogsPane(snap dashboard.Snapshot, width, height int) string {
	rows := height - 2
	title := fmt.Sprintf("Real-time Logs (%d items)", len(snap.Records))

	// Keep the selected row on screen; without a selection show the newest
	offset := 0
	if snap.HasSelection && snap.Selected >= rows {
		offset = snap.Selected - rows + 1
	}

	lines := make([]string, 0, rows)
	for i := offset; i < len(snap.Records) && len(lines) < rows; i++ {
		lines = append(lines, renderLogLine(snap, i, width-2))
	}
	return pane(title, lines, width, height, logsColor)
}

func renderLogLine(snap dashboard.Snapshot, i, width int) string {
	r := flatten(snap.Records[i])
	selected := snap.HasSelection && snap.Selected == i

	prefix := ""
	if snap.HasSelection {
		prefix = "   "
		if selected {
			prefix = ">> "
		}
	}

	if selected {
		line := fmt.Sprintf("%s%3d: [%s] [%s] %s: %s", prefix, i, r.Timestamp, r.Level, r.Service, r.Message)
		return selectedStyle.Render(truncate(line, width))
	}

	line := prefix +
		dimStyle.Render(fmt.Sprintf("%3d: ", i)) +
		"[" + r.Timestamp + "] [" +
		levelStyle(r.Level).Render(r.Level) +
		"] " + r.Service + ": " + r.Message
	return truncate(line, width)
}

func renderStatsPane(snap dashboard.Snapshot, width int) string {
	title := "Statistics (1s Window)"
	if snap.Stats == nil {
		return pane(title, []string{statsWaiting}, width, statsPaneHeight, statsColor)
	}

	s := snap.Stats
	lines := []string{
		"Window Start: " + s.WindowStart,
		"Window End:   " + s.WindowEnd,
		"",
		fmt.Sprintf("Total Logs:   %5d", s.TotalCount),
		fmt.Sprintf("Error Count:  %5d", s.ErrorCount),
		"Top Service:  " + s.TopServiceOr(noTopService),
	}
	return pane(title, lines, width, statsPaneHeight, statsColor)
}

// pane draws a bordered box of exactly width x height with title set into
// the top border. Lines beyond the box are dropped and long lines truncated.
func pane(title string, lines []string, width, height int, color lipgloss.Color) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	rows := height - 2
	if rows < 1 {
		rows = 1
	}

	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(color)

	title = truncate(" "+title+" ", inner)
	fill := inner - lipgloss.Width(title)
	if fill < 0 {
		fill = 0
	}

	var b strings.Builder
	b.WriteString(edge.Render(border.TopLeft + title + strings.Repeat(border.Top, fill) + border.TopRight))
	b.WriteString("\n")

	for i := 0; i < rows; i++ {
		line := ""
		if i < len(lines) {
			line = truncate(lines[i], inner)
		}
		pad := inner - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(edge.Render(border.Left))
		b.WriteString(line + strings.Repeat(" ", pad))
		b.WriteString(edge.Render(border.Right))
		b.WriteString("\n")
	}

	b.WriteString(edge.Render(border.BottomLeft + strings.Repeat(border.Bottom, inner) + border.BottomRight))
	return b.String()
}

// truncate cuts s to width terminal cells, keeping styling intact
var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// flatten keeps a record on a single pane row
func flatten(r domain.LogRecord) domain.LogRecord {
	r.Timestamp = lineBreaks.Replace(r.Timestamp)
	r.Level = lineBreaks.Replace(r.Level)
	r.Service = lineBreaks.Replace(r.Service)
	r.Message = lineBreaks.Replace(r.Message)
	return r
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// View renders the last frame
func (m Model) View() string {
	if !m.hasFrame {
		return "Initializing..."
	}
	return renderDashboard(m.frame, m.width, m.height, m.input.View(), m.help)
}
