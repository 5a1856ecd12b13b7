package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/engine"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		for _, cmd := range decodeKey(msg, m.mode) {
			m.mode = modeAfter(m.mode, cmd)
			m.send(cmd)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.send(engine.Resize(msg.Width, msg.Height))
		return m, nil

	case FrameMsg:
		return m.applyFrame(dashboard.Snapshot(msg))
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyFrame stores the snapshot and mirrors the edit buffer into the
// text input so the cursor is drawn at its end
func (m Model) applyFrame(snap dashboard.Snapshot) (tea.Model, tea.Cmd) {
	m.frame = snap
	m.hasFrame = true

	var cmd tea.Cmd
	if snap.Mode == dashboard.ModeEditing {
		if !m.input.Focused() {
			cmd = m.input.Focus()
		}
		if m.input.Value() != snap.EditingText {
			m.input.SetValue(snap.EditingText)
			m.input.CursorEnd()
		}
	} else if m.input.Focused() {
		m.input.Blur()
		m.input.SetValue("")
	}
	return m, cmd
}
