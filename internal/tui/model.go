// Package tui is the terminal front end of the dashboard. It decodes key
// presses into engine commands and displays the frames the engine renders;
// it never touches the dashboard state itself.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/engine"
)

// FrameMsg carries a snapshot rendered by the engine
type FrameMsg dashboard.Snapshot

// Model is the bubbletea model for the dashboard
type Model struct {
	// commands is the engine's input channel
	commands chan<- engine.Command
	// done is closed once the engine stops reading commands
	done <-chan struct{}

	// mode follows the dashboard FSM for key decoding, ahead of frames
	mode dashboard.Mode

	frame    dashboard.Snapshot
	hasFrame bool

	input textinput.Model
	help  help.Model

	width  int
	height int
}

// NewModel creates a model that sends commands to the engine
func NewModel(commands chan<- engine.Command, done <-chan struct{}) Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = filterPlaceholder

	return Model{
		commands: commands,
		done:     done,
		mode:     dashboard.ModeNormal,
		input:    ti,
		help:     help.New(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// send delivers cmd to the engine, giving up once the engine has stopped
func (m Model) send(cmd engine.Command) {
	select {
	case m.commands <- cmd:
	case <-m.done:
	}
}
