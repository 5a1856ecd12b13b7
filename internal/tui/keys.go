package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/engine"
)

// normalKeyMap holds the bindings active in ModeNormal
type normalKeyMap struct {
	Quit      key.Binding
	Interrupt key.Binding
	Up        key.Binding
	Down      key.Binding
	Unselect  key.Binding
	Edit      key.Binding
	Copy      key.Binding
}

func (k normalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Up, k.Down, k.Unselect, k.Edit, k.Copy}
}

func (k normalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Interrupt}}
}

// editingKeyMap holds the bindings active in ModeEditing. Any other
// printable key is inserted into the pattern.
type editingKeyMap struct {
	Submit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	Interrupt key.Binding
}

func (k editingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.Backspace}
}

func (k editingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Interrupt}}
}

var normalKeys = normalKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "newer"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "older"),
	),
	Unselect: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "follow"),
	),
	Edit: key.NewBinding(
		key.WithKeys("i", "/"),
		key.WithHelp("i", "filter"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
}

var editingKeys = editingKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("⌫", "delete"),
	),
	Interrupt: normalKeys.Interrupt,
}

// decodeKey maps a key press to engine commands for the given mode. A
// pasted run of characters yields one command per rune.
func decodeKey(msg tea.KeyMsg, mode dashboard.Mode) []engine.Command {
	if mode == dashboard.ModeEditing {
		return decodeEditingKey(msg)
	}

	switch {
	case key.Matches(msg, normalKeys.Interrupt):
		return []engine.Command{engine.Cmd(engine.CommandInterrupt)}
	case key.Matches(msg, normalKeys.Quit):
		return []engine.Command{engine.Cmd(engine.CommandQuit)}
	case key.Matches(msg, normalKeys.Up):
		return []engine.Command{engine.Cmd(engine.CommandSelectPrevious)}
	case key.Matches(msg, normalKeys.Down):
		return []engine.Command{engine.Cmd(engine.CommandSelectNext)}
	case key.Matches(msg, normalKeys.Unselect):
		return []engine.Command{engine.Cmd(engine.CommandUnselect)}
	case key.Matches(msg, normalKeys.Edit):
		return []engine.Command{engine.Cmd(engine.CommandStartEditing)}
	case key.Matches(msg, normalKeys.Copy):
		return []engine.Command{engine.Cmd(engine.CommandCopy)}
	}
	return nil
}

func decodeEditingKey(msg tea.KeyMsg) []engine.Command {
	switch {
	case key.Matches(msg, editingKeys.Interrupt):
		return []engine.Command{engine.Cmd(engine.CommandInterrupt)}
	case key.Matches(msg, editingKeys.Submit):
		return []engine.Command{engine.Cmd(engine.CommandSubmit)}
	case key.Matches(msg, editingKeys.Cancel):
		return []engine.Command{engine.Cmd(engine.CommandCancel)}
	case key.Matches(msg, editingKeys.Backspace):
		return []engine.Command{engine.Cmd(engine.CommandDeleteChar)}
	}

	switch msg.Type {
	case tea.KeySpace:
		return []engine.Command{engine.InsertChar(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		cmds := make([]engine.Command, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			cmds = append(cmds, engine.InsertChar(r))
		}
		return cmds
	}
	return nil
}

// modeAfter tracks the mode change a command causes. The edit events are
// always accepted in the mode that decoded them, so following the
// transition table keeps the model in step with the dashboard state.
func modeAfter(mode dashboard.Mode, cmd engine.Command) dashboard.Mode {
	var ev dashboard.EditEvent
	switch cmd.Kind {
	case engine.CommandStartEditing:
		ev = dashboard.EventStartEditing
	case engine.CommandSubmit:
		ev = dashboard.EventSubmit
	case engine.CommandCancel:
		ev = dashboard.EventCancel
	default:
		return mode
	}
	if next, ok := dashboard.Next(mode, ev); ok {
		return next
	}
	return mode
}
