package dashboard

import "unicode/utf8"

// Mode is the interaction mode of the dashboard
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
)

// String returns the display name of the mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// EditEvent is an input that may change the interaction mode
type EditEvent int

const (
	EventStartEditing EditEvent = iota
	EventInsertChar
	EventDeleteChar
	EventSubmit
	EventCancel
)

// transitions lists every accepted (mode, event) pair and the resulting mode.
// Pairs missing from the table are rejected without side effects.
var transitions = map[Mode]map[EditEvent]Mode{
	ModeNormal: {
		EventStartEditing: ModeEditing,
	},
	ModeEditing: {
		EventInsertChar: ModeEditing,
		EventDeleteChar: ModeEditing,
		EventSubmit:     ModeNormal,
		EventCancel:     ModeNormal,
	},
}

// Next returns the mode reached from m on ev, and whether ev is accepted in m
func Next(m Mode, ev EditEvent) (Mode, bool) {
	next, ok := transitions[m][ev]
	return next, ok
}

// Controller tracks the interaction mode and the filter text being edited.
// The zero value is in ModeNormal with an empty edit buffer.
type Controller struct {
	mode Mode
	text string
}

// Mode returns the current mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Text returns the edit buffer
func (c *Controller) Text() string {
	return c.text
}

// Navigable reports whether navigation, selection, copy and quit commands
// are accepted in the current mode
func (c *Controller) Navigable() bool {
	return c.mode == ModeNormal
}

// Accepts reports whether ev is valid in the current mode
func (c *Controller) Accepts(ev EditEvent) bool {
	_, ok := Next(c.mode, ev)
	return ok
}

// fire moves to the mode reached on ev. It reports false, and changes nothing,
// when ev is not accepted in the current mode.
func (c *Controller) fire(ev EditEvent) bool {
	next, ok := Next(c.mode, ev)
	if !ok {
		return false
	}
	c.mode = next
	return true
}

// StartEditing enters ModeEditing with committed copied into the edit buffer
func (c *Controller) StartEditing(committed string) bool {
	if !c.fire(EventStartEditing) {
		return false
	}
	c.text = committed
	return true
}

// InsertChar appends r to the edit buffer
func (c *Controller) InsertChar(r rune) bool {
	if !c.fire(EventInsertChar) {
		return false
	}
	c.text += string(r)
	return true
}

// DeleteChar removes the last character of the edit buffer
func (c *Controller) DeleteChar() bool {
	if !c.fire(EventDeleteChar) {
		return false
	}
	if c.text != "" {
		_, size := utf8.DecodeLastRuneInString(c.text)
		c.text = c.text[:len(c.text)-size]
	}
	return true
}

// Submit leaves ModeEditing and returns the edited text for compilation.
// The edit buffer is cleared.
func (c *Controller) Submit() (string, bool) {
	if !c.fire(EventSubmit) {
		return "", false
	}
	text := c.text
	c.text = ""
	return text, true
}

// Cancel leaves ModeEditing and discards the edit buffer
func (c *Controller) Cancel() bool {
	if !c.fire(EventCancel) {
		return false
	}
	c.text = ""
	return true
}
