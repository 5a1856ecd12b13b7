package engine

// CommandKind identifies a user command
type CommandKind int

const (
	// Normal mode
	CommandQuit CommandKind = iota
	CommandSelectNext
	CommandSelectPrevious
	CommandUnselect
	CommandStartEditing
	CommandCopy

	// Editing mode
	CommandInsertChar
	CommandDeleteChar
	CommandSubmit
	CommandCancel

	// Either mode
	CommandInterrupt
	CommandResize
)

var commandNames = map[CommandKind]string{
	CommandQuit:           "quit",
	CommandSelectNext:     "select_next",
	CommandSelectPrevious: "select_previous",
	CommandUnselect:       "unselect",
	CommandStartEditing:   "start_editing",
	CommandCopy:           "copy",
	CommandInsertChar:     "insert_char",
	CommandDeleteChar:     "delete_char",
	CommandSubmit:         "submit",
	CommandCancel:         "cancel",
	CommandInterrupt:      "interrupt",
	CommandResize:         "resize",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one decoded input event. Char is set for CommandInsertChar,
// Width and Height for CommandResize.
type Command struct {
	Kind   CommandKind
	Char   rune
	Width  int
	Height int
}

// Cmd returns a command that carries no payload
func Cmd(kind CommandKind) Command {
	return Command{Kind: kind}
}

// InsertChar returns a command appending r to the filter being edited
func InsertChar(r rune) Command {
	return Command{Kind: CommandInsertChar, Char: r}
}

// Resize returns a command reporting a new terminal size
func Resize(width, height int) Command {
	return Command{Kind: CommandResize, Width: width, Height: height}
}
