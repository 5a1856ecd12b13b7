// Package clipboard copies text to the user's clipboard, either through an
// OSC 52 terminal escape sequence or through the system clipboard.
package clipboard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"

	"github.com/charliek/logdash/internal/domain"
)

// Sink kinds accepted by New
const (
	KindOSC52  = "osc52"
	KindSystem = "system"
)

// maxOSC52Bytes caps the payload most terminals accept in one sequence
const maxOSC52Bytes = 100 * 1024

// Sink receives copied text
type Sink interface {
	Copy(text string) error
}

// OSC52 writes the OSC 52 escape sequence to a terminal
type OSC52 struct {
	w    io.Writer
	term string
	tmux bool
}

// NewOSC52 creates an OSC 52 sink writing to w. The environment decides
// whether the sequence is wrapped for tmux or screen.
func NewOSC52(w io.Writer) *OSC52 {
	return &OSC52{
		w:    w,
		term: os.Getenv("TERM"),
		tmux: os.Getenv("TMUX") != "",
	}
}

// Copy writes the escape sequence carrying text
func (o *OSC52) Copy(text string) error {
	seq := osc52.New(text).Limit(maxOSC52Bytes)
	switch {
	case o.tmux || strings.HasPrefix(o.term, "tmux"):
		seq = seq.Tmux()
	case strings.HasPrefix(o.term, "screen"):
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(o.w); err != nil {
		return fmt.Errorf("%w: osc52: %v", domain.ErrClipboard, err)
	}
	return nil
}

// System writes to the operating system clipboard
type System struct{}

// Copy places text on the system clipboard
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no system clipboard available", domain.ErrClipboard)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClipboard, err)
	}
	return nil
}

// New returns the sink for kind. An empty kind selects OSC 52 written to
// term, which must be the writer the terminal UI draws through.
func New(kind string, term io.Writer) (Sink, error) {
	switch kind {
	case "", KindOSC52:
		return NewOSC52(term), nil
	case KindSystem:
		return System{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown clipboard kind %q", domain.ErrInvalidConfig, kind)
	}
}
