package tui

import (
	"os"
	"sync"
)

// Output is the terminal the program draws on. Every write is serialized, so
// sequences written from outside the program, such as OSC 52 clipboard
// payloads, land between frames and never inside one.
type Output struct {
	*os.File
	mu sync.Mutex
}

// NewOutput wraps f. Pass the result both to tea.WithOutput and to any
// writer that shares the terminal with the program.
func NewOutput(f *os.File) *Output {
	return &Output{File: f}
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.File.Write(p)
}

func (o *Output) WriteString(s string) (int, error) {
	return o.Write([]byte(s))
}
