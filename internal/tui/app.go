package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/logdash/internal/bus"
	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/engine"
)

// programRenderer hands frames to a running bubbletea program. Frames pass
// through a one-slot mailbox so the event loop never waits on the program;
// a frame not yet displayed is replaced by the newer one.
type programRenderer struct {
	program *tea.Program
	frames  chan dashboard.Snapshot

	mu  sync.Mutex
	err error
}

func newProgramRenderer(p *tea.Program) *programRenderer {
	return &programRenderer{
		program: p,
		frames:  make(chan dashboard.Snapshot, 1),
	}
}

// Render queues snap for display. It fails once the program has stopped
// with an error.
func (r *programRenderer) Render(snap dashboard.Snapshot) error {
	r.mu.Lock()
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	select {
	case r.frames <- snap:
	default:
		select {
		case <-r.frames:
		default:
		}
		r.frames <- snap
	}
	return nil
}

func (r *programRenderer) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// forward sends queued frames to the program.
// It exits when the context is cancelled.
func (r *programRenderer) forward(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-r.frames:
			r.program.Send(FrameMsg(snap))
		}
	}
}

// Run starts the terminal UI and the event loop and blocks until the loop
// stops or the program exits. deps.Renderer is replaced by the program.
// The terminal is restored before Run returns.
func Run(ctx context.Context, cfg engine.LoopConfig, deps engine.Deps, messages <-chan bus.Message, opts ...tea.ProgramOption) error {
	commands := make(chan engine.Command, constants.InputBuffer)
	loopDone := make(chan struct{})

	model := NewModel(commands, loopDone)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	renderer := newProgramRenderer(p)
	deps.Renderer = renderer
	loop := engine.New(cfg, deps)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go renderer.forward(ctx)

	loopErr := make(chan error, 1)
	go func() {
		err := loop.Run(ctx, commands, messages)
		close(loopDone)
		loopErr <- err
		p.Quit()
	}()

	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrInterrupted) {
		runErr = nil
	}
	if runErr != nil {
		renderer.fail(runErr)
	}
	cancel()

	err := <-loopErr
	if runErr != nil {
		deps.Log.Error(runErr, "terminal program failed")
		return fmt.Errorf("%w: %v", domain.ErrRender, runErr)
	}
	return err
}
