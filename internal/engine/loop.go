// Package engine runs the dashboard event loop: the one place where the
// dashboard state is mutated.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/charliek/logdash/internal/bus"
	"github.com/charliek/logdash/internal/clipboard"
	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/logs"
	"github.com/charliek/logdash/internal/metrics"
)

// Status lines shown after a copy
const (
	StatusCopied        = "copied to clipboard"
	statusClipboardFail = "clipboard: "
)

// Renderer paints a snapshot of the dashboard
type Renderer interface {
	Render(snap dashboard.Snapshot) error
}

// LoopConfig holds configuration for the event loop
type LoopConfig struct {
	Tick         time.Duration
	LogsChannel  string
	StatsChannel string
}

// DefaultLoopConfig returns default configuration
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		Tick:         constants.TickRate,
		LogsChannel:  constants.LogsChannel,
		StatsChannel: constants.StatsChannel,
	}
}

// Deps are the collaborators of the loop. Subscriptions and Metrics are optional.
type Deps struct {
	State         *dashboard.State
	Renderer      Renderer
	Clipboard     clipboard.Sink
	Subscriptions *logs.SubscriptionManager
	Metrics       *metrics.Metrics
	Log           logr.Logger
}

// Loop merges the tick, input and bus sources into serialized state mutations
type Loop struct {
	cfg LoopConfig

	state     *dashboard.State
	renderer  Renderer
	clipboard clipboard.Sink
	subs      *logs.SubscriptionManager
	metrics   *metrics.Metrics
	log       logr.Logger
}

// New creates an event loop
func New(cfg LoopConfig, deps Deps) *Loop {
	defaults := DefaultLoopConfig()
	if cfg.Tick <= 0 {
		cfg.Tick = defaults.Tick
	}
	if cfg.LogsChannel == "" {
		cfg.LogsChannel = defaults.LogsChannel
	}
	if cfg.StatsChannel == "" {
		cfg.StatsChannel = defaults.StatsChannel
	}

	m := deps.Metrics
	if m == nil {
		m = metrics.Register(prometheus.NewRegistry())
	}

	return &Loop{
		cfg:       cfg,
		state:     deps.State,
		renderer:  deps.Renderer,
		clipboard: deps.Clipboard,
		subs:      deps.Subscriptions,
		metrics:   m,
		log:       deps.Log,
	}
}

// Run renders once, then handles one event at a time until a quit command,
// the end of input, or cancellation of ctx. Only render failures are
// returned; malformed bus payloads and clipboard failures are absorbed.
//
// A closed messages channel is not fatal: the dashboard keeps running on
// ticks and input with the data it already has.
func (l *Loop) Run(ctx context.Context, input <-chan Command, messages <-chan bus.Message) error {
	if err := l.render(); err != nil {
		return err
	}

	ticker := time.NewTicker(l.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if err := l.render(); err != nil {
				return err
			}

		case cmd, ok := <-input:
			if !ok {
				l.log.Info("input closed, stopping")
				return nil
			}
			if cmd.Kind == CommandResize {
				if err := l.render(); err != nil {
					return err
				}
				continue
			}
			if l.handleCommand(cmd) {
				return nil
			}

		case msg, ok := <-messages:
			if !ok {
				l.log.Info("bus subscription closed, no further updates")
				messages = nil
				continue
			}
			l.handleMessage(msg)
		}
	}
}

// handleCommand applies one key command. It reports whether the loop should stop.
func (l *Loop) handleCommand(cmd Command) bool {
	l.state.SetStatus("")

	var accepted bool
	switch cmd.Kind {
	case CommandInterrupt:
		return true
	case CommandQuit:
		if l.state.Mode() == dashboard.ModeNormal {
			return true
		}
	case CommandSelectNext:
		accepted = l.state.SelectNext()
	case CommandSelectPrevious:
		accepted = l.state.SelectPrevious()
	case CommandUnselect:
		accepted = l.state.Unselect()
	case CommandStartEditing:
		accepted = l.state.StartEditing()
	case CommandCopy:
		accepted = l.copySelected()
	case CommandInsertChar:
		accepted = l.state.InsertChar(cmd.Char)
	case CommandDeleteChar:
		accepted = l.state.DeleteChar()
	case CommandSubmit:
		var err error
		accepted, err = l.state.SubmitEditing()
		if err != nil {
			l.log.Info("filter pattern invalid, filtering disabled", "error", err.Error())
		}
	case CommandCancel:
		accepted = l.state.CancelEditing()
	}

	if !accepted {
		l.log.V(1).Info("command ignored", "command", cmd.Kind.String(), "mode", l.state.Mode().String())
	}
	return false
}

// copySelected sends the selected message to the clipboard. The sink is
// called without holding the state lock.
func (l *Loop) copySelected() bool {
	msg, ok := l.state.SelectedMessage()
	if !ok {
		return false
	}

	if err := l.clipboard.Copy(msg); err != nil {
		l.log.Error(err, "copy to clipboard failed")
		l.state.SetStatus(statusClipboardFail + err.Error())
		return true
	}
	l.state.SetStatus(StatusCopied)
	return true
}

func (l *Loop) handleMessage(msg bus.Message) {
	l.metrics.MessageReceived(msg.Channel)

	switch msg.Channel {
	case l.cfg.LogsChannel:
		record, err := bus.DecodeLogRecord(msg.Payload)
		if err != nil {
			l.metrics.ParseError(msg.Channel)
			l.log.V(1).Info("dropping log payload", "error", err.Error())
			return
		}
		admitted := l.state.Ingest(record)
		l.metrics.RecordIngested(admitted)
		if admitted && l.subs != nil {
			l.subs.Broadcast(record)
		}

	case l.cfg.StatsChannel:
		stats, ok, err := bus.DecodeStats(msg.Payload)
		if err != nil {
			l.metrics.ParseError(msg.Channel)
			l.log.V(1).Info("dropping stats payload", "error", err.Error())
			return
		}
		if !ok {
			return
		}
		l.state.SetStats(stats)
		l.metrics.StatsUpdated()

	default:
		l.metrics.UnknownChannel()
		l.log.Info("ignoring message", "channel", msg.Channel, "error", domain.ErrUnknownChannel.Error())
	}
}

func (l *Loop) render() error {
	snap := l.state.Snapshot()
	if err := l.renderer.Render(snap); err != nil {
		if errors.Is(err, domain.ErrRender) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	l.metrics.Rendered(len(snap.Records))
	return nil
}
