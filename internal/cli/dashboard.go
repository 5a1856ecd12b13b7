package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/charliek/logdash/internal/api"
	"github.com/charliek/logdash/internal/bus"
	"github.com/charliek/logdash/internal/clipboard"
	"github.com/charliek/logdash/internal/config"
	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/dashboard"
	"github.com/charliek/logdash/internal/demo"
	"github.com/charliek/logdash/internal/engine"
	"github.com/charliek/logdash/internal/logging"
	"github.com/charliek/logdash/internal/logs"
	"github.com/charliek/logdash/internal/metrics"
	"github.com/charliek/logdash/internal/runstate"
	"github.com/charliek/logdash/internal/tui"
)

func runDashboardCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, cleanup, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := dashboardOptions{Demo: demoMode}
	if path, _ := configFile(cmd); fileExists(path) {
		opts.ConfigFile = path
	}
	if cwd, err := os.Getwd(); err == nil {
		opts.StateDir = cwd
	}
	return runDashboard(cmd.Context(), cfg, opts, log)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// dashboardOptions are the per-invocation settings that are not part of the
// config file
type dashboardOptions struct {
	Demo       bool
	ConfigFile string
	StateDir   string // where the API address is recorded; empty disables it
	Program    []tea.ProgramOption
}

func newLogger(cfg *config.Config) (logr.Logger, func(), error) {
	return logging.New(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
}

// busClient is a transport that can both feed the dashboard and be fed
type busClient interface {
	bus.Subscriber
	bus.Publisher
}

// openBus connects the configured transport. The demo flag always selects
// the in-process bus.
func openBus(ctx context.Context, cfg config.BusConfig, demo bool, log logr.Logger) (busClient, error) {
	if demo || cfg.Kind == config.BusMemory {
		return bus.NewMemory(constants.DefaultBusBuffer, log), nil
	}

	r := bus.NewRedis(bus.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Buffer:   constants.DefaultBusBuffer,
	}, log)

	pingCtx, cancel := context.WithTimeout(ctx, constants.DefaultConnectTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// runDashboard wires the bus, the optional API and the terminal UI, and
// blocks until the user quits or ctx is cancelled.
func runDashboard(ctx context.Context, cfg *config.Config, opts dashboardOptions, log logr.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, err := openBus(ctx, cfg.Bus, opts.Demo, log)
	if err != nil {
		return err
	}
	defer client.Close()

	messages, err := client.Subscribe(ctx, cfg.Bus.LogsChannel, cfg.Bus.StatsChannel)
	if err != nil {
		log.Error(err, "bus subscribe failed", "kind", cfg.Bus.Kind, "addr", cfg.Bus.Addr)
		return err
	}

	term := tui.NewOutput(os.Stdout)
	sink, err := clipboard.New(cfg.Clipboard, term)
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	state := dashboard.New(cfg.Dashboard.MaxLogs)
	subs := logs.NewSubscriptionManager(constants.DefaultSubscriptionBuffer, log)
	defer subs.Close()

	if cfg.API.Enabled {
		stop, err := startAPI(cfg, opts, api.NewHandlers(state, subs, log), metrics.Handler(reg), log)
		if err != nil {
			return err
		}
		defer stop()
	}

	if opts.Demo {
		gen := demo.New(demo.Config{
			LogsChannel:  cfg.Bus.LogsChannel,
			StatsChannel: cfg.Bus.StatsChannel,
		}, client, log)
		go func() { _ = gen.Run(ctx) }()
	}

	log.Info("dashboard starting",
		"bus", cfg.Bus.Kind,
		"demo", opts.Demo,
		"api", cfg.API.Enabled,
		"max_logs", cfg.Dashboard.MaxLogs,
	)

	err = tui.Run(ctx, engine.LoopConfig{
		Tick:         cfg.Dashboard.TickInterval(),
		LogsChannel:  cfg.Bus.LogsChannel,
		StatsChannel: cfg.Bus.StatsChannel,
	}, engine.Deps{
		State:         state,
		Clipboard:     sink,
		Subscriptions: subs,
		Metrics:       metrics.Register(reg),
		Log:           log,
	}, messages, append([]tea.ProgramOption{tea.WithOutput(term)}, opts.Program...)...)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// startAPI binds the API listener, serves it in the background and records
// the bound address. The returned func stops the server and removes the record.
func startAPI(cfg *config.Config, opts dashboardOptions, handlers *api.Handlers, metricsHandler http.Handler, log logr.Logger) (func(), error) {
	srv := api.NewServer(api.ServerConfig{
		Host: cfg.API.Host,
		Port: cfg.API.Port,
	}, handlers, metricsHandler, log)

	ln, err := net.Listen("tcp", srv.Addr())
	if err != nil {
		return nil, fmt.Errorf("api: listening on %s: %w", srv.Addr(), err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "API server failed")
		}
	}()

	if opts.StateDir != "" {
		addr := ln.Addr().(*net.TCPAddr)
		state := &runstate.State{
			PID:        os.Getpid(),
			Host:       cfg.API.Host,
			Port:       addr.Port,
			StartedAt:  time.Now(),
			ConfigFile: opts.ConfigFile,
		}
		if err := state.Write(opts.StateDir); err != nil {
			log.Error(err, "writing state file failed")
		}
	}

	return func() {
		if opts.StateDir != "" {
			if err := runstate.Remove(opts.StateDir); err != nil {
				log.Error(err, "removing state file failed")
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "API server shutdown failed")
		}
	}, nil
}
