package cli

import (
	"context"
	"io"
	"net"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logdash/internal/bus"
	"github.com/charliek/logdash/internal/config"
	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/runstate"
)

func headless(demo bool) dashboardOptions {
	return dashboardOptions{
		Demo:    demo,
		Program: []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutSignalHandler()},
	}
}

func TestOpenBus(t *testing.T) {
	ctx := context.Background()

	t.Run("demo selects memory", func(t *testing.T) {
		c, err := openBus(ctx, config.BusConfig{Kind: config.BusRedis, Addr: "127.0.0.1:1"}, true, logr.Discard())
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &bus.Memory{}, c)
	})

	t.Run("memory kind", func(t *testing.T) {
		c, err := openBus(ctx, config.BusConfig{Kind: config.BusMemory}, false, logr.Discard())
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &bus.Memory{}, c)
	})

	t.Run("redis", func(t *testing.T) {
		srv := miniredis.RunT(t)
		c, err := openBus(ctx, config.BusConfig{Kind: config.BusRedis, Addr: srv.Addr()}, false, logr.Discard())
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &bus.Redis{}, c)
	})
}

func TestRunDashboard_RedisUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	cfg := config.Default()
	cfg.Bus.Addr = addr

	err := runDashboard(context.Background(), cfg, headless(false), logr.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, domain.IsFatal(err))
}

func TestRunDashboard_DemoWithAPI(t *testing.T) {
	cfg := config.Default()
	cfg.Dashboard.Tick = "10ms"
	cfg.API.Enabled = true
	cfg.API.Port = 0

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := headless(true)
	opts.StateDir = t.TempDir()

	done := make(chan error, 1)
	go func() { done <- runDashboard(ctx, cfg, opts, logr.Discard()) }()

	// the running dashboard records its API address and serves the demo traffic
	var state *runstate.State
	require.Eventually(t, func() bool {
		var err error
		state, err = runstate.Load(opts.StateDir)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, os.Getpid(), state.PID)
	assert.NotZero(t, state.Port)

	require.Eventually(t, func() bool {
		resp, err := NewClient(state.URL()).GetStatus(ctx)
		return err == nil && resp.Admitted+resp.FilteredOut > 0
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dashboard did not stop after the context expired")
	}

	_, err := runstate.Load(opts.StateDir)
	assert.ErrorIs(t, err, runstate.ErrNotFound)
}

func TestRunDashboard_APIPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.Bus.Kind = config.BusMemory
	cfg.API.Enabled = true
	cfg.API.Port = ln.Addr().(*net.TCPAddr).Port

	err = runDashboard(context.Background(), cfg, headless(false), logr.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api: listening on")
}

func TestRunDashboard_InvalidClipboard(t *testing.T) {
	cfg := config.Default()
	cfg.Bus.Kind = config.BusMemory
	cfg.Clipboard = "carrier-pigeon"

	err := runDashboard(context.Background(), cfg, headless(false), logr.Discard())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
