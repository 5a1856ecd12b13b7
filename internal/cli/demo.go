package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/charliek/logdash/internal/config"
	"github.com/charliek/logdash/internal/demo"
	"github.com/charliek/logdash/internal/domain"
)

// demoCmd publishes synthetic traffic to the configured bus
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Publish synthetic log records and statistics to the bus",
	Long: `Publish random log records every 50-300ms and one statistics window per
second to the configured Redis bus, so a dashboard started elsewhere has
something to show. Use 'logdash --demo' to run both in one process.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Bus.Kind != config.BusRedis {
		return fmt.Errorf("%w: demo publisher needs a shared bus, got %q (use --demo to run the dashboard with a built-in generator)",
			domain.ErrInvalidConfig, cfg.Bus.Kind)
	}

	log, cleanup, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := openBus(ctx, cfg.Bus, false, log)
	if err != nil {
		return fmt.Errorf("could not connect to Redis at %s: %w", cfg.Bus.Addr, err)
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Connected to Redis at %s\n", cfg.Bus.Addr)
	fmt.Fprintf(out, "Publishing to %q and %q. Press Ctrl+C to stop.\n", cfg.Bus.LogsChannel, cfg.Bus.StatsChannel)

	gen := demo.New(demo.Config{
		LogsChannel:  cfg.Bus.LogsChannel,
		StatsChannel: cfg.Bus.StatsChannel,
	}, client, log)
	if err := gen.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "Demo publisher stopped.")
	return nil
}
