package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charliek/logdash/internal/clipboard"
	"github.com/charliek/logdash/internal/domain"
	"github.com/charliek/logdash/internal/logging"
)

// Validate checks the configuration for errors. All problems are reported
// together.
func Validate(config *Config) error {
	var errs []string

	switch config.Bus.Kind {
	case BusRedis, BusMemory:
	default:
		errs = append(errs, fmt.Sprintf("bus.kind: must be %q or %q, got %q", BusRedis, BusMemory, config.Bus.Kind))
	}
	if config.Bus.LogsChannel == "" {
		errs = append(errs, "bus.logs_channel: channel name is required")
	}
	if config.Bus.StatsChannel == "" {
		errs = append(errs, "bus.stats_channel: channel name is required")
	}
	if config.Bus.LogsChannel != "" && config.Bus.LogsChannel == config.Bus.StatsChannel {
		errs = append(errs, "bus.stats_channel: must differ from bus.logs_channel")
	}
	if config.Bus.DB < 0 {
		errs = append(errs, fmt.Sprintf("bus.db: must be non-negative, got %d", config.Bus.DB))
	}

	if tick, err := time.ParseDuration(config.Dashboard.Tick); err != nil {
		errs = append(errs, fmt.Sprintf("dashboard.tick: invalid duration %q", config.Dashboard.Tick))
	} else if tick <= 0 {
		errs = append(errs, fmt.Sprintf("dashboard.tick: must be positive, got %s", tick))
	}
	if config.Dashboard.MaxLogs < 1 {
		errs = append(errs, fmt.Sprintf("dashboard.max_logs: must be at least 1, got %d", config.Dashboard.MaxLogs))
	}

	switch config.Clipboard {
	case clipboard.KindOSC52, clipboard.KindSystem:
	default:
		errs = append(errs, fmt.Sprintf("clipboard: must be %q or %q, got %q", clipboard.KindOSC52, clipboard.KindSystem, config.Clipboard))
	}

	if config.API.Port < 0 || config.API.Port > 65535 {
		errs = append(errs, fmt.Sprintf("api.port: must be between 0 and 65535, got %d", config.API.Port))
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: unknown level %q", config.Log.Level))
	}
	if config.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("log.max_size_mb: must be non-negative, got %d", config.Log.MaxSizeMB))
	}
	if config.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Sprintf("log.max_backups: must be non-negative, got %d", config.Log.MaxBackups))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}
