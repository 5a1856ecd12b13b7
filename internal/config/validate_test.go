package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/logdash/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:   "memory bus",
			modify: func(c *Config) { c.Bus.Kind = BusMemory },
		},
		{
			name:    "unknown bus kind",
			modify:  func(c *Config) { c.Bus.Kind = "nats" },
			wantErr: "bus.kind",
		},
		{
			name:    "empty logs channel",
			modify:  func(c *Config) { c.Bus.LogsChannel = "" },
			wantErr: "bus.logs_channel",
		},
		{
			name:    "empty stats channel",
			modify:  func(c *Config) { c.Bus.StatsChannel = "" },
			wantErr: "bus.stats_channel",
		},
		{
			name:    "identical channels",
			modify:  func(c *Config) { c.Bus.StatsChannel = c.Bus.LogsChannel },
			wantErr: "must differ",
		},
		{
			name:    "negative db",
			modify:  func(c *Config) { c.Bus.DB = -1 },
			wantErr: "bus.db",
		},
		{
			name:    "unparseable tick",
			modify:  func(c *Config) { c.Dashboard.Tick = "fast" },
			wantErr: "dashboard.tick",
		},
		{
			name:    "zero tick",
			modify:  func(c *Config) { c.Dashboard.Tick = "0s" },
			wantErr: "must be positive",
		},
		{
			name:    "max logs below one",
			modify:  func(c *Config) { c.Dashboard.MaxLogs = 0 },
			wantErr: "dashboard.max_logs",
		},
		{
			name:    "unknown clipboard",
			modify:  func(c *Config) { c.Clipboard = "" },
			wantErr: "clipboard",
		},
		{
			name:   "port zero is allowed",
			modify: func(c *Config) { c.API.Port = 0 },
		},
		{
			name:    "port too large",
			modify:  func(c *Config) { c.API.Port = 65536 },
			wantErr: "api.port",
		},
		{
			name:    "negative port",
			modify:  func(c *Config) { c.API.Port = -1 },
			wantErr: "api.port",
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level",
		},
		{
			name:    "negative backups",
			modify:  func(c *Config) { c.Log.MaxBackups = -2 },
			wantErr: "log.max_backups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Bus.Kind = "x"
	cfg.Dashboard.MaxLogs = -1
	cfg.Log.Level = "y"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus.kind")
	assert.Contains(t, err.Error(), "dashboard.max_logs")
	assert.Contains(t, err.Error(), "log.level")
}
