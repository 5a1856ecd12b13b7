package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

// Bus kinds
const (
	BusRedis  = "redis"
	BusMemory = "memory"
)

// Config represents the top-level logdash configuration
type Config struct {
	EnvFile   string          `yaml:"env_file"`
	Bus       BusConfig       `yaml:"bus"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Clipboard string          `yaml:"clipboard"`
	API       APIConfig       `yaml:"api"`
	Log       LogConfig       `yaml:"log"`
}

// BusConfig defines the message bus connection
type BusConfig struct {
	Kind         string `yaml:"kind"`
	Addr         string `yaml:"addr"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	LogsChannel  string `yaml:"logs_channel"`
	StatsChannel string `yaml:"stats_channel"`
}

// DashboardConfig defines the log window and redraw period
type DashboardConfig struct {
	Tick    string `yaml:"tick"`
	MaxLogs int    `yaml:"max_logs"`
}

// TickInterval returns the parsed redraw period. Validate guarantees it parses.
func (d DashboardConfig) TickInterval() time.Duration {
	tick, err := time.ParseDuration(d.Tick)
	if err != nil || tick <= 0 {
		return constants.TickRate
	}
	return tick
}

// APIConfig defines the read-only HTTP API
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Addr returns host:port for the API listener
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// LogConfig defines the diagnostic log file
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Kind:         constants.DefaultBusKind,
			Addr:         constants.DefaultRedisAddr,
			LogsChannel:  constants.LogsChannel,
			StatsChannel: constants.StatsChannel,
		},
		Dashboard: DashboardConfig{
			Tick:    constants.TickRate.String(),
			MaxLogs: constants.MaxLogs,
		},
		Clipboard: "osc52",
		API: APIConfig{
			Host: constants.DefaultAPIHost,
			Port: constants.DefaultAPIPort,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  constants.DefaultLogMaxSizeMB,
			MaxBackups: constants.DefaultLogMaxBackups,
		},
	}
}

// Load reads a configuration file, applies the environment and validates
// the result
func Load(path string) (*Config, error) {
	// First check if file exists
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	// Check file permissions for security
	if err := CheckFilePermissions(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnvironment(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path. When path was not given explicitly and the file
// does not exist, defaults are used instead.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if explicit || !errors.Is(err, domain.ErrConfigNotFound) {
		return nil, err
	}

	cfg = Default()
	if err := cfg.applyEnvironment(""); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse parses configuration from YAML bytes. Fields that are not set keep
// their defaults.
func Parse(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return cfg, nil
}

// applyEnvironment loads env_file and applies LOGDASH_* overrides. Variables
// already set in the process environment win over the file.
func (c *Config) applyEnvironment(configDir string) error {
	var fileEnv map[string]string
	if c.EnvFile != "" {
		var err error
		fileEnv, err = LoadEnvFile(resolvePath(c.EnvFile, configDir))
		if err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}
	c.ApplyEnv(MergeEnv(fileEnv, processEnv()))
	return nil
}

// ApplyEnv applies LOGDASH_* overrides from env
func (c *Config) ApplyEnv(env map[string]string) {
	if v, ok := env[EnvRedisAddr]; ok && v != "" {
		c.Bus.Addr = v
	}
	if v, ok := env[EnvRedisPassword]; ok {
		c.Bus.Password = v
	}
	if v, ok := env[EnvLogLevel]; ok && v != "" {
		c.Log.Level = v
	}
}

// Environment overrides
const (
	EnvRedisAddr     = "LOGDASH_REDIS_ADDR"
	EnvRedisPassword = "LOGDASH_REDIS_PASSWORD"
	EnvLogLevel      = "LOGDASH_LOG_LEVEL"
)

func processEnv() map[string]string {
	env := make(map[string]string)
	for _, key := range []string{EnvRedisAddr, EnvRedisPassword, EnvLogLevel} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env
}
