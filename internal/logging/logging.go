// Package logging builds the diagnostic logger. The terminal belongs to the
// dashboard, so diagnostics always go to a rotated file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

// Options configures the diagnostic logger
type Options struct {
	File       string // empty means $TMPDIR/logdash.log
	Level      string // debug, info, warn or error
	MaxSizeMB  int
	MaxBackups int
}

// DefaultFile returns the log file used when none is configured
func DefaultFile() string {
	return filepath.Join(os.TempDir(), constants.DefaultLogFileName)
}

// ParseLevel maps a level name to a zap level. Debug enables logr V(1).
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w: unknown log level %q", domain.ErrInvalidConfig, level)
	}
}

// New returns a logr.Logger writing JSON lines to the configured file, and a
// function that flushes and closes it.
func New(opts Options) (logr.Logger, func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), func() {}, err
	}

	if opts.File == "" {
		opts.File = DefaultFile()
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = constants.DefaultLogMaxSizeMB
	}
	if opts.MaxBackups < 0 {
		opts.MaxBackups = constants.DefaultLogMaxBackups
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("creating log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.NewAtomicLevelAt(level),
	)
	zapLogger := zap.New(core, zap.AddCaller())

	cleanup := func() {
		_ = zapLogger.Sync()
		_ = rotator.Close()
	}
	return zapr.NewLogger(zapLogger), cleanup, nil
}
