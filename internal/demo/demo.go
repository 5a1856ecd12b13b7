// Package demo publishes synthetic log records and statistics so the
// dashboard can be exercised without a real log producer.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/charliek/logdash/internal/bus"
	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/domain"
)

// TimestampLayout is the format of generated timestamps and window bounds
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// errorBias is the share of records forced to ERROR before the uniform pick
const errorBias = 0.2

var (
	services = []string{"auth-service", "payment-service", "user-service", "db-service"}
	levels   = []string{domain.LevelInfo, domain.LevelWarn, domain.LevelError, domain.LevelDebug}
	messages = []string{
		"User login successful",
		"Failed to connect to database",
		"Payment processed successfully",
		"Cache miss for user profile",
		"API rate limit exceeded",
		"User logged out",
	}
)

// Config controls the generator cadence
type Config struct {
	LogsChannel   string
	StatsChannel  string
	MinDelay      time.Duration // lower bound between two records
	MaxDelay      time.Duration // upper bound between two records
	StatsInterval time.Duration
	Seed          uint64 // zero picks a time based seed
}

// DefaultConfig returns the cadence of the reference publisher
func DefaultConfig() Config {
	return Config{
		LogsChannel:   constants.LogsChannel,
		StatsChannel:  constants.StatsChannel,
		MinDelay:      50 * time.Millisecond,
		MaxDelay:      300 * time.Millisecond,
		StatsInterval: time.Second,
	}
}

// Generator publishes random records and per-window statistics
type Generator struct {
	cfg Config
	pub bus.Publisher
	log logr.Logger
	now func() time.Time

	mu     sync.Mutex
	rng    *rand.Rand
	window window
}

// New creates a generator publishing to pub. Zero fields of cfg take the
// DefaultConfig values.
func New(cfg Config, pub bus.Publisher, log logr.Logger) *Generator {
	def := DefaultConfig()
	if cfg.LogsChannel == "" {
		cfg.LogsChannel = def.LogsChannel
	}
	if cfg.StatsChannel == "" {
		cfg.StatsChannel = def.StatsChannel
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = def.MinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = max(def.MaxDelay, cfg.MinDelay)
	}
	if cfg.StatsInterval <= 0 {
		cfg.StatsInterval = def.StatsInterval
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g := &Generator{
		cfg: cfg,
		pub: pub,
		log: log.WithName("demo"),
		now: time.Now,
		rng: rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	g.window.reset(g.now())
	return g
}

// Record returns a random record stamped with the current time
func (g *Generator) Record() domain.LogRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	level := domain.LevelError
	if g.rng.Float64() < 1-errorBias {
		level = levels[g.rng.IntN(len(levels))]
	}

	return domain.LogRecord{
		Timestamp: g.now().Format(TimestampLayout),
		Level:     level,
		Service:   services[g.rng.IntN(len(services))],
		Message:   messages[g.rng.IntN(len(messages))],
	}
}

// Observe adds r to the current statistics window
func (g *Generator) Observe(r domain.LogRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.window.add(r)
}

// Flush closes the current window and returns its statistics
func (g *Generator) Flush() domain.StatsSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	stats := g.window.snapshot(now)
	g.window.reset(now)
	return stats
}

// Run publishes until ctx is cancelled. Publish failures are logged and the
// generator keeps going.
func (g *Generator) Run(ctx context.Context) error {
	g.log.Info("demo publisher started", "logs_channel", g.cfg.LogsChannel, "stats_channel", g.cfg.StatsChannel)

	stats := time.NewTicker(g.cfg.StatsInterval)
	defer stats.Stop()

	next := time.NewTimer(g.delay())
	defer next.Stop()

	for {
		select {
		case <-ctx.Done():
			g.log.Info("demo publisher stopped")
			return nil

		case <-next.C:
			rec := g.Record()
			g.Observe(rec)
			if err := g.publishRecord(ctx, rec); err != nil {
				g.log.Error(err, "publishing record failed")
			}
			next.Reset(g.delay())

		case <-stats.C:
			if err := g.publishStats(ctx, g.Flush()); err != nil {
				g.log.Error(err, "publishing stats failed")
			}
		}
	}
}

func (g *Generator) publishRecord(ctx context.Context, rec domain.LogRecord) error {
	payload, err := bus.EncodeLogRecord(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	g.log.V(1).Info("sent record", "payload", string(payload))
	return g.pub.Publish(ctx, g.cfg.LogsChannel, payload)
}

func (g *Generator) publishStats(ctx context.Context, stats domain.StatsSnapshot) error {
	payload, err := bus.EncodeStats(stats)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	return g.pub.Publish(ctx, g.cfg.StatsChannel, payload)
}

func (g *Generator) delay() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	span := g.cfg.MaxDelay - g.cfg.MinDelay
	if span <= 0 {
		return g.cfg.MinDelay
	}
	return g.cfg.MinDelay + time.Duration(g.rng.Int64N(int64(span)+1))
}

// window aggregates records seen since start
type window struct {
	start      time.Time
	total      uint64
	errors     uint64
	perService map[string]uint64
}

func (w *window) reset(start time.Time) {
	w.start = start
	w.total = 0
	w.errors = 0
	w.perService = make(map[string]uint64)
}

func (w *window) add(r domain.LogRecord) {
	w.total++
	if r.Level == domain.LevelError {
		w.errors++
	}
	w.perService[r.Service]++
}

// snapshot summarizes the window. Ties for the top service go to the
// alphabetically first name.
func (w *window) snapshot(end time.Time) domain.StatsSnapshot {
	stats := domain.StatsSnapshot{
		WindowStart: w.start.Format(TimestampLayout),
		WindowEnd:   end.Format(TimestampLayout),
		TotalCount:  w.total,
		ErrorCount:  w.errors,
	}

	names := make([]string, 0, len(w.perService))
	for name := range w.perService {
		names = append(names, name)
	}
	sort.Strings(names)

	var best uint64
	for _, name := range names {
		if n := w.perService[name]; n > best {
			best = n
			top := name
			stats.TopService = &top
		}
	}
	return stats
}
