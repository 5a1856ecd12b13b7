// Package constants provides shared configuration values used across the logdash application.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "logdash.yaml"

	// DefaultAPIHost is the default host for the read-only API server
	DefaultAPIHost = "127.0.0.1"

	// DefaultAPIPort is the default port for the read-only API server
	DefaultAPIPort = 5556

	// DefaultLogFileName is the diagnostic log file created in the temp dir
	// when no log file is configured
	DefaultLogFileName = "logdash.log"
)

// Message bus defaults
const (
	// LogsChannel carries one JSON encoded log record per message
	LogsChannel = "logs.ingest"

	// StatsChannel carries a JSON array of aggregated statistics windows
	StatsChannel = "stats.update"

	// DefaultBusKind selects the transport used when none is configured
	DefaultBusKind = "redis"

	// DefaultRedisAddr is the default Redis address for the pub/sub transport
	DefaultRedisAddr = "localhost:6379"

	// DefaultBusBuffer is the size of the channel between the transport and the event loop
	DefaultBusBuffer = 256
)

// Dashboard defaults
const (
	// MaxLogs is the number of log records kept in the live window
	MaxLogs = 500

	// TickRate is the redraw period of the dashboard
	TickRate = 100 * time.Millisecond

	// InputBuffer is the size of the command channel fed by the keyboard source
	InputBuffer = 64
)

// Log configuration
const (
	// DefaultLogLimit is the default number of records returned by the API
	DefaultLogLimit = 100

	// DefaultSubscriptionBuffer is the default size for live stream subscriptions
	DefaultSubscriptionBuffer = 100

	// DefaultLogMaxSizeMB is the size at which the diagnostic log is rotated
	DefaultLogMaxSizeMB = 10

	// DefaultLogMaxBackups is the number of rotated diagnostic logs kept
	DefaultLogMaxBackups = 3
)

// Timeout and duration defaults
const (
	// DefaultShutdownTimeout is the default timeout for graceful API shutdown
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultConnectTimeout bounds the bus connectivity check at startup
	DefaultConnectTimeout = 5 * time.Second
)
