// Package constants provides shared constants for the finpulse application.
package constants

import "time"

// Simulation defaults
const (
	// DefaultInterval is the time between automatic simulation cycles
	DefaultInterval = 30 * time.Second

	// DefaultLatency is the simulated analysis time before a cycle publishes
	DefaultLatency = 1500 * time.Millisecond

	// MinInterval guards against busy-looping schedulers
	MinInterval = 100 * time.Millisecond

	// MaxVariationFraction is the largest accepted per-field variation
	MaxVariationFraction = 0.5

	// DefaultSimulateCycles is the number of cycles printed by the simulate command
	DefaultSimulateCycles = 5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultRefreshRate is the sustained number of manual refreshes accepted per second
	DefaultRefreshRate = 1.0

	// DefaultRefreshBurst is the number of manual refreshes accepted back to back
	DefaultRefreshBurst = 3

	// DefaultStreamBuffer is the number of snapshots queued per stream client
	DefaultStreamBuffer = 4

	// DefaultMaxMessageSizeBytes is the read limit for stream clients (64 KB)
	DefaultMaxMessageSizeBytes int64 = 64 * 1024

	// DefaultShutdownTimeout bounds graceful HTTP shutdown
	DefaultShutdownTimeout = 10 * time.Second
)
