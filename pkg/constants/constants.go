// Package constants provides shared constants used throughout redpush.
// This includes timeouts, limits, file permissions and the names of the
// environment variables the CLI reads.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single Redash API request
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultPageSize is the number of items requested per page from list endpoints
	DefaultPageSize = 250

	// MaxPageSize is the largest page size Redash accepts
	MaxPageSize = 250

	// DefaultConcurrency keeps hydration sequential unless asked otherwise
	DefaultConcurrency = 1

	// MaxConcurrency caps the hydration fan-out
	MaxConcurrency = 16

	// MaxErrorBodySize bounds how much of an error response is kept
	MaxErrorBodySize = 4096
)

// Environment variables read by the CLI
const (
	// EnvRedashURL holds the base URL of the Redash instance
	EnvRedashURL = "REDASH_URL"

	// EnvRedashKey holds the user API key
	EnvRedashKey = "REDASH_KEY"
)

// Layout constants for split dumps
const (
	// QueriesDir is the sub-directory holding one file per query
	QueriesDir = "queries"

	// DashboardsDir is the sub-directory holding one file per dashboard
	DashboardsDir = "dashboards"

	// YAMLExtension is the extension of written record files
	YAMLExtension = ".yaml"
)
