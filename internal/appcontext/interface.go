// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface instead of the
// concrete App so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/redpush"
)

// Interface defines what a command needs from the application.
// The App struct from cmd/redpush/app implements it.
type Interface interface {
	// Syncer returns the syncer bound to the configured Redash instance,
	// creating it lazily. Fails when the URL or API key is missing.
	Syncer() (redpush.Syncer, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Quiet reports whether status lines should be suppressed.
	Quiet() bool

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
