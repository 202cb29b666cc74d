// Package app provides the application context and dependency management
// for the redpush CLI. It centralizes configuration, logging and the
// lazily created Syncer that commands run against.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
	"github.com/agentstation/redpush/pkg/redash"
)

// App represents the redpush application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Syncer instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	syncer redpush.Syncer
}

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and the default config file;
// functional options can replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	if a.config.Format == "" {
		return "table"
	}
	return a.config.Format
}

// Quiet reports whether -q was given.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// NoColor reports whether colors are disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Syncer returns the syncer, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Syncer() (redpush.Syncer, error) {
	a.mu.RLock()
	if a.syncer != nil {
		s := a.syncer
		a.mu.RUnlock()
		return s, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.syncer != nil {
		return a.syncer, nil
	}

	client, err := redash.New(a.config.RedashConfig())
	if err != nil {
		return nil, err
	}

	s, err := redpush.New(client, a.buildSyncerOptions()...)
	if err != nil {
		return nil, errors.WrapResource("create", "syncer", "", err)
	}

	a.syncer = s
	return s, nil
}

// Shutdown releases the syncer. Writes already sent are not rolled back.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	a.syncer = nil
	a.mu.Unlock()
	return nil
}

// buildSyncerOptions constructs syncer options from the app configuration.
func (a *App) buildSyncerOptions() []redpush.Option {
	opts := []redpush.Option{
		redpush.WithSavedHook(func(saved *records.Record, created bool) {
			a.logger.Debug().Str("query", saved.Label()).Bool("created", created).Msg("Query saved")
		}),
		redpush.WithArchivedHook(func(archived *records.Record) {
			a.logger.Debug().Str("query", archived.Label()).Msg("Query archived")
		}),
		redpush.WithUserCreatedHook(func(user *records.Record) {
			a.logger.Debug().Str("user", user.Label()).Msg("User created")
		}),
	}
	if len(a.config.IgnoredFields) > 0 {
		opts = append(opts, redpush.WithIgnoredFields(a.config.IgnoredFields...))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSyncer sets a custom syncer instance (useful for testing).
func WithSyncer(s redpush.Syncer) Option {
	return func(a *App) error {
		a.syncer = s
		return nil
	}
}
