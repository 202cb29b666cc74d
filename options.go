package redpush

import (
	"github.com/agentstation/redpush/pkg/reconciler"
)

// config holds Syncer settings
type config struct {
	reconcilerOptions []reconciler.Option
	strictDiff        bool
	hooks             *hooks
}

var defaultConfig = config{}

// Option is a function that configures a Syncer instance
type Option func(*config) error

// WithReconcilerOptions passes options through to every reconciler the
// Syncer builds.
func WithReconcilerOptions(opts ...reconciler.Option) Option {
	return func(c *config) error {
		c.reconcilerOptions = append(c.reconcilerOptions, opts...)
		return nil
	}
}

// WithIgnoredFields excludes server-managed fields from the unchanged check
// done before updates.
func WithIgnoredFields(fields ...string) Option {
	return WithReconcilerOptions(reconciler.WithIgnoredFields(fields...))
}

// WithStrictDiff makes diff fail on remote queries without redpush_id
// instead of leaving them out.
func WithStrictDiff(enabled bool) Option {
	return func(c *config) error {
		c.strictDiff = enabled
		return nil
	}
}

// WithSavedHook registers a callback fired after each create or update.
func WithSavedHook(fn SavedHook) Option {
	return func(c *config) error {
		c.hooks.OnSaved(fn)
		return nil
	}
}

// WithArchivedHook registers a callback fired after each archive.
func WithArchivedHook(fn ArchivedHook) Option {
	return func(c *config) error {
		c.hooks.OnArchived(fn)
		return nil
	}
}

// WithUserCreatedHook registers a callback fired after each user creation.
func WithUserCreatedHook(fn UserCreatedHook) Option {
	return func(c *config) error {
		c.hooks.OnUserCreated(fn)
		return nil
	}
}
