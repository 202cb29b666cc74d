package reconciler

import (
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
)

// Options configures a reconciler.
type options struct {
	resource string
	ignored  map[string]bool
	dryRun   bool
}

func defaultOptions() *options {
	return &options{
		resource: "query",
		ignored:  map[string]bool{records.FieldID: true},
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithResource names the kind of record being reconciled ("query",
// "dashboard", "user"); it only shows up in errors and logs.
func WithResource(resource string) Option {
	return func(o *options) error {
		if resource == "" {
			return &errors.ValidationError{
				Field:   "resource",
				Message: "cannot be empty",
			}
		}
		o.resource = resource
		return nil
	}
}

// WithIgnoredFields excludes fields from the unchanged check, on top of id.
// Server-managed fields such as updated_at belong here.
func WithIgnoredFields(fields ...string) Option {
	return func(o *options) error {
		for _, f := range fields {
			o.ignored[f] = true
		}
		return nil
	}
}

// WithDryRun makes Apply report what it would do without calling the writer.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
