// Package redpush keeps Redash queries, dashboards and users in sync with
// YAML files.
//
// A Syncer wraps a Remote (normally a *redash.Client) and runs the
// dump, push, archive, diff, dashboards and users operations on top of the
// store, canonical, reconciler and differ packages. The cmd/redpush CLI is a
// thin layer over it.
package redpush

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/reconciler"
	"github.com/agentstation/redpush/pkg/records"
	"github.com/agentstation/redpush/pkg/redash"
)

// Remote is the subset of the Redash API used by a Syncer.
type Remote interface {
	ListQueries(ctx context.Context, includeArchived bool) (records.Collection, error)
	FetchAll(ctx context.Context, summaries records.Collection) (records.Collection, error)
	CreateOrUpdate(ctx context.Context, record *records.Record) (*records.Record, error)
	Archive(ctx context.Context, record *records.Record) error
	ListDashboards(ctx context.Context) (records.Collection, error)
	FetchAllDashboards(ctx context.Context, summaries records.Collection) (records.Collection, error)
	CreateUser(ctx context.Context, user *records.Record) (*records.Record, error)
}

var _ Remote = (*redash.Client)(nil)

// Syncer runs redpush operations against one Redash instance.
type Syncer interface {
	// Dump writes every active remote query to YAML.
	Dump(ctx context.Context, opts DumpOptions) (*DumpResult, error)

	// Push creates or updates remote queries from local YAML.
	Push(ctx context.Context, opts PushOptions) (*OperationResult, error)

	// Archive archives remote queries that are absent from local YAML.
	Archive(ctx context.Context, opts ArchiveOptions) (*OperationResult, error)

	// Diff renders the canonical remote and local YAML side by side to w.
	Diff(ctx context.Context, opts DiffOptions, w io.Writer) (*DiffResult, error)

	// Dashboards writes every dashboard to one YAML file.
	Dashboards(ctx context.Context, opts DashboardsOptions) (*DumpResult, error)

	// Users creates one remote user per CSV row.
	Users(ctx context.Context, opts UsersOptions) (*UsersResult, error)
}

// syncer is the internal implementation of the Syncer interface
type syncer struct {
	remote Remote
	config *config
	hooks  *hooks
}

// New creates a new Syncer over remote with the given options
func New(remote Remote, opts ...Option) (Syncer, error) {
	if remote == nil {
		return nil, errors.NewValidationError("remote", nil, "remote is required")
	}

	cfg := defaultConfig
	s := &syncer{
		remote: remote,
		config: &cfg,
		hooks:  newHooks(),
	}
	s.config.hooks = s.hooks

	for _, opt := range opts {
		if err := opt(s.config); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	return s, nil
}

// reconciler builds a reconciler with the configured options plus extra.
func (s *syncer) reconciler(extra ...reconciler.Option) (reconciler.Reconciler, error) {
	opts := append([]reconciler.Option{}, s.config.reconcilerOptions...)
	opts = append(opts, extra...)
	return reconciler.New(opts...)
}

// writer returns the reconciler Writer that fires the registered hooks.
func (s *syncer) writer() reconciler.Writer {
	return &hookedWriter{remote: s.remote, hooks: s.hooks}
}
