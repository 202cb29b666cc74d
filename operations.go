package redpush

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/agentstation/redpush/pkg/canonical"
	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/differ"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/logging"
	"github.com/agentstation/redpush/pkg/reconciler"
	"github.com/agentstation/redpush/pkg/records"
	"github.com/agentstation/redpush/pkg/store"
	"github.com/agentstation/redpush/pkg/users"
)

// Diff styles.
const (
	StyleHTML    = "html"
	StyleUnified = "unified"
)

// DumpOptions configures Dump.
type DumpOptions struct {
	OutFile           string // aggregate file, required unless Split
	OutPath           string // root directory, required with Split
	Split             bool
	IncludeDashboards bool // split mode only
}

// PushOptions configures Push.
type PushOptions struct {
	InFile string
	DryRun bool
}

// ArchiveOptions configures Archive.
type ArchiveOptions struct {
	InFile string
	DryRun bool
	// AllowEmpty permits archiving every remote query when the local
	// collection is empty.
	AllowEmpty bool
}

// DiffOptions configures Diff.
type DiffOptions struct {
	InFile  string
	Style   string // html (default) or unified
	Context int    // context lines, 0 for the renderer default
}

// DashboardsOptions configures Dashboards.
type DashboardsOptions struct {
	OutFile string
}

// UsersOptions configures Users.
type UsersOptions struct {
	InFile string
	DryRun bool
}

// DumpResult reports what Dump or Dashboards wrote.
type DumpResult struct {
	Queries    int
	Dashboards int
	Files      []string
	Duration   time.Duration
}

// OperationResult pairs the plan of a push or archive with what was applied.
type OperationResult struct {
	Plan   *reconciler.Plan
	Result *reconciler.Result
}

// DiffResult reports the line statistics of a rendered diff.
type DiffResult struct {
	Remote int
	Local  int
	// Excluded counts remote queries left out for lacking a redpush_id.
	Excluded int
	Stat     differ.Stat
}

// UsersResult reports the users created.
type UsersResult struct {
	Created records.Collection
	DryRun  bool
	// Failed is the user that could not be created, if any.
	Failed *records.Record
}

// Dump implements Syncer.
func (s *syncer) Dump(ctx context.Context, opts DumpOptions) (*DumpResult, error) {
	if opts.Split && opts.OutPath == "" {
		return nil, errors.NewUsageError("dump", "no out path provided (--out-path is required with --split-file)")
	}
	if !opts.Split && opts.OutFile == "" {
		return nil, errors.NewUsageError("dump", "no out file provided (--out-file)")
	}

	ctx = logging.WithOperation(ctx, "dump")
	logger := logging.FromContext(ctx)
	start := time.Now()

	queries, err := s.fetchQueries(ctx, false)
	if err != nil {
		return nil, err
	}
	result := &DumpResult{Queries: queries.Len()}

	if !opts.Split {
		if opts.IncludeDashboards {
			logger.Warn().Msg("--include-dashboards only applies with --split-file, ignoring")
		}
		if err := store.SaveCollection(queries, opts.OutFile); err != nil {
			return nil, err
		}
		result.Files = []string{opts.OutFile}
		result.Duration = time.Since(start)
		logger.Info().Int("queries", result.Queries).Str("file", opts.OutFile).Msg("Dumped queries")
		return result, nil
	}

	files, err := store.SaveSplit(queries, filepath.Join(opts.OutPath, constants.QueriesDir))
	if err != nil {
		return nil, err
	}
	result.Files = files

	if opts.IncludeDashboards {
		dashboards, err := s.fetchDashboards(ctx)
		if err != nil {
			return nil, err
		}
		files, err := store.SaveSplit(dashboards, filepath.Join(opts.OutPath, constants.DashboardsDir))
		if err != nil {
			return nil, err
		}
		result.Dashboards = dashboards.Len()
		result.Files = append(result.Files, files...)
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("queries", result.Queries).
		Int("dashboards", result.Dashboards).
		Int("files", len(result.Files)).
		Str("path", opts.OutPath).
		Msg("Dumped split files")
	return result, nil
}

// Push implements Syncer.
func (s *syncer) Push(ctx context.Context, opts PushOptions) (*OperationResult, error) {
	if opts.InFile == "" {
		return nil, errors.NewUsageError("push", "no file provided (--in-file)")
	}
	ctx = logging.WithOperation(ctx, "push")

	// Local first so a broken file never reaches the remote.
	local, err := store.Load(opts.InFile)
	if err != nil {
		return nil, err
	}
	remote, err := s.fetchQueries(ctx, false)
	if err != nil {
		return nil, err
	}

	r, err := s.reconciler(reconciler.WithDryRun(opts.DryRun))
	if err != nil {
		return nil, err
	}
	plan, err := r.PlanPush(remote, local)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().
		Int("local", plan.LocalCount).
		Int("remote", plan.RemoteCount).
		Stringer("plan", plan.Summary()).
		Msg("Planned push")

	result, err := r.Apply(ctx, s.writer(), plan)
	return &OperationResult{Plan: plan, Result: result}, err
}

// Archive implements Syncer.
func (s *syncer) Archive(ctx context.Context, opts ArchiveOptions) (*OperationResult, error) {
	if opts.InFile == "" {
		return nil, errors.NewUsageError("archive", "no file provided (--in-file)")
	}
	ctx = logging.WithOperation(ctx, "archive")
	logger := logging.FromContext(ctx)

	local, err := store.Load(opts.InFile)
	if err != nil {
		return nil, err
	}
	// Summaries carry redpush_id, so archive does not hydrate.
	remote, err := s.remote.ListQueries(ctx, true)
	if err != nil {
		return nil, err
	}

	r, err := s.reconciler(reconciler.WithDryRun(opts.DryRun))
	if err != nil {
		return nil, err
	}
	plan, err := r.PlanArchive(remote, local)
	if err != nil {
		return nil, err
	}

	if plan.Destructive {
		if !opts.AllowEmpty && !opts.DryRun {
			return &OperationResult{Plan: plan}, errors.NewUsageError("archive",
				"local collection is empty and every remote query would be archived; pass --allow-empty to proceed")
		}
		logger.Warn().Int("remote", plan.RemoteCount).Msg("Local collection is empty, archiving every remote query")
	}
	for _, a := range plan.Filter(reconciler.ActionReintroduced) {
		logger.Warn().Str("query", a.Label()).Msg("Archived remotely but still defined locally, the next push creates a new query for it")
	}
	logger.Info().
		Int("local", plan.LocalCount).
		Int("remote", plan.RemoteCount).
		Stringer("plan", plan.Summary()).
		Msg("Planned archive")

	result, err := r.Apply(ctx, s.writer(), plan)
	return &OperationResult{Plan: plan, Result: result}, err
}

// Diff implements Syncer.
func (s *syncer) Diff(ctx context.Context, opts DiffOptions, w io.Writer) (*DiffResult, error) {
	if opts.InFile == "" {
		return nil, errors.NewUsageError("diff", "no file provided (--in-file)")
	}
	style := opts.Style
	if style == "" {
		style = StyleHTML
	}
	if style != StyleHTML && style != StyleUnified {
		return nil, errors.NewUsageError("diff", "unknown style "+style+" (html or unified)")
	}
	ctx = logging.WithOperation(ctx, "diff")
	logger := logging.FromContext(ctx)

	local, err := store.Load(opts.InFile)
	if err != nil {
		return nil, err
	}
	local, err = canonical.CanonicalizeNamed("local", local)
	if err != nil {
		return nil, err
	}

	remote, err := s.fetchQueries(ctx, false)
	if err != nil {
		return nil, err
	}
	result := &DiffResult{Local: local.Len()}
	if !s.config.strictDiff {
		keyed := make(records.Collection, 0, remote.Len())
		for _, rec := range remote {
			if _, ok := rec.RedpushID(); !ok {
				logger.Warn().Str("query", rec.Label()).Msg("Remote query has no redpush_id, leaving it out of the diff")
				result.Excluded++
				continue
			}
			keyed = append(keyed, rec)
		}
		remote = keyed
	}
	remote, err = canonical.CanonicalizeNamed("remote", remote)
	if err != nil {
		return nil, err
	}
	result.Remote = remote.Len()

	from, err := canonicalText(remote)
	if err != nil {
		return nil, err
	}
	to, err := canonicalText(local)
	if err != nil {
		return nil, err
	}

	dopts := []differ.Option{
		differ.WithLabels("remote", opts.InFile),
		differ.WithTitle("redpush diff: " + filepath.Base(opts.InFile)),
	}
	if opts.Context > 0 {
		dopts = append(dopts, differ.WithContext(opts.Context))
	}
	switch style {
	case StyleUnified:
		err = differ.RenderUnified(w, from, to, dopts...)
	default:
		err = differ.RenderHTML(w, from, to, dopts...)
	}
	if err != nil {
		return nil, err
	}

	stat, err := differ.Stats(from, to)
	if err != nil {
		return nil, err
	}
	result.Stat = stat
	logger.Info().
		Int("remote", result.Remote).
		Int("local", result.Local).
		Stringer("lines", stat).
		Msg("Diff rendered")
	return result, nil
}

// Dashboards implements Syncer.
func (s *syncer) Dashboards(ctx context.Context, opts DashboardsOptions) (*DumpResult, error) {
	if opts.OutFile == "" {
		return nil, errors.NewUsageError("dashboards", "no out file provided (--out-file)")
	}
	ctx = logging.WithOperation(ctx, "dashboards")
	start := time.Now()

	dashboards, err := s.fetchDashboards(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.SaveCollection(dashboards, opts.OutFile); err != nil {
		return nil, err
	}

	result := &DumpResult{
		Dashboards: dashboards.Len(),
		Files:      []string{opts.OutFile},
		Duration:   time.Since(start),
	}
	logging.FromContext(ctx).Info().
		Int("dashboards", result.Dashboards).
		Str("file", opts.OutFile).
		Msg("Dumped dashboards")
	return result, nil
}

// Users implements Syncer.
func (s *syncer) Users(ctx context.Context, opts UsersOptions) (*UsersResult, error) {
	if opts.InFile == "" {
		return nil, errors.NewUsageError("users", "no file provided (--in-file)")
	}
	ctx = logging.WithOperation(ctx, "users")
	logger := logging.FromContext(ctx)

	parsed, err := users.ParseFile(opts.InFile)
	if err != nil {
		return nil, err
	}

	result := &UsersResult{Created: records.Collection{}, DryRun: opts.DryRun}
	for _, user := range parsed {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		email, _ := user.Get("email")
		if opts.DryRun {
			logger.Info().Str("name", user.Name()).Interface("email", email).Msg("Would create user")
			result.Created = append(result.Created, user)
			continue
		}
		created, err := s.remote.CreateUser(ctx, user)
		if err != nil {
			result.Failed = user
			return result, errors.WrapResource("create", "user", user.Name(), err)
		}
		s.hooks.triggerUserCreated(created)
		logger.Info().Str("name", user.Name()).Interface("email", email).Msg("Created user")
		result.Created = append(result.Created, created)
	}
	return result, nil
}

// fetchQueries lists and hydrates queries.
func (s *syncer) fetchQueries(ctx context.Context, includeArchived bool) (records.Collection, error) {
	summaries, err := s.remote.ListQueries(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Int("queries", summaries.Len()).Msg("Hydrating queries")
	return s.remote.FetchAll(ctx, summaries)
}

// fetchDashboards lists and hydrates dashboards.
func (s *syncer) fetchDashboards(ctx context.Context) (records.Collection, error) {
	summaries, err := s.remote.ListDashboards(ctx)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Int("dashboards", summaries.Len()).Msg("Hydrating dashboards")
	return s.remote.FetchAllDashboards(ctx, summaries)
}

// canonicalText serializes a canonical collection into diffable lines.
func canonicalText(c records.Collection) ([]string, error) {
	data, err := store.Marshal(c)
	if err != nil {
		return nil, err
	}
	return differ.Lines(string(data)), nil
}
