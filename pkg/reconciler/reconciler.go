// Package reconciler decides which remote records to create, update or
// archive so that the remote matches a local definition set, and applies
// those decisions through a Writer.
//
// Records are matched by redpush_id, never by the remote id. Planning is
// pure: it validates both collections and returns a Plan without any side
// effect. Apply then runs the plan strictly in order and stops at the first
// failure, reporting what was applied before it.
package reconciler

import (
	"context"
	"sort"

	"github.com/agentstation/redpush/pkg/canonical"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/logging"
	"github.com/agentstation/redpush/pkg/records"
)

// Writer performs the remote writes of a plan.
type Writer interface {
	// CreateOrUpdate creates the record when it has no id, updates it otherwise.
	CreateOrUpdate(ctx context.Context, record *records.Record) (*records.Record, error)
	// Archive deactivates a remote record. Archiving twice is not an error.
	Archive(ctx context.Context, record *records.Record) error
}

// Reconciler is the main interface for planning and applying changes.
type Reconciler interface {
	// PlanPush matches every local record against remote.
	PlanPush(remote, local records.Collection) (*Plan, error)
	// PlanArchive finds the remote records that have no local match.
	PlanArchive(remote, local records.Collection) (*Plan, error)
	// Apply runs the plan's writes in order.
	Apply(ctx context.Context, w Writer, plan *Plan) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	resource string
	ignored  map[string]bool
	dryRun   bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		resource: options.resource,
		ignored:  options.ignored,
		dryRun:   options.dryRun,
	}, nil
}

// PlanPush plans one action per local record, in local order.
//
// A local record without redpush_id, or whose redpush_id is unknown
// remotely, is created without an id. A matched record is updated against
// the remote id with the local values, unless the remote already holds
// every local value. Its options are the remote options with the local ones
// laid over them, so remote-only settings such as parameters are kept.
// Remote-only records are never touched.
func (r *reconciler) PlanPush(remote, local records.Collection) (*Plan, error) {
	remoteIdx, err := canonical.Index("remote", remote)
	if err != nil {
		return nil, err
	}
	if _, err := canonical.Index("local", local); err != nil {
		return nil, err
	}

	plan := &Plan{
		Operation:   OperationPush,
		Resource:    r.resource,
		RemoteCount: len(remote),
		LocalCount:  len(local),
		Actions:     make([]Action, 0, len(local)),
	}

	for _, loc := range local {
		key, hasKey := loc.RedpushID()
		var match *records.Record
		if hasKey {
			match = remoteIdx[key]
		}

		if match == nil {
			payload := loc.Clone()
			payload.Delete(records.FieldID)
			plan.Actions = append(plan.Actions, Action{
				Type:    ActionCreate,
				Key:     key,
				HasKey:  hasKey,
				Local:   loc,
				Payload: payload,
			})
			continue
		}

		remoteID, ok := match.ID()
		if !ok {
			return nil, &errors.ValidationError{
				Field:   "id",
				Value:   key.String(),
				Message: "remote record has no usable id",
			}
		}

		action := Action{
			Type:     ActionUpdate,
			Key:      key,
			HasKey:   true,
			RemoteID: remoteID,
			Local:    loc,
			Remote:   match,
		}
		action.Changed = r.changedFields(match, loc)
		if len(action.Changed) == 0 {
			action.Type = ActionUnchanged
		} else {
			payload := loc.Clone()
			payload.SetID(remoteID)
			if opts := mergeOptions(match.Options(), loc.Options()); opts != nil {
				payload.Set(records.FieldOptions, opts)
			}
			action.Payload = payload
		}
		plan.Actions = append(plan.Actions, action)
	}
	return plan, nil
}

// PlanArchive plans one action per remote record that needs attention, in
// remote order. Remote records matched locally are left out unless they are
// archived, in which case they are reported as reintroduced.
//
// An archived record whose redpush_id is also carried by an active record,
// or by an earlier archived one, is an old copy and is left out: only
// active records must have unique redpush_ids.
func (r *reconciler) PlanArchive(remote, local records.Collection) (*Plan, error) {
	remote = withoutStaleArchives(remote)
	if _, err := canonical.Index("remote", remote); err != nil {
		return nil, err
	}
	localIdx, err := canonical.Index("local", local)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Operation:   OperationArchive,
		Resource:    r.resource,
		RemoteCount: len(remote),
		LocalCount:  len(local),
		Destructive: len(local) == 0 && len(remote) > 0,
	}

	for _, rem := range remote {
		remoteID, _ := rem.ID()
		key, hasKey := rem.RedpushID()
		action := Action{
			Key:      key,
			HasKey:   hasKey,
			RemoteID: remoteID,
			Remote:   rem,
		}

		switch {
		case !hasKey:
			action.Type = ActionSkip
		case localIdx[key] != nil:
			if !rem.IsArchived() {
				continue
			}
			action.Type = ActionReintroduced
			action.Local = localIdx[key]
		default:
			action.Type = ActionArchive
		}
		plan.Actions = append(plan.Actions, action)
	}
	return plan, nil
}

// withoutStaleArchives drops archived records whose redpush_id is held by an
// active record or by an archived record listed before them.
func withoutStaleArchives(remote records.Collection) records.Collection {
	active := make(map[records.Key]bool)
	for _, rem := range remote {
		if key, ok := rem.RedpushID(); ok && !rem.IsArchived() {
			active[key] = true
		}
	}

	seen := make(map[records.Key]bool)
	out := make(records.Collection, 0, len(remote))
	for _, rem := range remote {
		key, ok := rem.RedpushID()
		if ok && rem.IsArchived() {
			if active[key] || seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, rem)
	}
	return out
}

// mergeOptions returns a copy of remote with every top level local option
// set over it. It returns nil when the remote has no options.
func mergeOptions(remote, local *records.Record) *records.Record {
	if remote == nil {
		return nil
	}
	merged := remote.Clone()
	if local != nil {
		for _, f := range local.Fields() {
			merged.Set(f.Key, f.Value)
		}
	}
	return merged
}

// changedFields lists the local fields whose values the remote does not
// already hold. Nested mappings only need to contain the local keys.
func (r *reconciler) changedFields(remote, local *records.Record) []string {
	var changed []string
	for _, f := range local.Fields() {
		if r.ignored[f.Key] {
			continue
		}
		rv, ok := remote.Get(f.Key)
		if !ok || !contains(rv, f.Value) {
			changed = append(changed, f.Key)
		}
	}
	sort.Strings(changed)
	return changed
}

// contains reports whether have holds every value of want.
func contains(have, want any) bool {
	switch w := want.(type) {
	case *records.Record:
		h, ok := have.(*records.Record)
		if !ok {
			return false
		}
		for _, f := range w.Fields() {
			hv, ok := h.Get(f.Key)
			if !ok || !contains(hv, f.Value) {
				return false
			}
		}
		return true
	case []any:
		h, ok := have.([]any)
		if !ok || len(h) != len(w) {
			return false
		}
		for i := range w {
			if !contains(h[i], w[i]) {
				return false
			}
		}
		return true
	}
	return records.Equal(have, want)
}

// Apply runs the plan's writes in order and stops at the first failure.
// The returned Result lists everything applied before the failure even when
// an error is returned.
func (r *reconciler) Apply(ctx context.Context, w Writer, plan *Plan) (*Result, error) {
	result := newResult(plan.Operation, r.dryRun)
	defer result.finalize()

	logger := logging.FromContext(ctx)
	pending := plan.Pending()

	for i, action := range pending {
		if err := ctx.Err(); err != nil {
			result.Failed = &Outcome{Action: action, Err: err}
			result.NotAttempted = len(pending) - i - 1
			return result, err
		}

		actx := logging.WithField(ctx, "action", string(action.Type))
		if action.HasKey {
			actx = logging.WithRedpushID(actx, action.Key.String())
		}
		if action.RemoteID > 0 {
			actx = logging.WithRemoteID(actx, action.RemoteID)
		}
		alog := logging.FromContext(actx)

		if r.dryRun {
			alog.Info().Str("name", action.Name()).Msg("Would apply")
			result.Applied = append(result.Applied, Outcome{Action: action, RemoteID: action.RemoteID})
			continue
		}

		outcome, err := r.applyOne(actx, w, action)
		if err != nil {
			alog.Error().Err(err).Str("name", action.Name()).Msg("Apply failed")
			outcome.Err = err
			result.Failed = &outcome
			result.NotAttempted = len(pending) - i - 1
			return result, errors.WrapResource(string(action.Type), r.resource, action.Label(), err)
		}
		alog.Info().Int64("result_id", outcome.RemoteID).Str("name", action.Name()).Msg("Applied")
		result.Applied = append(result.Applied, outcome)
	}

	logger.Debug().
		Str("operation", string(plan.Operation)).
		Int("applied", len(result.Applied)).
		Msg("Plan applied")
	return result, nil
}

func (r *reconciler) applyOne(ctx context.Context, w Writer, action Action) (Outcome, error) {
	outcome := Outcome{Action: action, RemoteID: action.RemoteID}
	switch action.Type {
	case ActionCreate, ActionUpdate:
		saved, err := w.CreateOrUpdate(ctx, action.Payload)
		if err != nil {
			return outcome, err
		}
		if id, ok := saved.ID(); ok {
			outcome.RemoteID = id
		}
	case ActionArchive:
		if err := w.Archive(ctx, action.Remote); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}
