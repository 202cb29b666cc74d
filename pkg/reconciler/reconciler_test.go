package reconciler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rperrors "github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/reconciler"
	"github.com/agentstation/redpush/pkg/records"
)

type call struct {
	method string
	record *records.Record
}

// fakeWriter records every call and hands out ids from 100 upwards.
type fakeWriter struct {
	calls  []call
	nextID int64
	failOn int // 1-based call number that fails, 0 never
}

func (f *fakeWriter) CreateOrUpdate(_ context.Context, r *records.Record) (*records.Record, error) {
	f.calls = append(f.calls, call{method: "save", record: r})
	if f.failOn == len(f.calls) {
		return nil, errors.New("boom")
	}
	out := r.Clone()
	if _, ok := out.ID(); !ok {
		f.nextID++
		out.SetID(100 + f.nextID)
	}
	return out, nil
}

func (f *fakeWriter) Archive(_ context.Context, r *records.Record) error {
	f.calls = append(f.calls, call{method: "archive", record: r})
	if f.failOn == len(f.calls) {
		return errors.New("boom")
	}
	return nil
}

func newReconciler(t *testing.T, opts ...reconciler.Option) reconciler.Reconciler {
	t.Helper()
	r, err := reconciler.New(opts...)
	require.NoError(t, err)
	return r
}

func TestPushCreatesWhenAbsent(t *testing.T) {
	r := newReconciler(t)
	local := records.Collection{records.FromPairs("redpush_id", 1, "name", "A", "id", 55)}

	plan, err := r.PlanPush(records.Collection{}, local)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, reconciler.ActionCreate, plan.Actions[0].Type)

	w := &fakeWriter{}
	res, err := r.Apply(context.Background(), w, plan)
	require.NoError(t, err)

	require.Len(t, w.calls, 1)
	assert.Equal(t, "save", w.calls[0].method)
	assert.False(t, w.calls[0].record.Has("id"), "create must not carry a remote id")
	assert.Equal(t, "A", w.calls[0].record.Name())
	assert.Equal(t, int64(101), res.Applied[0].RemoteID)

	// the local record itself is untouched
	assert.True(t, local[0].Has("id"))
}

func TestPushUpdatesWhenPresent(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{records.FromPairs("id", 10, "redpush_id", 1, "name", "A", "updated_at", "x")}
	local := records.Collection{records.FromPairs("redpush_id", 1, "name", "B")}

	plan, err := r.PlanPush(remote, local)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	a := plan.Actions[0]
	assert.Equal(t, reconciler.ActionUpdate, a.Type)
	assert.Equal(t, int64(10), a.RemoteID)
	assert.Equal(t, []string{"name"}, a.Changed)

	w := &fakeWriter{}
	_, err = r.Apply(context.Background(), w, plan)
	require.NoError(t, err)

	require.Len(t, w.calls, 1)
	sent := w.calls[0].record
	id, ok := sent.ID()
	require.True(t, ok)
	assert.Equal(t, int64(10), id)
	assert.Equal(t, "B", sent.Name())
	assert.False(t, sent.Has("updated_at"), "remote-only fields are not sent")
}

func TestPushUnchangedIssuesNoCall(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{records.FromPairs(
		"id", 10, "redpush_id", 1, "name", "A",
		"options", records.FromPairs("redpush_id", 1, "parameters", []any{}),
	)}
	local := records.Collection{records.FromPairs(
		"redpush_id", 1, "name", "A", "id", 999,
		"options", records.FromPairs("parameters", []any{}),
	)}

	plan, err := r.PlanPush(remote, local)
	require.NoError(t, err)
	assert.Equal(t, reconciler.ActionUnchanged, plan.Actions[0].Type)
	assert.False(t, plan.HasChanges())

	w := &fakeWriter{}
	res, err := r.Apply(context.Background(), w, plan)
	require.NoError(t, err)
	assert.Empty(t, w.calls)
	assert.Equal(t, "No changes", res.String())
}

func TestPushLeavesRemoteOnlyRecordsAlone(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{
		records.FromPairs("id", 10, "redpush_id", 1, "name", "A"),
		records.FromPairs("id", 11, "redpush_id", 2, "name", "only remote"),
	}
	local := records.Collection{
		records.FromPairs("redpush_id", 1, "name", "A2"),
		records.FromPairs("name", "no key"),
	}

	plan, err := r.PlanPush(remote, local)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 2)
	assert.Equal(t, reconciler.ActionUpdate, plan.Actions[0].Type)
	assert.Equal(t, reconciler.ActionCreate, plan.Actions[1].Type)
	assert.False(t, plan.Actions[1].HasKey)

	s := plan.Summary()
	assert.Equal(t, 1, s.Created)
	assert.Equal(t, 1, s.Updated)
	assert.Equal(t, 0, s.Archived)
}

func TestPushEmptyLocalIsNoop(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{records.FromPairs("id", 10, "redpush_id", 1)}

	plan, err := r.PlanPush(remote, records.Collection{})
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)
	assert.False(t, plan.Destructive)
}

func TestArchiveOnlyRemovesUnmatched(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{
		records.FromPairs("id", 10, "redpush_id", 1),
		records.FromPairs("id", 11, "redpush_id", 2),
	}
	local := records.Collection{records.FromPairs("redpush_id", 1)}

	plan, err := r.PlanArchive(remote, local)
	require.NoError(t, err)
	assert.False(t, plan.Destructive)

	w := &fakeWriter{}
	_, err = r.Apply(context.Background(), w, plan)
	require.NoError(t, err)

	require.Len(t, w.calls, 1)
	assert.Equal(t, "archive", w.calls[0].method)
	id, _ := w.calls[0].record.ID()
	assert.Equal(t, int64(11), id)
}

func TestArchiveSkipsUnmanagedAndReportsReintroduced(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{
		records.FromPairs("id", 10, "name", "hand made"),
		records.FromPairs("id", 11, "redpush_id", "back", "is_archived", true),
		records.FromPairs("id", 12, "redpush_id", "gone", "is_archived", true),
	}
	local := records.Collection{records.FromPairs("redpush_id", "back")}

	plan, err := r.PlanArchive(remote, local)
	require.NoError(t, err)

	types := make([]reconciler.ActionType, len(plan.Actions))
	for i, a := range plan.Actions {
		types[i] = a.Type
	}
	assert.Equal(t, []reconciler.ActionType{
		reconciler.ActionSkip,
		reconciler.ActionReintroduced,
		reconciler.ActionArchive,
	}, types)

	pending := plan.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(12), pending[0].RemoteID)
}

func TestEmptyLocalArchiveIsAllDestructive(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{
		records.FromPairs("id", 10, "redpush_id", 1),
		records.FromPairs("id", 11, "redpush_id", 2),
		records.FromPairs("id", 12, "redpush_id", "three"),
	}

	plan, err := r.PlanArchive(remote, records.Collection{})
	require.NoError(t, err)
	assert.True(t, plan.Destructive)

	w := &fakeWriter{}
	res, err := r.Apply(context.Background(), w, plan)
	require.NoError(t, err)

	require.Len(t, w.calls, 3)
	for i, c := range w.calls {
		assert.Equal(t, "archive", c.method)
		id, _ := c.record.ID()
		assert.Equal(t, int64(10+i), id)
	}
	assert.Equal(t, 3, res.Summary().Archived)
}

func TestDuplicateRedpushIDFails(t *testing.T) {
	r := newReconciler(t)
	dup := records.Collection{
		records.FromPairs("id", 1, "redpush_id", 1),
		records.FromPairs("id", 2, "redpush_id", 1),
	}
	one := records.Collection{records.FromPairs("redpush_id", 1)}

	tests := []struct {
		name string
		run  func() error
	}{
		{"push remote", func() error { _, err := r.PlanPush(dup, one); return err }},
		{"push local", func() error { _, err := r.PlanPush(one, dup); return err }},
		{"archive remote", func() error { _, err := r.PlanArchive(dup, one); return err }},
		{"archive local", func() error { _, err := r.PlanArchive(one, dup); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, rperrors.IsIntegrity(err))
		})
	}
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	r := newReconciler(t)
	local := records.Collection{}
	for i := 1; i <= 4; i++ {
		local = append(local, records.FromPairs("redpush_id", i, "name", fmt.Sprintf("q%d", i)))
	}
	plan, err := r.PlanPush(records.Collection{}, local)
	require.NoError(t, err)

	w := &fakeWriter{failOn: 3}
	res, err := r.Apply(context.Background(), w, plan)
	require.Error(t, err)

	var re *rperrors.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "create", re.Operation)
	assert.Equal(t, "query", re.Resource)

	assert.Len(t, w.calls, 3)
	assert.Len(t, res.Applied, 2)
	require.NotNil(t, res.Failed)
	assert.Equal(t, "q3", res.Failed.Action.Name())
	assert.Equal(t, 1, res.NotAttempted)
	assert.False(t, res.IsSuccess())
	assert.Contains(t, res.String(), "2 created")
}

func TestApplyDryRun(t *testing.T) {
	r := newReconciler(t, reconciler.WithDryRun(true))
	plan, err := r.PlanArchive(records.Collection{records.FromPairs("id", 3, "redpush_id", 9)}, nil)
	require.NoError(t, err)

	w := &fakeWriter{}
	res, err := r.Apply(context.Background(), w, plan)
	require.NoError(t, err)
	assert.Empty(t, w.calls)
	assert.True(t, res.DryRun)
	assert.Equal(t, "Dry run: 1 archived", res.String())
}

func TestApplyHonorsCancellation(t *testing.T) {
	r := newReconciler(t)
	plan, err := r.PlanPush(nil, records.Collection{records.FromPairs("redpush_id", 1)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &fakeWriter{}
	res, err := r.Apply(ctx, w, plan)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.calls)
	assert.NotNil(t, res.Failed)
}

func TestIgnoredFields(t *testing.T) {
	r := newReconciler(t, reconciler.WithIgnoredFields("updated_at"))
	remote := records.Collection{records.FromPairs("id", 1, "redpush_id", 1, "updated_at", "new")}
	local := records.Collection{records.FromPairs("redpush_id", 1, "updated_at", "old")}

	plan, err := r.PlanPush(remote, local)
	require.NoError(t, err)
	assert.Equal(t, reconciler.ActionUnchanged, plan.Actions[0].Type)
}

func TestOptionsValidation(t *testing.T) {
	_, err := reconciler.New(reconciler.WithResource(""))
	assert.True(t, rperrors.IsValidationError(err))
}

func TestPushUpdateKeepsRemoteOnlyOptions(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{records.FromPairs(
		"id", 10, "redpush_id", 1, "name", "A",
		"options", records.FromPairs("parameters", []any{"p1"}, "apply_auto_limit", true),
	)}

	tests := []struct {
		name  string
		local *records.Record
		want  *records.Record
	}{
		{
			name:  "no local options",
			local: records.FromPairs("redpush_id", 1, "name", "B"),
			want:  records.FromPairs("parameters", []any{"p1"}, "apply_auto_limit", true),
		},
		{
			name: "local options win",
			local: records.FromPairs("redpush_id", 1, "name", "B",
				"options", records.FromPairs("apply_auto_limit", false, "refresh", 60)),
			want: records.FromPairs("parameters", []any{"p1"}, "apply_auto_limit", false, "refresh", 60),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := r.PlanPush(remote, records.Collection{tt.local})
			require.NoError(t, err)
			require.Len(t, plan.Actions, 1)
			require.Equal(t, reconciler.ActionUpdate, plan.Actions[0].Type)

			w := &fakeWriter{}
			_, err = r.Apply(context.Background(), w, plan)
			require.NoError(t, err)

			require.Len(t, w.calls, 1)
			sent := w.calls[0].record
			assert.True(t, tt.want.Equal(sent.Options()), "got %v", sent.Options())
		})
	}
}

func TestArchiveIgnoresArchivedCopiesOfActiveQueries(t *testing.T) {
	r := newReconciler(t)
	local := records.Collection{records.FromPairs("redpush_id", 5, "name", "back")}
	archived := records.FromPairs("id", 10, "redpush_id", 5, "is_archived", true)

	// before the push the archived query is reported
	plan, err := r.PlanArchive(records.Collection{archived}, local)
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, reconciler.ActionReintroduced, plan.Actions[0].Type)

	// push only sees active queries and creates a new one
	pushPlan, err := r.PlanPush(records.Collection{}, local)
	require.NoError(t, err)
	require.Len(t, pushPlan.Actions, 1)
	assert.Equal(t, reconciler.ActionCreate, pushPlan.Actions[0].Type)

	created := records.FromPairs("id", 20, "redpush_id", 5, "name", "back")
	archivedAgain := records.FromPairs("id", 30, "redpush_id", 5, "is_archived", true)
	remote := records.Collection{created, archived, archivedAgain}

	plan, err = r.PlanArchive(remote, local)
	require.NoError(t, err)
	assert.Empty(t, plan.Actions)

	plan, err = r.PlanArchive(remote, records.Collection{})
	require.NoError(t, err)
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, reconciler.ActionArchive, plan.Actions[0].Type)
	assert.Equal(t, int64(20), plan.Actions[0].RemoteID)
}

func TestArchiveFailsOnDuplicateActiveQueries(t *testing.T) {
	r := newReconciler(t)
	remote := records.Collection{
		records.FromPairs("id", 10, "redpush_id", 5, "is_archived", true),
		records.FromPairs("id", 20, "redpush_id", 5),
		records.FromPairs("id", 21, "redpush_id", 5),
	}

	_, err := r.PlanArchive(remote, records.Collection{})
	require.Error(t, err)
	assert.True(t, rperrors.IsIntegrity(err))
}
