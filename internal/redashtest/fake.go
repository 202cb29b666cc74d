// Package redashtest provides an in-memory Redash for tests.
package redashtest

import (
	"context"
	"sync"

	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
)

// Fake is an in-memory Redash that records every write. It satisfies
// redpush.Remote. Archive moves a query from Queries to Archived.
type Fake struct {
	mu sync.Mutex

	Queries    records.Collection
	Archived   records.Collection
	Dashboards records.Collection

	// NextID is the last id handed out; creates get NextID+1.
	NextID int64

	Saved   records.Collection
	Removed []int64
	Users   records.Collection

	// FailUser makes CreateUser fail for the user with this name.
	FailUser string
	// FailSave makes CreateOrUpdate fail for the record with this name.
	FailSave string
}

// New creates a Fake holding queries.
func New(queries ...*records.Record) *Fake {
	return &Fake{Queries: queries, NextID: 500}
}

// Query builds a query record. A nil redpushID leaves the key out.
func Query(id int64, redpushID any, name, sql string) *records.Record {
	r := records.FromPairs(records.FieldID, id, records.FieldName, name, "query", sql)
	if redpushID != nil {
		r.Set(records.FieldRedpushID, redpushID)
	}
	return r
}

// ListQueries returns the active queries, plus archived ones on request.
func (f *Fake) ListQueries(_ context.Context, includeArchived bool) (records.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.Queries.Clone()
	if includeArchived {
		out = append(out, f.Archived.Clone()...)
	}
	return out, nil
}

// FetchAll returns copies of summaries.
func (f *Fake) FetchAll(_ context.Context, summaries records.Collection) (records.Collection, error) {
	return summaries.Clone(), nil
}

// CreateOrUpdate stores the record, assigning an id on create. The saved
// record becomes, or replaces, the active query with its id.
func (f *Fake) CreateOrUpdate(_ context.Context, rec *records.Record) (*records.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSave != "" && rec.Name() == f.FailSave {
		return nil, errors.NewRemoteError("POST", "/api/queries", 500, "internal server error")
	}
	saved := rec.Clone()
	id, ok := saved.ID()
	if !ok {
		f.NextID++
		id = f.NextID
		saved.SetID(id)
	}
	f.Saved = append(f.Saved, saved)

	replaced := false
	for i, q := range f.Queries {
		if qid, _ := q.ID(); qid == id {
			f.Queries[i] = saved.Clone()
			replaced = true
		}
	}
	if !replaced {
		f.Queries = append(f.Queries, saved.Clone())
	}
	return saved, nil
}

// Archive records the id and flags the stored query as archived.
func (f *Fake) Archive(_ context.Context, rec *records.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, _ := rec.ID()
	f.Removed = append(f.Removed, id)

	kept := f.Queries[:0:0]
	for _, q := range f.Queries {
		if qid, _ := q.ID(); qid == id {
			archived := q.Clone()
			archived.Set(records.FieldIsArchived, true)
			f.Archived = append(f.Archived, archived)
			continue
		}
		kept = append(kept, q)
	}
	f.Queries = kept
	return nil
}

// ListDashboards returns the dashboard summaries.
func (f *Fake) ListDashboards(context.Context) (records.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Dashboards.Clone(), nil
}

// FetchAllDashboards returns copies of summaries with an empty widget list.
func (f *Fake) FetchAllDashboards(_ context.Context, summaries records.Collection) (records.Collection, error) {
	out := summaries.Clone()
	for _, d := range out {
		d.Set("widgets", []any{})
	}
	return out, nil
}

// CreateUser stores the user with a sequential id.
func (f *Fake) CreateUser(_ context.Context, user *records.Record) (*records.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUser != "" && user.Name() == f.FailUser {
		return nil, errors.NewRemoteError("POST", "/api/users", 400, "email already taken")
	}
	created := user.Clone()
	created.SetID(int64(len(f.Users) + 1))
	f.Users = append(f.Users, created)
	return created, nil
}
