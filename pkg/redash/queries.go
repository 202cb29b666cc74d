package redash

import (
	"context"
	"fmt"

	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/logging"
	"github.com/agentstation/redpush/pkg/records"
)

const (
	queriesPath         = "/api/queries"
	archivedQueriesPath = "/api/queries/archive"
)

// ListQueries fetches every query summary. Summaries omit large fields such
// as the SQL text; see FetchAll. With includeArchived the archived queries
// are appended.
func (c *Client) ListQueries(ctx context.Context, includeArchived bool) (records.Collection, error) {
	active, err := c.listPaged(ctx, queriesPath)
	if err != nil {
		return nil, err
	}
	if includeArchived {
		archived, err := c.listPaged(ctx, archivedQueriesPath)
		if err != nil {
			return nil, err
		}
		active = append(active, archived...)
	}
	for _, r := range active {
		liftRedpushID(r)
	}
	logging.FromContext(ctx).Info().
		Int("count", len(active)).
		Bool("include_archived", includeArchived).
		Msg("Listed queries")
	return active, nil
}

// FetchFull fetches the complete definition of a query summary.
func (c *Client) FetchFull(ctx context.Context, summary *records.Record) (*records.Record, error) {
	id, err := requireID(summary, "query")
	if err != nil {
		return nil, err
	}
	full := records.New()
	if err := c.transport.Get(ctx, fmt.Sprintf("%s/%d", queriesPath, id), nil, full); err != nil {
		return nil, err
	}
	liftRedpushID(full)
	return full, nil
}

// FetchAll hydrates every summary, one request each. The result has the
// order of summaries.
func (c *Client) FetchAll(ctx context.Context, summaries records.Collection) (records.Collection, error) {
	full, err := c.hydrate(ctx, summaries, c.FetchFull)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().
		Int("count", len(full)).
		Int("concurrency", c.config.Concurrency).
		Msg("Hydrated queries")
	return full, nil
}

// CreateOrUpdate updates the query when the record carries a positive id
// and creates it otherwise. Only writable fields are sent and the merge key
// travels inside options. The saved record is returned.
func (c *Client) CreateOrUpdate(ctx context.Context, record *records.Record) (*records.Record, error) {
	payload := c.queryPayload(record)

	path := queriesPath
	if id, ok := record.ID(); ok {
		path = fmt.Sprintf("%s/%d", queriesPath, id)
	}

	saved := records.New()
	if err := c.transport.Post(ctx, path, payload, saved); err != nil {
		return nil, err
	}
	liftRedpushID(saved)
	return saved, nil
}

// Archive archives a query. An already archived record, or one the server
// no longer knows, is left alone.
func (c *Client) Archive(ctx context.Context, record *records.Record) error {
	logger := logging.FromContext(ctx)
	if record.IsArchived() {
		logger.Debug().Str("query", record.Label()).Msg("Query already archived")
		return nil
	}
	id, err := requireID(record, "query")
	if err != nil {
		return err
	}
	err = c.transport.Delete(ctx, fmt.Sprintf("%s/%d", queriesPath, id))
	if errors.IsNotFound(err) {
		logger.Warn().Int64("remote_id", id).Msg("Query not found, treating as archived")
		return nil
	}
	return err
}

// queryPayload builds the request body: writable fields in record order,
// with redpush_id lowered into options.
func (c *Client) queryPayload(record *records.Record) *records.Record {
	writable := make(map[string]bool, len(c.config.WritableFields))
	for _, f := range c.config.WritableFields {
		writable[f] = true
	}

	payload := records.New()
	for _, f := range record.Fields() {
		if writable[f.Key] {
			payload.Set(f.Key, f.Value)
		}
	}

	if key, ok := record.RedpushID(); ok {
		options := record.Options().Clone()
		if options == nil {
			options = records.New()
		}
		options.Set(records.FieldRedpushID, key.Value())
		payload.Set(records.FieldOptions, options)
	}
	return payload
}

// liftRedpushID moves options.redpush_id to the top level, unless the
// record already has one there.
func liftRedpushID(r *records.Record) {
	options := r.Options()
	if options == nil {
		return
	}
	v, ok := options.Get(records.FieldRedpushID)
	if !ok {
		return
	}
	options.Delete(records.FieldRedpushID)
	if !r.Has(records.FieldRedpushID) {
		r.Set(records.FieldRedpushID, v)
	}
}

func requireID(r *records.Record, resource string) (int64, error) {
	id, ok := r.ID()
	if !ok {
		return 0, &errors.ValidationError{
			Field:   "id",
			Value:   r.Label(),
			Message: fmt.Sprintf("%s has no remote id", resource),
		}
	}
	return id, nil
}
