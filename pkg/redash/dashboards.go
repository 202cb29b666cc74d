package redash

import (
	"context"
	"fmt"
	"net/url"

	"github.com/agentstation/redpush/pkg/logging"
	"github.com/agentstation/redpush/pkg/records"
)

const (
	dashboardsPath = "/api/dashboards"
	usersPath      = "/api/users"
)

// ListDashboards fetches every dashboard summary.
func (c *Client) ListDashboards(ctx context.Context) (records.Collection, error) {
	out, err := c.listPaged(ctx, dashboardsPath)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Int("count", len(out)).Msg("Listed dashboards")
	return out, nil
}

// FetchDashboard fetches the full definition of a dashboard, widgets
// included. Dashboards are addressed by slug, falling back to the id.
func (c *Client) FetchDashboard(ctx context.Context, summary *records.Record) (*records.Record, error) {
	ref := summary.Slug()
	if ref == "" {
		id, err := requireID(summary, "dashboard")
		if err != nil {
			return nil, err
		}
		ref = fmt.Sprint(id)
	}
	full := records.New()
	if err := c.transport.Get(ctx, dashboardsPath+"/"+url.PathEscape(ref), nil, full); err != nil {
		return nil, err
	}
	return full, nil
}

// FetchAllDashboards hydrates every dashboard summary in order.
func (c *Client) FetchAllDashboards(ctx context.Context, summaries records.Collection) (records.Collection, error) {
	full, err := c.hydrate(ctx, summaries, c.FetchDashboard)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Int("count", len(full)).Msg("Hydrated dashboards")
	return full, nil
}

// CreateUser creates (invites) a user from a record holding name and email.
func (c *Client) CreateUser(ctx context.Context, user *records.Record) (*records.Record, error) {
	payload := records.New()
	for _, key := range []string{"name", "email"} {
		if v, ok := user.Get(key); ok {
			payload.Set(key, v)
		}
	}

	created := records.New()
	if err := c.transport.Post(ctx, usersPath, payload, created); err != nil {
		return nil, err
	}
	return created, nil
}
