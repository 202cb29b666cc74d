// Package redash is a client for the parts of the Redash REST API that
// redpush synchronizes: queries, dashboards and users.
//
// Every record crossing the client is a records.Record, so arbitrary fields
// the server returns survive a dump/push round trip. Redash only persists
// known query fields, so the merge key is stored remotely inside the query
// options: it is lowered into options.redpush_id on write and lifted back to
// the top-level redpush_id on read.
//
// The client never retries. Hydration issues one request per record, either
// sequentially or through a bounded fan-out, and always returns records in
// input order.
package redash

import (
	"context"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/redpush/internal/transport"
	"github.com/agentstation/redpush/pkg/logging"
	"github.com/agentstation/redpush/pkg/records"
)

// Client talks to one Redash instance.
type Client struct {
	config    Config
	transport *transport.Client
}

// New creates a client from an explicit configuration.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	tc, err := transport.New(cfg.URL, cfg.APIKey, transport.ForScheme(cfg.AuthScheme), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{config: cfg, transport: tc}, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// page is the envelope of paginated list endpoints.
type page struct {
	Count    int                `json:"count"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Results  records.Collection `json:"results"`
}

// listPaged walks a paginated endpoint until count records were seen or a
// page comes back empty.
func (c *Client) listPaged(ctx context.Context, path string) (records.Collection, error) {
	logger := logging.FromContext(ctx)
	out := records.Collection{}
	for n := 1; ; n++ {
		var p page
		query := url.Values{
			"page":      {strconv.Itoa(n)},
			"page_size": {strconv.Itoa(c.config.PageSize)},
		}
		if err := c.transport.Get(ctx, path, query, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		logger.Debug().
			Str("path", path).
			Int("page", n).
			Int("received", len(out)).
			Int("count", p.Count).
			Msg("Fetched page")

		if len(p.Results) == 0 || len(out) >= p.Count {
			return out, nil
		}
	}
}

// hydrate runs fetch for every record with at most Concurrency requests in
// flight and keeps input order.
func (c *Client) hydrate(ctx context.Context, summaries records.Collection, fetch func(context.Context, *records.Record) (*records.Record, error)) (records.Collection, error) {
	out := make(records.Collection, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Concurrency)

	for i, summary := range summaries {
		g.Go(func() error {
			full, err := fetch(gctx, summary)
			if err != nil {
				return err
			}
			out[i] = full
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
