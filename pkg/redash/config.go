package redash

import (
	"fmt"
	"time"

	"github.com/agentstation/redpush/internal/transport"
	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/errors"
)

// DefaultWritableFields are the query fields sent on create and update.
// Everything else a dump carries (id, version, timestamps, user, ...) is
// managed by the server. version in particular is left out: Redash rejects
// an update whose version differs from the stored one.
var DefaultWritableFields = []string{
	"name",
	"description",
	"query",
	"data_source_id",
	"options",
	"schedule",
	"tags",
	"is_draft",
}

// Config is the explicit configuration of a Client.
type Config struct {
	URL    string
	APIKey string
	// AuthScheme is "key" (Authorization header, default), "query"
	// (api_key parameter) or "none".
	AuthScheme string

	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// PageSize is the page size used on list endpoints.
	PageSize int
	// Concurrency bounds the hydration fan-out. 1 is sequential.
	Concurrency int

	// WritableFields overrides DefaultWritableFields.
	WritableFields []string
}

// withDefaults fills unset values.
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultHTTPTimeout
	}
	if c.PageSize <= 0 || c.PageSize > constants.MaxPageSize {
		c.PageSize = constants.DefaultPageSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = constants.DefaultConcurrency
	}
	if c.Concurrency > constants.MaxConcurrency {
		c.Concurrency = constants.MaxConcurrency
	}
	if len(c.WritableFields) == 0 {
		c.WritableFields = DefaultWritableFields
	}
	return c
}

// Validate checks that the configuration can reach a server.
func (c Config) Validate() error {
	if c.URL == "" {
		return &errors.ValidationError{
			Field:   "redash_url",
			Message: fmt.Sprintf("is required (flag --redash-url or $%s)", constants.EnvRedashURL),
		}
	}
	if c.APIKey == "" && c.AuthScheme != transport.SchemeNone {
		return fmt.Errorf("%w (flag --api-key or $%s)", errors.ErrAPIKeyRequired, constants.EnvRedashKey)
	}
	return nil
}
