package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become RemoteError carrying the (truncated) body.
func DecodeResponse(ctx context.Context, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > constants.MaxErrorBodySize {
			body = body[:constants.MaxErrorBodySize]
		}
		return errors.NewRemoteError(resp.Request.Method, redact(resp.Request.URL), resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return errors.WrapParse("json", resp.Request.URL.Path, err)
	}
	return nil
}
