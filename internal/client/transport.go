package client

import (
	"context"
	"net/http"
	"time"

	xmhttp "github.com/fivetwenty-io/xmrest/internal/http"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// transport turns HTTP exchanges into Result envelopes.
type transport struct {
	client  *xmhttp.Client
	config  *xmrest.Config
	policy  xmrest.AuthPolicy
	headers map[string]string
	timeout time.Duration
}

// send issues one request. The returned Result is never nil. A transport
// failure yields an Error envelope carrying the failure text and no body; a
// non-2xx status yields an Error envelope with an empty message and the
// response body. The error, when non-nil, is a *xmrest.Error.
func (t *transport) send(ctx context.Context, method, target string, body []byte) (*xmrest.Result, error) {
	req := &xmhttp.Request{
		Method:  method,
		URL:     target,
		Headers: t.requestHeaders(method),
		Timeout: t.timeout,
	}

	if body != nil {
		req.Body = body
	}

	resp, err := t.client.Do(ctx, req)
	if err != nil {
		if resp == nil {
			return xmrest.NewErrorResult(err.Error(), ""), err
		}

		return xmrest.NewErrorResult("", string(resp.Body)), err
	}

	return xmrest.NewSuccessResult(string(resp.Body)), nil
}

// requestHeaders returns the auth header, when configured and allowed for
// method, followed by the extra headers. Names are canonicalized so an extra
// header replaces a same-named auth header.
func (t *transport) requestHeaders(method string) map[string]string {
	settings := t.config.EffectiveSettings()
	headers := make(map[string]string, len(t.headers)+1)

	if settings.AuthHeaderValue != "" && t.policy(method) {
		headers[http.CanonicalHeaderKey(settings.HeaderName())] = settings.AuthHeaderValue
	}

	for name, value := range t.headers {
		headers[http.CanonicalHeaderKey(name)] = value
	}

	return headers
}
