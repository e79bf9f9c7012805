// Package http is the transport used by data services: a thin JSON layer over
// go-retryablehttp with per-request timeouts, interceptors and debug logging.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// Logger is the logging contract of the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client sends JSON requests to absolute URLs.
type Client struct {
	client       *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	timeout      time.Duration
	interceptors *xmrest.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug and retry logging.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables retries on connection errors, 429 and 5xx.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.client.RetryMax = retryMax
		c.client.RetryWaitMin = waitMin
		c.client.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client.HTTPClient = httpClient
		}
	}
}

// WithInterceptors installs request/response interceptors.
func WithInterceptors(chain *xmrest.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// Request is a single JSON request. Body may be nil, raw JSON bytes, or a
// value to be marshaled.
type Request struct {
	Method  string
	URL     string
	Body    interface{}
	Headers map[string]string
	Timeout time.Duration
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NewClient creates a transport. Retries are disabled unless WithRetryConfig
// is given.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		client:    retryClient,
		userAgent: constants.DefaultUserAgent,
		timeout:   constants.DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	retryClient.RequestLogHook = c.logRetry

	return c
}

// Do executes req. A transport failure returns a nil response and a
// KindTransport error; a non-2xx status returns the response together with a
// KindServer (or KindNotFound for 404) error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindParse, "", fmt.Errorf("encoding request body: %w", err))
	}

	intercepted := &xmrest.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: c.buildHeaders(req, body != nil),
		Body:    body,
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindTransport, "", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": intercepted.Method,
			"url":    intercepted.URL,
		})
	}

	response, err := c.send(ctx, intercepted)

	observed := &xmrest.Response{Error: err}
	if response != nil {
		observed.StatusCode = response.StatusCode
		observed.Headers = response.Headers
		observed.Body = response.Body
	}

	interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, observed)

	if c.debug && c.logger != nil {
		fields := map[string]interface{}{
			"method": intercepted.Method,
			"url":    intercepted.URL,
		}
		if response != nil {
			fields["status_code"] = response.StatusCode
		}
		if err != nil {
			fields["error"] = err.Error()
		}

		c.logger.Debug("HTTP Response", fields)
	}

	if err != nil {
		return response, err
	}

	if interceptErr != nil {
		return response, xmrest.NewError(xmrest.KindTransport, "", interceptErr)
	}

	return response, nil
}

func (c *Client) send(ctx context.Context, intercepted *xmrest.Request) (*Response, error) {
	var rawBody interface{}
	if intercepted.Body != nil {
		rawBody = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, intercepted.Method, intercepted.URL, rawBody)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindTransport, "", fmt.Errorf("creating request: %w", err))
	}

	httpReq.Header = intercepted.Headers

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindTransport, "", fmt.Errorf("sending request: %w", err))
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xmrest.NewError(xmrest.KindTransport, "", fmt.Errorf("reading response body: %w", err))
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	if resp.StatusCode < constants.HTTPStatusSuccessMin || resp.StatusCode >= constants.HTTPStatusSuccessMax {
		return response, xmrest.NewStatusError("", resp.StatusCode)
	}

	return response, nil
}

func (c *Client) buildHeaders(req *Request, hasBody bool) http.Header {
	headers := make(http.Header)
	headers.Set(constants.HeaderAccept, constants.MediaTypeJSON)

	if c.userAgent != "" {
		headers.Set(constants.HeaderUserAgent, c.userAgent)
	}

	if hasBody {
		headers.Set(constants.HeaderContentType, constants.MediaTypeJSON)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers
}

func (c *Client) logRetry(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if attempt == 0 || c.logger == nil {
		return
	}

	c.logger.Warn("HTTP Retry", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"attempt": attempt,
	})
}

func encodeBody(body interface{}) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case json.RawMessage:
		return value, nil
	case string:
		return []byte(value), nil
	default:
		return json.Marshal(value)
	}
}
