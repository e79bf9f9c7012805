// Package client implements the generic data service behind xmclient.
package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/xmrest/internal/constants"
	xmhttp "github.com/fivetwenty-io/xmrest/internal/http"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// Static errors for err113 compliance.
var (
	ErrResourceNameInvalid = errors.New("resource name must not contain '?' or '#'")
)

// NewHTTPClient builds the transport described by config.
func NewHTTPClient(config *xmrest.Config) *xmhttp.Client {
	if config == nil {
		return xmhttp.NewClient()
	}

	opts := []xmhttp.Option{
		xmhttp.WithTimeout(config.Timeout),
		xmhttp.WithDebug(config.Debug),
		xmhttp.WithInterceptors(config.Interceptors),
	}

	if config.Logger != nil {
		opts = append(opts, xmhttp.WithLogger(config.Logger))
	}

	if config.UserAgent != "" {
		opts = append(opts, xmhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		opts = append(opts, xmhttp.WithHTTPClient(config.HTTPClient))
	}

	if config.RetryMax > 0 {
		waitMin := config.RetryWaitMin
		if waitMin <= 0 {
			waitMin = constants.DefaultRetryWaitMin
		}

		waitMax := config.RetryWaitMax
		if waitMax <= 0 {
			waitMax = constants.DefaultRetryWaitMax
		}

		opts = append(opts, xmhttp.WithRetryConfig(config.RetryMax, waitMin, waitMax))
	}

	return xmhttp.NewClient(opts...)
}

// Option configures a Service.
type Option func(*options)

type options struct {
	httpClient       *xmhttp.Client
	batchConcurrency int
}

// WithTransport shares an existing transport between services.
func WithTransport(httpClient *xmhttp.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithBatchConcurrency limits concurrent operations in SaveAll and DeleteAll.
func WithBatchConcurrency(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.batchConcurrency = limit
		}
	}
}

func validateResource(resource string) error {
	if resource == "" {
		return xmrest.ErrResourceRequired
	}

	for _, r := range resource {
		if r == '?' || r == '#' {
			return fmt.Errorf("%w: %q", ErrResourceNameInvalid, resource)
		}
	}

	return nil
}

func requestTimeout(config *xmrest.Config) time.Duration {
	if config == nil || config.Timeout <= 0 {
		return constants.DefaultRequestTimeout
	}

	return config.Timeout
}
