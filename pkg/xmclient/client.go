// Package xmclient provides the main entry point for creating data services
package xmclient

import (
	"fmt"

	"github.com/fivetwenty-io/xmrest/internal/client"
	xmhttp "github.com/fivetwenty-io/xmrest/internal/http"
	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// Client holds one backend configuration and the transport shared by every
// data service created from it.
type Client struct {
	config    *xmrest.Config
	transport *xmhttp.Client
}

// New validates config and creates a client. Settings left nil resolve to
// xmrest.GlobalSettings on every call.
func New(config *xmrest.Config) (*Client, error) {
	if config == nil {
		return nil, xmrest.ErrConfigRequired
	}

	err := config.EffectiveSettings().Validate()
	if err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	return &Client{
		config:    config,
		transport: client.NewHTTPClient(config),
	}, nil
}

// NewWithBaseURL creates a client for baseURL with default settings and no
// authentication.
func NewWithBaseURL(baseURL string) (*Client, error) {
	settings := xmrest.DefaultSettings()
	settings.BaseURL = baseURL

	return New(&xmrest.Config{Settings: settings})
}

// NewWithToken creates a client for baseURL sending "Bearer {token}" in the
// Authorization header.
func NewWithToken(baseURL, token string) (*Client, error) {
	return NewWithAuthHeader(baseURL, xmrest.DefaultAuthHeaderName, "Bearer "+token)
}

// NewWithAuthHeader creates a client for baseURL sending value in the header
// called name.
func NewWithAuthHeader(baseURL, name, value string) (*Client, error) {
	settings := xmrest.DefaultSettings()
	settings.BaseURL = baseURL
	settings.AuthHeaderName = name
	settings.AuthHeaderValue = value

	return New(&xmrest.Config{Settings: settings})
}

// Config returns the client configuration.
func (c *Client) Config() *xmrest.Config {
	return c.config
}

// Settings returns the settings the client reads on every call. Changes made
// through the returned pointer apply to the next request.
func (c *Client) Settings() *xmrest.Settings {
	return c.config.EffectiveSettings()
}

// Resource creates the data service for the named resource. The record type T
// is usually a pointer to a struct whose identifier has type ID.
func Resource[T xmrest.Model[ID], ID comparable](c *Client, name string) (xmrest.DataService[T, ID], error) {
	service, err := client.New[T, ID](name, c.config, client.WithTransport(c.transport))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource service: %w", err)
	}

	return service, nil
}

// MustResource is like Resource but panics on an invalid resource name.
func MustResource[T xmrest.Model[ID], ID comparable](c *Client, name string) xmrest.DataService[T, ID] {
	service, err := Resource[T, ID](c, name)
	if err != nil {
		panic(err)
	}

	return service
}
