package xmrest

import (
	"net/http"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building data services.
//
// # Settings
//
// Settings is held by pointer and read on every request, so changes made by
// the embedding application take effect on the next call. When nil,
// GlobalSettings is used.
//
// # Timeouts and retries
//
// Every transport call carries its own timeout (Timeout, 20s by default);
// expiry is reported like any other transport failure. Retries are off unless
// RetryMax is set.
type Config struct {
	// Settings: backend coordinates (base URL, API version, auth header).
	Settings *Settings

	// Optional configurations
	// Timeout: per-request timeout. Zero means the 20s default.
	Timeout time.Duration
	// RetryMax: retries for connection errors, 429 and 5xx. Zero disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and the data
	// services. Failures are silent without one.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Headers: extra headers sent on every request, after the auth header.
	Headers map[string]string
	// Concurrency: maximum number of async operations in flight per service.
	// Zero means unbounded.
	Concurrency int
	// AuthPolicy: decides per method whether the auth header is sent. Nil sends
	// it on every method.
	AuthPolicy AuthPolicy
	// Codec: record serializer. Nil means encoding/json.
	Codec Codec
	// HTTPClient: optional underlying client, e.g. for custom TLS.
	HTTPClient *http.Client
	// Interceptors: optional request/response hooks.
	Interceptors *InterceptorChain
}

// EffectiveSettings returns the configured settings or GlobalSettings.
func (c *Config) EffectiveSettings() *Settings {
	if c == nil || c.Settings == nil {
		return GlobalSettings
	}

	return c.Settings
}
