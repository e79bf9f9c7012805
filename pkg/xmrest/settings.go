package xmrest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NoVersion disables the "/v{n}" segment in request URLs.
const NoVersion = -1

// NoPage means no page parameter is sent with collection requests.
const NoPage = -1

// Default settings values.
const (
	DefaultBaseURL        = "http://localhost:8080/"
	DefaultAPIVersion     = 1
	DefaultAuthHeaderName = "Authorization"
	DefaultPageParameter  = "page"
)

// Settings holds the backend coordinates every data service reads on each call.
//
// A Settings value is read without locking. Mutate it before issuing requests;
// concurrent mutation while calls are in flight is a race the client does not
// guard against (last write wins).
type Settings struct {
	// BaseURL is the absolute http(s) root of the backend, e.g. "http://host/".
	// A trailing slash is optional; the URL builder normalizes it.
	BaseURL string `json:"base_url" mapstructure:"base_url" validate:"required,url" yaml:"base_url"`
	// APIVersion is injected as "/v{n}" after "api" unless it equals NoVersion.
	APIVersion int `json:"api_version" mapstructure:"api_version" validate:"gte=-1" yaml:"api_version"`
	// AuthHeaderName is the header carrying AuthHeaderValue.
	AuthHeaderName string `json:"auth_header_name" mapstructure:"auth_header_name" yaml:"auth_header_name"`
	// AuthHeaderValue is sent only when non-empty.
	AuthHeaderValue string `json:"-" mapstructure:"auth_header_value" yaml:"-"`
	// PageParameter names the query parameter used for paged collection reads.
	PageParameter string `json:"page_parameter" mapstructure:"page_parameter" yaml:"page_parameter"`
}

// GlobalSettings is the process-wide fallback used by data services created
// without explicit settings. It has no synchronization.
var GlobalSettings = DefaultSettings()

// DefaultSettings returns settings initialized to the package defaults.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:        DefaultBaseURL,
		APIVersion:     DefaultAPIVersion,
		AuthHeaderName: DefaultAuthHeaderName,
		PageParameter:  DefaultPageParameter,
	}
}

// Clone returns a copy of s, or the defaults when s is nil.
func (s *Settings) Clone() Settings {
	if s == nil {
		return *DefaultSettings()
	}

	return *s
}

// HeaderName returns the auth header name, falling back to the default.
func (s Settings) HeaderName() string {
	if s.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}

	return s.AuthHeaderName
}

// PageParam returns the page query parameter name, falling back to the default.
func (s Settings) PageParam() string {
	if s.PageParameter == "" {
		return DefaultPageParameter
	}

	return s.PageParameter
}

// Versioned reports whether the version segment is injected into URLs.
func (s Settings) Versioned() bool {
	return s.APIVersion != NoVersion
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the base URL is an absolute http(s) URL and the version
// is either NoVersion or non-negative.
func (s *Settings) Validate() error {
	if s == nil {
		return ErrSettingsRequired
	}

	err := settingsValidator.Struct(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	parsed, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base_url: %w", ErrInvalidSettings, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: base_url must use http or https scheme, got: %q", ErrInvalidSettings, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, ErrNoHostInURL)
	}

	return nil
}
