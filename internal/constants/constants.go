package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultRequestTimeout bounds every transport call.
	DefaultRequestTimeout = 20 * time.Second

	// ShortHTTPTimeout is used for quick operations such as ping.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry and concurrency limits.
const (
	// DefaultRetryMax is the number of retries when none is configured. Retries
	// are opt-in.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// DefaultBatchConcurrency limits concurrent operations in a batch.
	DefaultBatchConcurrency = 5
)

// HTTP headers and media types.
const (
	// HeaderAccept is the Accept header name.
	HeaderAccept = "Accept"

	// HeaderContentType is the Content-Type header name.
	HeaderContentType = "Content-Type"

	// HeaderUserAgent is the User-Agent header name.
	HeaderUserAgent = "User-Agent"

	// MediaTypeJSON is the JSON media type sent with request bodies.
	MediaTypeJSON = "application/json"

	// MediaTypeJSONUTF8 is the JSON media type with explicit charset.
	MediaTypeJSONUTF8 = "application/json; charset=utf-8"

	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "xmrest-go/1.0"
)

// HTTP status code bounds.
const (
	// HTTPStatusSuccessMin is the first success status code.
	HTTPStatusSuccessMin = 200

	// HTTPStatusSuccessMax is one past the last success status code.
	HTTPStatusSuccessMax = 300
)

// Configuration keys and environment.
const (
	// EnvPrefix prefixes environment variables read by the config loader.
	EnvPrefix = "XMREST"

	// ConfigDirName is the directory under $HOME holding config.yml.
	ConfigDirName = ".xmrest"

	// ConfigFileName is the config file base name.
	ConfigFileName = "config"

	// ConfigFileType is the config file format.
	ConfigFileType = "yml"

	// DotEnvFile is loaded when present in the working directory.
	DotEnvFile = ".env"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// Logging defaults.
const (
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultLogFormat is used when no format is configured.
	DefaultLogFormat = "console"
)
