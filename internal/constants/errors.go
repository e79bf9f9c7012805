package constants

import "errors"

// Configuration errors.
var (
	ErrConfigFileRead     = errors.New("failed to read config file")
	ErrConfigDecode       = errors.New("failed to decode configuration")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidOutput      = errors.New("invalid output format")
	ErrNegativeTimeout    = errors.New("timeout must not be negative")
	ErrNegativeRetryMax   = errors.New("retry_max must not be negative")
	ErrNegativeConcurrent = errors.New("concurrency must not be negative")
)

// Command errors.
var (
	ErrResourceNameRequired = errors.New("resource name is required")
	ErrIDRequired           = errors.New("identifier is required")
	ErrInvalidWhereClause   = errors.New("invalid --where clause, expected field=value")
	ErrNoPayload            = errors.New("no payload given, use --file or --data")
	ErrInvalidPayload       = errors.New("payload must be a JSON object or array of objects")
	ErrItemNotFound         = errors.New("item not found")
	ErrSaveFailed           = errors.New("save failed")
	ErrDeleteFailed         = errors.New("delete failed")
	ErrCountFailed          = errors.New("count failed")
	ErrPingFailed           = errors.New("ping failed")
)
