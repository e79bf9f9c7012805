package xmrest

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a data service operation failed.
type ErrorKind int

const (
	// KindTransport is a network failure: connection refused, DNS, timeout.
	KindTransport ErrorKind = iota + 1
	// KindServer is a non-2xx response.
	KindServer
	// KindParse is a malformed or unexpected response body, or a request body
	// that could not be encoded.
	KindParse
	// KindNotFound is an empty lookup result.
	KindNotFound
	// KindInvalidInput is a zero identifier where one is required.
	KindInvalidInput
	// KindInternal is a recovered panic inside an operation.
	KindInternal
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a classified data service failure.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Op names the operation that failed, e.g. "get", "save".
	Op string
	// StatusCode is the HTTP status code, 0 when no response was received.
	StatusCode int
	// Message describes the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := e.Kind.String()
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}

	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", prefix, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error wrapping err.
func NewError(kind ErrorKind, op string, err error) *Error {
	msg := kind.String()
	if err != nil {
		msg = err.Error()
	}

	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

// NewStatusError builds a KindServer error for a non-2xx response, or
// KindNotFound for 404.
func NewStatusError(op string, statusCode int) *Error {
	kind := KindServer
	if statusCode == 404 {
		kind = KindNotFound
	}

	return &Error{
		Kind:       kind,
		Op:         op,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Err:        ErrUnsuccessfulStatus,
	}
}

// Common static errors that can be wrapped with context.
var (
	ErrSettingsRequired   = errors.New("settings are required")
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrNoHostInURL        = errors.New("no host specified in URL")
	ErrConfigRequired     = errors.New("config is required")
	ErrResourceRequired   = errors.New("resource name is required")
	ErrEmptyIdentifier    = errors.New("identifier is empty")
	ErrNoMatch            = errors.New("no item matches the predicate")
	ErrEmptyBody          = errors.New("response body is empty")
	ErrUnsuccessfulStatus = errors.New("unsuccessful status code")
	ErrNilItem            = errors.New("item is nil")
	ErrTaskPanicked       = errors.New("operation panicked")
)

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	e := &Error{}
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsTransport checks if the error is a network-level failure.
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

// IsServer checks if the error is a non-2xx, non-404 response.
func IsServer(err error) bool {
	return KindOf(err) == KindServer
}

// IsParse checks if the error is a serialization failure.
func IsParse(err error) bool {
	return KindOf(err) == KindParse
}

// IsInvalidInput checks if the error is an invalid input error.
func IsInvalidInput(err error) bool {
	return KindOf(err) == KindInvalidInput
}

// StatusCode returns the HTTP status code carried by err, or 0.
func StatusCode(err error) int {
	e := &Error{}
	if errors.As(err, &e) {
		return e.StatusCode
	}

	return 0
}
