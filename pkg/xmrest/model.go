package xmrest

import (
	"encoding/json"
	"fmt"
)

// Model is the capability a record type needs to be served by a DataService:
// a stable identifier of a comparable type. Records are usually pointers to
// structs so SetID can mutate them.
type Model[ID comparable] interface {
	GetID() ID
	SetID(id ID)
}

// Predicate is a client-side filter over records.
type Predicate[T any] func(item T) bool

// IsZeroID reports whether id is the zero value or formats to an empty string.
// A zero identifier marks a record as new.
func IsZeroID[ID comparable](id ID) bool {
	var zero ID
	if id == zero {
		return true
	}

	return FormatID(id) == ""
}

// FormatID renders an identifier as a URL path segment.
func FormatID[ID comparable](id ID) string {
	return fmt.Sprint(id)
}

// Codec serializes records to and from JSON text. A collection body is passed
// to Unmarshal whole, with a pointer to a slice of records.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default Codec, backed by encoding/json.
type JSONCodec struct{}

// Marshal implements Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// AuthPolicy decides per HTTP method whether the auth header is sent.
type AuthPolicy func(method string) bool

// AlwaysAuthenticate sends the auth header on every method.
func AlwaysAuthenticate(string) bool { return true }
