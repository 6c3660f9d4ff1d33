// Package container defines the document positions that key paths
// navigate. A position is either keyed (map-like), unkeyed (sequence-like)
// or a single value, and is handed out fresh for every decode or encode
// call.
package container

import (
	"errors"
	"strings"
)

var (
	ErrKeyNotFound  = errors.New("key not found")
	ErrTypeMismatch = errors.New("type mismatch")
)

// Decoder is a read position in a document.
type Decoder interface {
	// Keyed returns the keyed view of the position. It fails with
	// ErrTypeMismatch when the position does not hold a map.
	Keyed() (KeyedDecoder, error)
	// Unkeyed returns the sequence view of the position. It fails with
	// ErrTypeMismatch when the position does not hold a sequence.
	Unkeyed() (UnkeyedDecoder, error)
	// IsNull reports whether the position holds an explicit null.
	IsNull() bool
	// Decode converts the value at the position into v.
	Decode(v any) error
	// Path is the chain of keys from the document root.
	Path() []string
}

// KeyedDecoder reads a map-like node.
type KeyedDecoder interface {
	Contains(key string) bool
	Keys() []string
	// Nested returns the keyed container stored under key.
	Nested(key string) (KeyedDecoder, error)
	// Value returns the position stored under key.
	Value(key string) (Decoder, error)
	// Decoder returns the position of the container itself, which is what a
	// flattened field decodes from.
	Decoder() Decoder
}

// UnkeyedDecoder reads a sequence node.
type UnkeyedDecoder interface {
	Len() int
	// At returns the element at index i. i must be in [0, Len()); other
	// indexes panic.
	At(i int) Decoder
}

// Encoder is a write position in a document. A position that already holds
// a written value of another shape is never overwritten: Keyed, Unkeyed and
// Encode fail with ErrTypeMismatch instead.
type Encoder interface {
	// Keyed turns the position into a map, keeping existing entries.
	Keyed() (KeyedEncoder, error)
	// Unkeyed turns the position into a sequence, keeping existing items.
	Unkeyed() (UnkeyedEncoder, error)
	// Encode writes v at the position. When both the position and v are
	// maps, the entries of v are merged into the position.
	Encode(v any) error
	Path() []string
}

// KeyedEncoder writes a map-like node.
type KeyedEncoder interface {
	// Nested returns the keyed container under key, creating it if missing.
	Nested(key string) (KeyedEncoder, error)
	// Value returns the position under key, creating the entry if missing.
	Value(key string) Encoder
	// Encoder returns the position of the container itself.
	Encoder() Encoder
}

// UnkeyedEncoder appends to a sequence node.
type UnkeyedEncoder interface {
	Append() Encoder
}

// FormatPath renders a coding path for error messages.
func FormatPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}

	return strings.Join(path, ".")
}
