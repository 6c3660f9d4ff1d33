package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyKey     = errors.New("empty key")
	ErrEmptySegment = errors.New("empty path segment")
)

// Key identifies one field in a serialized document.
type Key struct {
	// Name is the raw key text, possibly a delimited path.
	Name string
	// Index is set for array-index-like keys.
	Index *int
	// Options overrides the configured key options when not nil.
	Options *Options
}

// Named returns a string key.
func Named(name string) Key {
	return Key{Name: name}
}

// Indexed returns an integer key whose name is the decimal index.
func Indexed(i int) Key {
	return Key{Name: strconv.Itoa(i), Index: &i}
}

// WithOptions returns a copy of k carrying its own options.
func (k Key) WithOptions(o Options) Key {
	k.Options = &o
	return k
}

// Equal compares keys by name and index. Options do not take part.
func (k Key) Equal(other Key) bool {
	if k.Name != other.Name {
		return false
	}

	if k.Index == nil || other.Index == nil {
		return k.Index == nil && other.Index == nil
	}

	return *k.Index == *other.Index
}

// String returns a printable form of the key.
func (k Key) String() string {
	if k.Index != nil {
		return fmt.Sprintf("%q[%d]", k.Name, *k.Index)
	}

	return strconv.Quote(k.Name)
}

// Segments splits the key name into path segments using opts.Delimiter.
func (k Key) Segments(opts Options) ([]string, error) {
	if k.Name == "" {
		return nil, ErrEmptyKey
	}

	r, ok := opts.Delimiter.Rune()
	if !ok || k.Index != nil {
		return []string{k.Name}, nil
	}

	segments := strings.Split(k.Name, string(r))
	for i, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("key %s: segment %d: %w", k, i, ErrEmptySegment)
		}
	}

	return segments, nil
}
