// Package keypath resolves key segment paths against container positions.
//
// Decoding walks existing containers and reports a missing branch as an
// absent value rather than an error, so optional fields nested under
// missing containers decode as empty. Encoding creates every intermediate
// container on the way to the leaf.
package keypath

import (
	"errors"
	"strings"

	"keyed-codec/container"
	"keyed-codec/key"
)

// Lookup returns the leaf position for segments under root. ok is false
// when any intermediate container or the leaf itself is missing, or when
// an intermediate is null. An intermediate that exists with another shape
// is reported as an error.
func Lookup(root container.KeyedDecoder, segments []string) (dec container.Decoder, ok bool, err error) {
	if len(segments) == 0 {
		return root.Decoder(), true, nil
	}

	current := root
	for _, segment := range segments[:len(segments)-1] {
		if !current.Contains(segment) {
			return nil, false, nil
		}

		value, err := current.Value(segment)
		if err != nil {
			return nil, false, err
		}

		if value.IsNull() {
			return nil, false, nil
		}

		current, err = value.Keyed()
		if err != nil {
			return nil, false, err
		}
	}

	leaf := segments[len(segments)-1]

	dec, err = current.Value(leaf)
	if errors.Is(err, container.ErrKeyNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return dec, true, nil
}

// Place returns the leaf position for segments under root, creating the
// intermediate containers that do not exist yet. It must only be called
// for values that are actually written. An intermediate that already holds
// a non-mapping value is a propagated container.ErrTypeMismatch.
func Place(root container.KeyedEncoder, segments []string) (container.Encoder, error) {
	if len(segments) == 0 {
		return root.Encoder(), nil
	}

	current := root
	for _, segment := range segments[:len(segments)-1] {
		next, err := current.Nested(segment)
		if err != nil {
			return nil, err
		}

		current = next
	}

	return current.Value(segments[len(segments)-1]), nil
}

// Join renders segments with the given delimiter, falling back to '.'
// when the delimiter is NoDelimiter.
func Join(segments []string, delimiter key.Delimiter) string {
	r, ok := delimiter.Rune()
	if !ok {
		r = '.'
	}

	return strings.Join(segments, string(r))
}
