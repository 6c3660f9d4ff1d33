package keyed

import (
	"fmt"
	"reflect"

	"keyed-codec/container"
)

// Codec converts one value between a container position and its Go form.
// *Schema[T] is a Codec[T].
type Codec[V any] interface {
	Decode(dec container.Decoder) (V, error)
	Encode(enc container.Encoder, v V) error
}

// Value returns a codec that hands V to the document for conversion.
// Null is accepted only when V can hold nil.
func Value[V any]() Codec[V] {
	return valueCodec[V]{nullable: canBeNil(reflect.TypeFor[V]())}
}

type valueCodec[V any] struct {
	nullable bool
}

func (c valueCodec[V]) Decode(dec container.Decoder) (V, error) {
	var v V
	if dec.IsNull() && !c.nullable {
		return v, nullMismatch(dec)
	}

	err := dec.Decode(&v)

	return v, err
}

func (valueCodec[V]) Encode(enc container.Encoder, v V) error {
	return enc.Encode(v)
}

// Pointer decodes null as nil and anything else through c.
func Pointer[V any](c Codec[V]) Codec[*V] {
	return pointerCodec[V]{elem: c}
}

type pointerCodec[V any] struct {
	elem Codec[V]
}

func (c pointerCodec[V]) Decode(dec container.Decoder) (*V, error) {
	if dec.IsNull() {
		return nil, nil
	}

	v, err := c.elem.Decode(dec)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (c pointerCodec[V]) Encode(enc container.Encoder, v *V) error {
	if v == nil {
		return enc.Encode(nil)
	}

	return c.elem.Encode(enc, *v)
}

// Slice decodes a sequence element by element through c. Any element
// failure fails the whole sequence.
func Slice[E any](c Codec[E]) Codec[[]E] {
	return sliceCodec[E]{elem: c}
}

type sliceCodec[E any] struct {
	elem Codec[E]
}

func (c sliceCodec[E]) Decode(dec container.Decoder) ([]E, error) {
	if dec.IsNull() {
		return nil, nil
	}

	seq, err := dec.Unkeyed()
	if err != nil {
		return nil, err
	}

	out := make([]E, 0, seq.Len())
	for i := range seq.Len() {
		v, err := c.elem.Decode(seq.At(i))
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func (c sliceCodec[E]) Encode(enc container.Encoder, v []E) error {
	seq, err := enc.Unkeyed()
	if err != nil {
		return err
	}

	for _, e := range v {
		if err := c.elem.Encode(seq.Append(), e); err != nil {
			return err
		}
	}

	return nil
}

// Text stores V as a string. Parse failures wrap ErrStringParseFailed.
func Text[V any](parse func(string) (V, error), format func(V) string) Codec[V] {
	return textCodec[V]{parse: parse, format: format}
}

type textCodec[V any] struct {
	parse  func(string) (V, error)
	format func(V) string
}

func (c textCodec[V]) Decode(dec container.Decoder) (V, error) {
	var (
		zero V
		s    string
	)

	if dec.IsNull() {
		return zero, nullMismatch(dec)
	}

	if err := dec.Decode(&s); err != nil {
		return zero, err
	}

	v, err := c.parse(s)
	if err != nil {
		return zero, fmt.Errorf("%s: %w: %q: %w", container.FormatPath(dec.Path()), ErrStringParseFailed, s, err)
	}

	return v, nil
}

func (c textCodec[V]) Encode(enc container.Encoder, v V) error {
	return enc.Encode(c.format(v))
}

func canBeNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return false
	}
}

func nullMismatch(dec container.Decoder) error {
	return fmt.Errorf("%s: %w: unexpected null", container.FormatPath(dec.Path()), container.ErrTypeMismatch)
}
