package keyed

import (
	"fmt"
	"reflect"

	"keyed-codec/container"
)

// slot is the storage of one field inside the value being decoded or
// encoded. Decoding fills the source value first and commit then moves it
// into the field, which lets the adapter tell source failures apart from
// transform failures.
type slot interface {
	decode(dec container.Decoder) error
	// decodeSeq decodes every element of seq. A nil skip fails on the first
	// bad element, otherwise skip is told about it and decoding goes on.
	decodeSeq(seq container.UnkeyedDecoder, skip func(i int, err error)) error
	commit() error
	clear()
	// prepare reports whether the field has anything to write.
	prepare() (bool, error)
	encode(enc container.Encoder) error
}

// emptier is implemented by slots that can tell whether their value is
// empty in the omitempty sense.
type emptier interface {
	empty() bool
}

var errNotSequence = fmt.Errorf("%w: field is not a sequence", container.ErrTypeMismatch)

type valueSlot[V any] struct {
	p     *V
	codec Codec[V]
}

func (s valueSlot[V]) decode(dec container.Decoder) error {
	v, err := s.codec.Decode(dec)
	if err != nil {
		return err
	}

	*s.p = v

	return nil
}

func (valueSlot[V]) decodeSeq(container.UnkeyedDecoder, func(int, error)) error {
	return errNotSequence
}

func (valueSlot[V]) commit() error { return nil }

func (s valueSlot[V]) clear() {
	var zero V
	*s.p = zero
}

func (valueSlot[V]) prepare() (bool, error) { return true, nil }

func (s valueSlot[V]) empty() bool {
	return isEmptyValue(reflect.ValueOf(s.p).Elem())
}

func (s valueSlot[V]) encode(enc container.Encoder) error {
	return s.codec.Encode(enc, *s.p)
}

type optionalSlot[V any] struct {
	p     **V
	codec Codec[V]
}

func (s optionalSlot[V]) decode(dec container.Decoder) error {
	if dec.IsNull() {
		*s.p = nil
		return nil
	}

	v, err := s.codec.Decode(dec)
	if err != nil {
		return err
	}

	*s.p = &v

	return nil
}

func (optionalSlot[V]) decodeSeq(container.UnkeyedDecoder, func(int, error)) error {
	return errNotSequence
}

func (optionalSlot[V]) commit() error { return nil }

func (s optionalSlot[V]) clear() {
	*s.p = nil
}

func (s optionalSlot[V]) prepare() (bool, error) {
	return *s.p != nil, nil
}

func (s optionalSlot[V]) encode(enc container.Encoder) error {
	return s.codec.Encode(enc, **s.p)
}

type sliceSlot[E any] struct {
	p     *[]E
	codec Codec[E]
}

func (s sliceSlot[E]) decode(dec container.Decoder) error {
	seq, err := dec.Unkeyed()
	if err != nil {
		return err
	}

	return s.decodeSeq(seq, nil)
}

func (s sliceSlot[E]) decodeSeq(seq container.UnkeyedDecoder, skip func(int, error)) error {
	out := make([]E, 0, seq.Len())

	for i := range seq.Len() {
		v, err := s.codec.Decode(seq.At(i))
		if err != nil {
			if skip == nil {
				return err
			}

			skip(i, err)

			continue
		}

		out = append(out, v)
	}

	*s.p = out

	return nil
}

func (sliceSlot[E]) commit() error { return nil }

func (s sliceSlot[E]) clear() {
	*s.p = []E{}
}

func (sliceSlot[E]) prepare() (bool, error) { return true, nil }

func (s sliceSlot[E]) empty() bool { return len(*s.p) == 0 }

func (s sliceSlot[E]) encode(enc container.Encoder) error {
	seq, err := enc.Unkeyed()
	if err != nil {
		return err
	}

	for _, e := range *s.p {
		if err := s.codec.Encode(seq.Append(), e); err != nil {
			return err
		}
	}

	return nil
}

// codedSlot runs a transformer between a source slot and the field.
type codedSlot[S, O any] struct {
	name   string
	p      *O
	source *S
	inner  slot
	tr     Transformer[S, O]
}

func (s codedSlot[S, O]) decode(dec container.Decoder) error {
	return s.inner.decode(dec)
}

func (s codedSlot[S, O]) decodeSeq(seq container.UnkeyedDecoder, skip func(int, error)) error {
	return s.inner.decodeSeq(seq, skip)
}

func (s codedSlot[S, O]) commit() error {
	o, err := s.tr.Decode(*s.source)
	if err != nil {
		return transformFailed(s.name, err)
	}

	*s.p = o

	return nil
}

func (s codedSlot[S, O]) clear() {
	var zero O
	*s.p = zero
}

func (s codedSlot[S, O]) prepare() (bool, error) {
	src, ok, err := s.tr.Encode(*s.p)
	if err != nil {
		return false, transformFailed(s.name, err)
	}

	if !ok {
		return false, nil
	}

	*s.source = src

	return true, nil
}

func (s codedSlot[S, O]) empty() bool {
	e, ok := s.inner.(emptier)
	return ok && e.empty()
}

func (s codedSlot[S, O]) encode(enc container.Encoder) error {
	return s.inner.encode(enc)
}
