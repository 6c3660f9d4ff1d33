package keyed

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"keyed-codec/container"
	"keyed-codec/keypath"
)

// decodeField decodes one field. pos is the position of the enclosing
// object and kd its keyed view, which is nil when every field of the
// object is flattened.
func decodeField(f *fieldSpec, pos container.Decoder, kd container.KeyedDecoder, s slot, log zerolog.Logger) error {
	if f.flat {
		return decodeFlat(f, pos, s, log)
	}

	dec, ok, err := keypath.Lookup(kd, f.segments)
	if err != nil {
		return err
	}

	if ok && !(f.kind == KindOptional && dec.IsNull()) {
		if err := s.decode(dec); err != nil {
			return err
		}

		return s.commit()
	}

	if f.kind != KindOptional && !f.omitEmpty {
		path := append(slices.Clone(pos.Path()), f.segments...)
		return fmt.Errorf("%s: %w", container.FormatPath(path), container.ErrKeyNotFound)
	}

	s.clear()

	return nil
}

// decodeFlat decodes a flattened field from the enclosing position itself.
// Arrays and optionals never fail on missing or malformed data; only their
// transformer may fail.
func decodeFlat(f *fieldSpec, pos container.Decoder, s slot, log zerolog.Logger) error {
	switch f.kind {
	case KindArray:
		seq, err := pos.Unkeyed()
		if err != nil {
			log.Debug().Err(err).Str("field", f.name).Msg("flattened array has no sequence, decoding as empty")

			seq = container.EmptySequence
		}

		err = s.decodeSeq(seq, func(i int, err error) {
			log.Debug().Err(err).Str("field", f.name).Int("index", i).Msg("skipping undecodable element")
		})
		if err != nil {
			return err
		}

		return s.commit()

	case KindOptional:
		if err := s.decode(pos); err != nil {
			log.Debug().Err(err).Str("field", f.name).Msg("flattened optional field decoded as empty")
			s.clear()

			return nil
		}

		return s.commit()

	default:
		if err := s.decode(pos); err != nil {
			return err
		}

		return s.commit()
	}
}

// encodeField encodes one field. Nothing is created in the document for a
// field that has nothing to write or that is empty and omitted.
func encodeField(f *fieldSpec, pos container.Encoder, ke container.KeyedEncoder, s slot) error {
	write, err := s.prepare()
	if err != nil || !write {
		return err
	}

	if e, ok := s.(emptier); ok && f.omitEmpty && e.empty() {
		return nil
	}

	if f.flat {
		return s.encode(pos)
	}

	leaf, err := keypath.Place(ke, f.segments)
	if err != nil {
		return err
	}

	return s.encode(leaf)
}
