package keyed

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"keyed-codec/container"
	"keyed-codec/key"
)

// Option configures a schema.
type Option func(*settings)

type settings struct {
	config   key.Config
	logger   zerolog.Logger
	registry *Registry
}

func newSettings(opts []Option) settings {
	s := settings{
		config: key.DefaultConfig(),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.registry == nil {
		s.registry = NewRegistry()
	}

	return s
}

// WithConfig sets the key options for keys that carry none.
func WithConfig(cfg key.Config) Option {
	return func(s *settings) {
		s.config = cfg
	}
}

// WithLogger sets the logger that reports recovered decode failures of
// flattened fields at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithRegistry sets the transformers available to Reflect.
func WithRegistry(r *Registry) Option {
	return func(s *settings) {
		s.registry = r
	}
}

var (
	yamlMarshalerType = reflect.TypeFor[yaml.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// table is the resolved field list of one struct type. It is immutable
// and safe for concurrent use.
type table struct {
	fields     []*fieldSpec
	needsKeyed bool
	logger     zerolog.Logger
}

func (t *table) add(f *fieldSpec) {
	t.fields = append(t.fields, f)
	if !f.flat {
		t.needsKeyed = true
	}
}

// decode fills the struct p points to from dec.
func (t *table) decode(dec container.Decoder, p any) error {
	var kd container.KeyedDecoder

	if t.needsKeyed {
		var err error

		kd, err = dec.Keyed()
		if err != nil {
			return err
		}
	}

	for _, f := range t.fields {
		if err := decodeField(f, dec, kd, f.bind(p), t.logger); err != nil {
			return fieldError(f, err)
		}
	}

	return nil
}

// encode writes the struct p points to into enc.
func (t *table) encode(enc container.Encoder, p any) error {
	var ke container.KeyedEncoder

	if t.needsKeyed {
		var err error

		ke, err = enc.Keyed()
		if err != nil {
			return err
		}
	}

	for _, f := range t.fields {
		if err := encodeField(f, enc, ke, f.bind(p)); err != nil {
			return fieldError(f, err)
		}
	}

	return nil
}

// checkFlatten enforces that a flattened field whose value is not a mapping
// is the only field of its table.
func (t *table) checkFlatten() error {
	if len(t.fields) < 2 {
		return nil
	}

	for _, f := range t.fields {
		if f.flat && (f.kind == KindArray || !mapShaped(f.sourceType)) {
			return fmt.Errorf("field %s of type %s: %w", f.name, f.sourceType, ErrFlattenShared)
		}
	}

	return nil
}

// mapShaped reports whether values of t encode as a mapping. Interfaces are
// not known until encode time and pass.
func mapShaped(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == timeType || marshalsItself(t) || marshalsItself(reflect.PointerTo(t)) {
		return false
	}

	switch t.Kind() {
	case reflect.Map, reflect.Struct, reflect.Interface:
		return true
	default:
		return false
	}
}

func marshalsItself(t reflect.Type) bool {
	return t.Implements(yamlMarshalerType) || t.Implements(textMarshalerType)
}

func fieldError(f *fieldSpec, err error) error {
	return &FieldError{Field: f.name, Key: f.key.Name, Err: err}
}

func (t *table) descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(t.fields))
	for _, f := range t.fields {
		out = append(out, f.descriptor())
	}

	return out
}

// Schema is the explicit field table of T.
type Schema[T any] struct {
	table *table
}

// NewSchema resolves every field key under the schema configuration.
func NewSchema[T any](fields []Field[T], opts ...Option) (*Schema[T], error) {
	s := newSettings(opts)
	t := &table{logger: s.logger}

	for _, field := range fields {
		f, err := field.spec.resolve(s.config)
		if err != nil {
			return nil, err
		}

		t.add(f)
	}

	if err := t.checkFlatten(); err != nil {
		return nil, err
	}

	return &Schema[T]{table: t}, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schema declarations.
func MustSchema[T any](fields []Field[T], opts ...Option) *Schema[T] {
	s, err := NewSchema(fields, opts...)
	if err != nil {
		panic(err)
	}

	return s
}

// Decode reads a T from dec.
func (s *Schema[T]) Decode(dec container.Decoder) (T, error) {
	var v T
	if err := s.table.decode(dec, &v); err != nil {
		var zero T
		return zero, err
	}

	return v, nil
}

// Encode writes v into enc.
func (s *Schema[T]) Encode(enc container.Encoder, v T) error {
	return s.table.encode(enc, &v)
}

// Fields describes the resolved fields in declaration order.
func (s *Schema[T]) Fields() []Descriptor {
	return s.table.descriptors()
}
