package keyed

import (
	"fmt"
	"reflect"

	"keyed-codec/key"
)

// Field declares how one field of T is found in a document.
type Field[T any] struct {
	spec *fieldSpec
}

// fieldSpec is the type-erased declaration. bind receives a pointer to the
// struct being decoded or encoded. sourceType is what the codec writes: the
// value, the pointed-to value of an optional, or the Source of a
// transformer.
type fieldSpec struct {
	name       string
	key        key.Key
	kind       Kind
	forceFlat  bool
	omitEmpty  bool
	delimiter  *key.Delimiter
	flatRule   *key.FlatRule
	valueType  reflect.Type
	sourceType reflect.Type
	transform  *TransformDescriptor
	bind       func(p any) slot

	// Resolved by the schema.
	opts     key.Options
	flat     bool
	segments []string
}

// FieldOption adjusts a field declaration.
type FieldOption func(*fieldSpec)

// WithName sets the name used in errors and descriptors. It defaults to
// the key.
func WithName(name string) FieldOption {
	return func(f *fieldSpec) {
		f.name = name
	}
}

// WithKeyOptions replaces the configured key options for this field.
func WithKeyOptions(o key.Options) FieldOption {
	return func(f *fieldSpec) {
		f.key.Options = &o
	}
}

// WithDelimiter overrides only the delimiter.
func WithDelimiter(d key.Delimiter) FieldOption {
	return func(f *fieldSpec) {
		f.delimiter = &d
	}
}

// WithFlat overrides only the flatten rule.
func WithFlat(r key.FlatRule) FieldOption {
	return func(f *fieldSpec) {
		f.flatRule = &r
	}
}

// WithIndex replaces the key with the integer key i. The declared name is
// kept for errors and descriptors.
func WithIndex(i int) FieldOption {
	return func(f *fieldSpec) {
		opts := f.key.Options
		f.key = key.Indexed(i)
		f.key.Options = opts
	}
}

// OmitEmpty skips the field on encode when its value is empty, and lets it
// be absent on decode. It matches the omitempty tag option.
func OmitEmpty() FieldOption {
	return func(f *fieldSpec) {
		f.omitEmpty = true
	}
}

// Flatten makes the field read and write the enclosing container whatever
// its key says.
func Flatten() FieldOption {
	return func(f *fieldSpec) {
		f.forceFlat = true
	}
}

func newField[T any](name string, kind Kind, valueType, sourceType reflect.Type, bind func(*T) slot, opts []FieldOption) Field[T] {
	spec := &fieldSpec{
		name:       name,
		key:        key.Named(name),
		kind:       kind,
		valueType:  valueType,
		sourceType: sourceType,
		bind: func(p any) slot {
			return bind(p.(*T))
		},
	}

	for _, opt := range opts {
		opt(spec)
	}

	return Field[T]{spec: spec}
}

// Plain declares a required field.
func Plain[T, V any](name string, get func(*T) *V, codec Codec[V], opts ...FieldOption) Field[T] {
	return newField(name, KindPlain, reflect.TypeFor[V](), reflect.TypeFor[V](), func(p *T) slot {
		return valueSlot[V]{p: get(p), codec: codec}
	}, opts)
}

// Optional declares a field held by pointer. Absent and null values decode
// as nil and nil is not written.
func Optional[T, V any](name string, get func(*T) **V, codec Codec[V], opts ...FieldOption) Field[T] {
	return newField(name, KindOptional, reflect.TypeFor[*V](), reflect.TypeFor[V](), func(p *T) slot {
		return optionalSlot[V]{p: get(p), codec: codec}
	}, opts)
}

// Array declares a sequence field whose elements use codec.
func Array[T, E any](name string, get func(*T) *[]E, codec Codec[E], opts ...FieldOption) Field[T] {
	return newField(name, KindArray, reflect.TypeFor[[]E](), reflect.TypeFor[[]E](), func(p *T) slot {
		return sliceSlot[E]{p: get(p), codec: codec}
	}, opts)
}

// PlainCoded declares a required field stored in the document as S and
// converted by tr.
func PlainCoded[T, S, O any](name string, get func(*T) *O, codec Codec[S], tr Transformer[S, O], opts ...FieldOption) Field[T] {
	return newCoded(name, KindPlain, get, tr, func(src *S) slot {
		return valueSlot[S]{p: src, codec: codec}
	}, opts)
}

// OptionalCoded declares a transformed field that decodes as the zero O
// when its source is absent or, when flattened, cannot be decoded.
func OptionalCoded[T, S, O any](name string, get func(*T) *O, codec Codec[S], tr Transformer[S, O], opts ...FieldOption) Field[T] {
	return newCoded(name, KindOptional, get, tr, func(src *S) slot {
		return valueSlot[S]{p: src, codec: codec}
	}, opts)
}

// ArrayCoded declares a field stored as a sequence of E. The transformer
// sees the whole decoded sequence.
func ArrayCoded[T, E, O any](name string, get func(*T) *O, codec Codec[E], tr Transformer[[]E, O], opts ...FieldOption) Field[T] {
	return newCoded(name, KindArray, get, tr, func(src *[]E) slot {
		return sliceSlot[E]{p: src, codec: codec}
	}, opts)
}

func newCoded[T, S, O any](name string, kind Kind, get func(*T) *O, tr Transformer[S, O], inner func(*S) slot, opts []FieldOption) Field[T] {
	f := newField(name, kind, reflect.TypeFor[O](), reflect.TypeFor[S](), func(p *T) slot {
		src := new(S)
		return codedSlot[S, O]{name: name, p: get(p), source: src, inner: inner(src), tr: tr}
	}, opts)

	f.spec.transform = &TransformDescriptor{
		SourceType: reflect.TypeFor[S]().String(),
		ObjectType: reflect.TypeFor[O]().String(),
	}

	return f
}

// resolve fixes the key options, the flatten decision and the segments
// under cfg.
func (f *fieldSpec) resolve(cfg key.Config) (*fieldSpec, error) {
	r := *f

	r.opts = cfg.Resolve(r.key)
	if r.delimiter != nil {
		r.opts.Delimiter = *r.delimiter
	}

	if r.flatRule != nil {
		r.opts.Flat = *r.flatRule
	}

	r.flat = r.forceFlat || r.opts.IsFlat(r.key)
	if r.flat {
		return &r, nil
	}

	segments, err := r.key.Segments(r.opts)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", r.name, err)
	}

	r.segments = segments

	return &r, nil
}

// Descriptor is the resolved declaration of one field.
type Descriptor struct {
	Name      string
	Key       key.Key
	Delimiter key.Delimiter
	FlatRule  key.FlatRule
	Flatten   bool
	Segments  []string
	Kind      Kind
	Type      string
	Transform *TransformDescriptor
}

// TransformDescriptor names a transformer bound to a field and its types.
type TransformDescriptor struct {
	Name       string
	SourceType string
	ObjectType string
}

func (f *fieldSpec) descriptor() Descriptor {
	d := Descriptor{
		Name:      f.name,
		Key:       f.key,
		Delimiter: f.opts.Delimiter,
		FlatRule:  f.opts.Flat,
		Flatten:   f.flat,
		Segments:  f.segments,
		Kind:      f.kind,
		Type:      f.valueType.String(),
	}

	if f.transform != nil {
		t := *f.transform
		d.Transform = &t
	}

	return d
}
