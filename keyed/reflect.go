package keyed

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"keyed-codec/container"
	"keyed-codec/internal/suggest"
	"keyed-codec/key"
)

// Reflect builds the schema of the struct type T from its exported fields
// and their `keyed` tags. A field without a name in its tag falls back to
// its json or yaml tag name, then to its lowercased Go name. The field kind
// is fixed here from the Go type: pointers are optional, slices are arrays,
// anything else is plain. With a transform the Source type decides.
// Embedded structs without a tag are flattened. Fields tagged omitempty
// are neither written when empty nor required on decode.
func Reflect[T any](opts ...Option) (*Schema[T], error) {
	b := &reflectBuilder{settings: newSettings(opts), tables: make(map[reflect.Type]*table)}

	t, err := b.table(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	return &Schema[T]{table: t}, nil
}

// MustReflect is like Reflect but panics on error.
func MustReflect[T any](opts ...Option) *Schema[T] {
	s, err := Reflect[T](opts...)
	if err != nil {
		panic(err)
	}

	return s
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	yamlUnmarshalType = reflect.TypeFor[yaml.Unmarshaler]()
)

type reflectBuilder struct {
	settings
	tables map[reflect.Type]*table
}

func (b *reflectBuilder) table(t reflect.Type) (*table, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("keyed: %s is not a struct", t)
	}

	if tbl, ok := b.tables[t]; ok {
		return tbl, nil
	}

	// Registered before the fields so recursive types find it.
	tbl := &table{logger: b.logger}
	b.tables[t] = tbl

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		spec, err := b.field(sf, i)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
		}

		if spec == nil {
			continue
		}

		resolved, err := spec.resolve(b.config)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}

		tbl.add(resolved)
	}

	if err := tbl.checkFlatten(); err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}

	return tbl, nil
}

func (b *reflectBuilder) field(sf reflect.StructField, index int) (*fieldSpec, error) {
	raw, hasTag := sf.Tag.Lookup(key.TagName)

	tag, err := key.ParseTag(raw)
	if err != nil {
		return nil, err
	}

	if tag.Skip {
		return nil, nil
	}

	spec := &fieldSpec{
		name:      sf.Name,
		key:       tag.Key(fallbackName(sf), b.config.KeyOptions),
		forceFlat: tag.Flatten || (sf.Anonymous && !hasTag),
		omitEmpty: tag.OmitEmpty,
		valueType: sf.Type,
	}

	sourceType := sf.Type

	var rt *RegisteredTransform
	if tag.Transform != "" {
		rt = b.registry.Get(tag.Transform)
		if rt == nil {
			if near, ok := suggest.Closest(tag.Transform, b.registry.Names()); ok {
				return nil, fmt.Errorf("unknown transform %q, did you mean %q", tag.Transform, near)
			}

			return nil, fmt.Errorf("unknown transform %q", tag.Transform)
		}

		if rt.ObjectType != sf.Type {
			return nil, fmt.Errorf("transform %q produces %s, field is %s", rt.Name, rt.ObjectType, sf.Type)
		}

		sourceType = rt.SourceType
		spec.transform = &TransformDescriptor{
			Name:       rt.Name,
			SourceType: rt.SourceType.String(),
			ObjectType: rt.ObjectType.String(),
		}
	}

	kind, codec, err := b.shape(sourceType)
	if err != nil {
		return nil, err
	}

	spec.kind = kind
	spec.sourceType = sourceType
	omitEmpty := tag.OmitEmpty

	spec.bind = func(p any) slot {
		v := reflect.ValueOf(p).Elem().Field(index)
		if rt == nil {
			return rslot{v: v, kind: kind, codec: codec, omitEmpty: omitEmpty}
		}

		src := reflect.New(sourceType).Elem()

		return rcodedSlot{
			name:   sf.Name,
			v:      v,
			source: src,
			inner:  rslot{v: src, kind: kind, codec: codec},
			rt:     rt,
		}
	}

	return spec, nil
}

// shape picks the field kind for t and the codec of its value, or of its
// element for optional and array kinds.
func (b *reflectBuilder) shape(t reflect.Type) (Kind, rcodec, error) {
	switch {
	case t.Kind() == reflect.Pointer:
		c, err := b.codecFor(t.Elem())
		return KindOptional, c, err
	case isSequence(t):
		c, err := b.codecFor(t.Elem())
		return KindArray, c, err
	default:
		c, err := b.codecFor(t)
		return KindPlain, c, err
	}
}

func (b *reflectBuilder) codecFor(t reflect.Type) (rcodec, error) {
	switch {
	case t == timeType || reflect.PointerTo(t).Implements(yamlUnmarshalType):
		return rvalue{t: t}, nil
	case t.Kind() == reflect.Struct:
		tbl, err := b.table(t)
		if err != nil {
			return nil, err
		}

		return rstruct{t: t, table: tbl}, nil
	case t.Kind() == reflect.Pointer:
		elem, err := b.codecFor(t.Elem())
		if err != nil {
			return nil, err
		}

		return rpointer{t: t, elem: elem}, nil
	case isSequence(t):
		elem, err := b.codecFor(t.Elem())
		if err != nil {
			return nil, err
		}

		return rslice{t: t, elem: elem}, nil
	default:
		return rvalue{t: t}, nil
	}
}

func isSequence(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

func fallbackName(sf reflect.StructField) string {
	for _, tagKey := range []string{"json", "yaml"} {
		tag := sf.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}

		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}

	return strings.ToLower(sf.Name)
}

type rcodec interface {
	decode(dec container.Decoder) (reflect.Value, error)
	encode(enc container.Encoder, v reflect.Value) error
}

type rvalue struct {
	t reflect.Type
}

func (c rvalue) decode(dec container.Decoder) (reflect.Value, error) {
	if dec.IsNull() && !canBeNil(c.t) {
		return reflect.Value{}, nullMismatch(dec)
	}

	p := reflect.New(c.t)
	if err := dec.Decode(p.Interface()); err != nil {
		return reflect.Value{}, err
	}

	return p.Elem(), nil
}

func (c rvalue) encode(enc container.Encoder, v reflect.Value) error {
	return enc.Encode(v.Interface())
}

type rstruct struct {
	t     reflect.Type
	table *table
}

func (c rstruct) decode(dec container.Decoder) (reflect.Value, error) {
	p := reflect.New(c.t)
	if err := c.table.decode(dec, p.Interface()); err != nil {
		return reflect.Value{}, err
	}

	return p.Elem(), nil
}

func (c rstruct) encode(enc container.Encoder, v reflect.Value) error {
	p := reflect.New(c.t)
	p.Elem().Set(v)

	return c.table.encode(enc, p.Interface())
}

type rpointer struct {
	t    reflect.Type
	elem rcodec
}

func (c rpointer) decode(dec container.Decoder) (reflect.Value, error) {
	if dec.IsNull() {
		return reflect.Zero(c.t), nil
	}

	x, err := c.elem.decode(dec)
	if err != nil {
		return reflect.Value{}, err
	}

	p := reflect.New(c.t.Elem())
	p.Elem().Set(x)

	return p, nil
}

func (c rpointer) encode(enc container.Encoder, v reflect.Value) error {
	if v.IsNil() {
		return enc.Encode(nil)
	}

	return c.elem.encode(enc, v.Elem())
}

type rslice struct {
	t    reflect.Type
	elem rcodec
}

func (c rslice) decode(dec container.Decoder) (reflect.Value, error) {
	if dec.IsNull() {
		return reflect.Zero(c.t), nil
	}

	seq, err := dec.Unkeyed()
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.MakeSlice(c.t, 0, seq.Len())
	for i := range seq.Len() {
		x, err := c.elem.decode(seq.At(i))
		if err != nil {
			return reflect.Value{}, err
		}

		out = reflect.Append(out, x)
	}

	return out, nil
}

func (c rslice) encode(enc container.Encoder, v reflect.Value) error {
	seq, err := enc.Unkeyed()
	if err != nil {
		return err
	}

	for i := range v.Len() {
		if err := c.elem.encode(seq.Append(), v.Index(i)); err != nil {
			return err
		}
	}

	return nil
}

// rslot is the reflective counterpart of the typed slots. codec is the
// element codec for optional and array kinds.
type rslot struct {
	v         reflect.Value
	kind      Kind
	codec     rcodec
	omitEmpty bool
}

func (s rslot) decode(dec container.Decoder) error {
	switch s.kind {
	case KindOptional:
		if dec.IsNull() {
			s.v.SetZero()
			return nil
		}

		x, err := s.codec.decode(dec)
		if err != nil {
			return err
		}

		p := reflect.New(s.v.Type().Elem())
		p.Elem().Set(x)
		s.v.Set(p)

		return nil

	case KindArray:
		seq, err := dec.Unkeyed()
		if err != nil {
			return err
		}

		return s.decodeSeq(seq, nil)

	default:
		x, err := s.codec.decode(dec)
		if err != nil {
			return err
		}

		s.v.Set(x)

		return nil
	}
}

func (s rslot) decodeSeq(seq container.UnkeyedDecoder, skip func(int, error)) error {
	if s.kind != KindArray {
		return errNotSequence
	}

	out := reflect.MakeSlice(s.v.Type(), 0, seq.Len())
	for i := range seq.Len() {
		x, err := s.codec.decode(seq.At(i))
		if err != nil {
			if skip == nil {
				return err
			}

			skip(i, err)

			continue
		}

		out = reflect.Append(out, x)
	}

	s.v.Set(out)

	return nil
}

func (rslot) commit() error { return nil }

func (s rslot) clear() {
	if s.kind == KindArray {
		s.v.Set(reflect.MakeSlice(s.v.Type(), 0, 0))
		return
	}

	s.v.SetZero()
}

func (s rslot) prepare() (bool, error) {
	if s.kind == KindOptional && s.v.IsNil() {
		return false, nil
	}

	if s.omitEmpty && isEmptyValue(s.v) {
		return false, nil
	}

	return true, nil
}

func (s rslot) encode(enc container.Encoder) error {
	switch s.kind {
	case KindOptional:
		return s.codec.encode(enc, s.v.Elem())

	case KindArray:
		seq, err := enc.Unkeyed()
		if err != nil {
			return err
		}

		for i := range s.v.Len() {
			if err := s.codec.encode(seq.Append(), s.v.Index(i)); err != nil {
				return err
			}
		}

		return nil

	default:
		return s.codec.encode(enc, s.v)
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}

// rcodedSlot runs a registered transform between a source slot and the
// field.
type rcodedSlot struct {
	name   string
	v      reflect.Value
	source reflect.Value
	inner  rslot
	rt     *RegisteredTransform
}

func (s rcodedSlot) decode(dec container.Decoder) error {
	return s.inner.decode(dec)
}

func (s rcodedSlot) decodeSeq(seq container.UnkeyedDecoder, skip func(int, error)) error {
	return s.inner.decodeSeq(seq, skip)
}

func (s rcodedSlot) commit() error {
	o, err := s.rt.decode(s.source)
	if err != nil {
		return transformFailed(s.name, err)
	}

	s.v.Set(o)

	return nil
}

func (s rcodedSlot) clear() {
	s.v.SetZero()
}

func (s rcodedSlot) prepare() (bool, error) {
	src, ok, err := s.rt.encode(s.v)
	if err != nil {
		return false, transformFailed(s.name, err)
	}

	if !ok {
		return false, nil
	}

	s.source.Set(src)

	return true, nil
}

func (s rcodedSlot) encode(enc container.Encoder) error {
	return s.inner.encode(enc)
}
