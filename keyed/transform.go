package keyed

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// Transformer converts between the wire type S and the in-memory type O of
// one field.
type Transformer[S, O any] interface {
	// Decode turns a decoded source value into the field value.
	Decode(src S) (O, error)
	// Encode turns the field value back into its source form. ok == false
	// omits the field from the output.
	Encode(obj O) (src S, ok bool, err error)
}

// TransformFuncs adapts a pair of functions to Transformer. A nil ToSource
// makes the transformer decode-only.
type TransformFuncs[S, O any] struct {
	FromSource func(S) (O, error)
	ToSource   func(O) (S, bool, error)
}

var errDecodeOnly = errors.New("transformer has no encode direction")

func (t TransformFuncs[S, O]) Decode(src S) (O, error) {
	return t.FromSource(src)
}

func (t TransformFuncs[S, O]) Encode(obj O) (S, bool, error) {
	if t.ToSource == nil {
		var zero S
		return zero, false, errDecodeOnly
	}

	return t.ToSource(obj)
}

// Registry holds named transformers for schemas built from struct tags.
type Registry struct {
	transforms map[string]*RegisteredTransform
}

// RegisteredTransform is a transformer with its types erased.
type RegisteredTransform struct {
	Name       string
	SourceType reflect.Type
	ObjectType reflect.Type

	decode func(src reflect.Value) (reflect.Value, error)
	encode func(obj reflect.Value) (reflect.Value, bool, error)
}

// NewRegistry creates a new empty transform registry.
func NewRegistry() *Registry {
	return &Registry{
		transforms: make(map[string]*RegisteredTransform),
	}
}

// Register adds tr under name. Names must be unique.
func Register[S, O any](r *Registry, name string, tr Transformer[S, O]) error {
	if name == "" {
		return errors.New("transform name cannot be empty")
	}

	if r.Has(name) {
		return fmt.Errorf("transform %q already registered", name)
	}

	r.transforms[name] = &RegisteredTransform{
		Name:       name,
		SourceType: reflect.TypeFor[S](),
		ObjectType: reflect.TypeFor[O](),
		decode: func(src reflect.Value) (reflect.Value, error) {
			s, _ := src.Interface().(S)
			o, err := tr.Decode(s)

			return reflect.ValueOf(&o).Elem(), err
		},
		encode: func(obj reflect.Value) (reflect.Value, bool, error) {
			o, _ := obj.Interface().(O)
			s, ok, err := tr.Encode(o)

			return reflect.ValueOf(&s).Elem(), ok, err
		},
	}

	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[S, O any](r *Registry, name string, tr Transformer[S, O]) {
	if err := Register(r, name, tr); err != nil {
		panic(err)
	}
}

// Get returns a registered transform by name, or nil if not found.
func (r *Registry) Get(name string) *RegisteredTransform {
	return r.transforms[name]
}

// Has returns true if a transform with the given name exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.transforms[name]
	return exists
}

// Names returns all transform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// All returns all registered transforms ordered by name.
func (r *Registry) All() []*RegisteredTransform {
	result := make([]*RegisteredTransform, 0, len(r.transforms))
	for _, name := range r.Names() {
		result = append(result, r.transforms[name])
	}

	return result
}
