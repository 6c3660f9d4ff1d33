package analyze

import (
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"keyed-codec/key"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "keyed-codec/examples/geo"
	Name    string // e.g., "Point"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map type
	TypeKindAlias             // named type wrapping a non-struct type
	TypeKindExternal          // opaque type from a package that was not loaded
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For alias types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type
}

// Resolved follows alias types down to the type they wrap.
func (t *TypeInfo) Resolved() *TypeInfo {
	for t != nil && t.Kind == TypeKindAlias && t.Underlying != nil {
		t = t.Underlying
	}

	return t
}

// IsTagged reports whether any field carries a `keyed` tag.
func (t *TypeInfo) IsTagged() bool {
	return slices.ContainsFunc(t.Fields, func(f FieldInfo) bool {
		_, ok := f.KeyedTag()
		return ok
	})
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
	Pos      token.Position    // Declaration position
}

// KeyedTag returns the raw `keyed` tag and whether it is present.
func (f *FieldInfo) KeyedTag() (string, bool) {
	return f.Tag.Lookup(key.TagName)
}

// FallbackName is the key used when the `keyed` tag names none: the json
// or yaml tag name, then the lowercased field name.
func (f *FieldInfo) FallbackName() string {
	for _, tagKey := range []string{"json", "yaml"} {
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}

		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}

	return strings.ToLower(f.Name)
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// TaggedStructs returns the structs of the loaded packages that have at
// least one `keyed` tag, ordered by package and declaration.
func (g *TypeGraph) TaggedStructs() []*TypeInfo {
	paths := make([]string, 0, len(g.Packages))
	for path := range g.Packages {
		paths = append(paths, path)
	}

	slices.Sort(paths)

	var out []*TypeInfo
	for _, path := range paths {
		for _, id := range g.Packages[path].Types {
			t := g.Types[id]
			if t.Kind == TypeKindStruct && t.IsTagged() {
				out = append(out, t)
			}
		}
	}

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package, in declaration order
}
