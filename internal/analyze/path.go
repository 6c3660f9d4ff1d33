package analyze

import (
	"go/types"
	"strings"
)

// TypePath builds a readable Go field path for diagnostics.
// Examples:
//   - "Point" for a struct
//   - "Point.Location" for a field
//   - "Track.Points[].Location" for a field within slice elements
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice marks the last element as a slice.
func (p *TypePath) Slice() *TypePath {
	parts := append([]string{}, p.parts...)
	parts[len(parts)-1] += "[]"

	return &TypePath{parts: parts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeString returns a short readable form of t, naming types by package
// name rather than import path.
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	if t.GoType == nil {
		return t.ID.String()
	}

	return types.TypeString(t.GoType, func(p *types.Package) string { return p.Name() })
}
