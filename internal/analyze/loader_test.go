package analyze

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const geoPkg = "keyed-codec/examples/geo"

func loadGeo(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(geoPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func findField(t *testing.T, info *TypeInfo, name string) *FieldInfo {
	t.Helper()

	for i := range info.Fields {
		if info.Fields[i].Name == name {
			return &info.Fields[i]
		}
	}

	require.Failf(t, "field not found", "%s has no field %s", info.ID, name)

	return nil
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadGeo(t)

	assert.Contains(t, graph.Packages, geoPkg)
	assert.Contains(t, graph.Types, TypeID{PkgPath: geoPkg, Name: "Point"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: geoPkg, Name: "Location"})
}

func TestAnalyzer_TaggedStructs(t *testing.T) {
	graph := loadGeo(t)

	var names []string
	for _, s := range graph.TaggedStructs() {
		names = append(names, s.ID.Name)
	}

	assert.Equal(t, []string{"Location", "InterLocation", "Point", "Placemark", "Track"}, names)
}

func TestAnalyzer_PointFields(t *testing.T) {
	graph := loadGeo(t)

	point := graph.GetType(TypeID{PkgPath: geoPkg, Name: "Point"})
	require.NotNil(t, point)
	assert.Equal(t, TypeKindStruct, point.Kind)

	greeting := findField(t, point, "Greeting")
	tag, ok := greeting.KeyedTag()
	assert.True(t, ok)
	assert.Equal(t, "inner.greeting", tag)
	assert.Equal(t, TypeKindBasic, greeting.Type.Kind)
	assert.Equal(t, "geo.go", filepath.Base(greeting.Pos.Filename))
	assert.Positive(t, greeting.Pos.Line)

	location := findField(t, point, "Location")
	assert.Equal(t, TypeKindStruct, location.Type.Kind)
	assert.Equal(t, "Location", location.Type.ID.Name)
}

func TestAnalyzer_SliceAndPointerFields(t *testing.T) {
	graph := loadGeo(t)

	track := graph.GetType(TypeID{PkgPath: geoPkg, Name: "Track"})
	require.NotNil(t, track)

	points := findField(t, track, "Points")
	assert.Equal(t, TypeKindSlice, points.Type.Kind)
	require.NotNil(t, points.Type.ElemType)
	assert.Equal(t, TypeKindStruct, points.Type.ElemType.Kind)

	location := graph.GetType(TypeID{PkgPath: geoPkg, Name: "Location"})
	require.NotNil(t, location)

	longitude := findField(t, location, "Longitude")
	assert.Equal(t, TypeKindPointer, longitude.Type.Kind)
	assert.Equal(t, TypeKindBasic, longitude.Type.ElemType.Kind)
	assert.Equal(t, "*float64", TypeString(longitude.Type))
}

func TestAnalyzer_GetStruct(t *testing.T) {
	a := NewAnalyzer()
	_, err := a.LoadPackages(geoPkg)
	require.NoError(t, err)

	info, err := a.GetStruct(geoPkg, "Placemark")
	require.NoError(t, err)
	assert.Len(t, info.Fields, 3)

	_, err = a.GetStruct(geoPkg, "Missing")
	require.ErrorContains(t, err, "not found")
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("keyed-codec/does/not/exist")
	require.Error(t, err)
}

func TestTypeID_String(t *testing.T) {
	id := TypeID{PkgPath: geoPkg, Name: "Point"}
	assert.Equal(t, "keyed-codec/examples/geo.Point", id.String())

	// Empty package path
	assert.Equal(t, "int", TypeID{Name: "int"}.String())
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "basic", TypeKindBasic.String())
	assert.Equal(t, "struct", TypeKindStruct.String())
	assert.Equal(t, "pointer", TypeKindPointer.String())
	assert.Equal(t, "slice", TypeKindSlice.String())
	assert.Equal(t, "map", TypeKindMap.String())
	assert.Equal(t, "alias", TypeKindAlias.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKindUnknown.String())
}

func TestFieldInfo_FallbackName(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{tag: `json:"my_field"`, expected: "my_field"},
		{tag: `json:"my_field,omitempty"`, expected: "my_field"},
		{tag: `yaml:"from_yaml"`, expected: "from_yaml"},
		{tag: `json:"-" yaml:"y"`, expected: "y"},
		{tag: `json:",omitempty"`, expected: "myfield"},
		{tag: ``, expected: "myfield"},
	}

	for _, tt := range tests {
		f := FieldInfo{Name: "MyField", Tag: reflect.StructTag(tt.tag)}
		assert.Equal(t, tt.expected, f.FallbackName(), tt.tag)
	}
}

func TestTypePath(t *testing.T) {
	p := NewTypePath("Track")
	assert.Equal(t, "Track", p.String())
	assert.Equal(t, "Track.Points", p.Field("Points").String())
	assert.Equal(t, "Track.Points[].Location", p.Field("Points").Slice().Field("Location").String())
}
