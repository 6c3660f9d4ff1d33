package lint

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyed-codec/internal/analyze"
	"keyed-codec/internal/config"
	"keyed-codec/internal/diagnostic"
)

const brokenPkg = "keyed-codec/internal/lint/testdata/broken"

const brokenConfig = `
transforms:
  - name: toLocation
    object_type: keyed-codec/internal/lint/testdata/broken.Location
`

type result struct {
	structs map[string]Struct
	diags   map[string][]diagnostic.Diagnostic
	all     diagnostic.Diagnostics
}

func check(t *testing.T, pattern string, cfg *config.File) result {
	t.Helper()

	graph, err := analyze.NewAnalyzer().LoadPackages(pattern)
	require.NoError(t, err)

	structs, diags := New(cfg, zerolog.Nop()).Check(graph)

	r := result{
		structs: make(map[string]Struct),
		diags:   make(map[string][]diagnostic.Diagnostic),
		all:     diags,
	}

	for _, s := range structs {
		r.structs[s.ID.Name] = s
	}

	for _, d := range diags.All() {
		r.diags[d.Type] = append(r.diags[d.Type], d)
	}

	return r
}

func checkBroken(t *testing.T) result {
	t.Helper()

	cfg, err := config.Parse([]byte(brokenConfig))
	require.NoError(t, err)

	return check(t, "./testdata/broken", cfg)
}

func paths(s Struct) []string {
	var out []string
	for _, f := range s.Fields {
		out = append(out, f.Path)
	}

	return out
}

func codes(diags []diagnostic.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}

	return out
}

func TestCheck_Broken(t *testing.T) {
	r := checkBroken(t)

	tests := []struct {
		typeName string
		codes    []string
		fields   []string
	}{
		{typeName: "Good", fields: []string{"meta.name", "count"}},
		{typeName: "BadTag", codes: []string{CodeTagParse}},
		{typeName: "EmptySegment", codes: []string{CodeEmptySegment, CodeEmptySegment}},
		{typeName: "Duplicate", codes: []string{CodeDuplicatePath, CodeDuplicatePath}, fields: []string{"x.y", "x.y", "z", "z"}},
		{typeName: "Conflict", codes: []string{CodePathConflict}, fields: []string{"a", "a.b"}},
		{typeName: "FlatScalar", codes: []string{CodeFlattenType}},
		{typeName: "FlatOK", fields: []string{"", "z", "values"}},
		{typeName: "FlatSlice", codes: []string{CodeFlattenShared}, fields: []string{"name", ""}},
		{typeName: "FlatSliceAlone", fields: []string{""}},
		{typeName: "UnknownTransform", codes: []string{CodeUnknownTransform}, fields: []string{"loc"}},
		{typeName: "Misspelt", codes: []string{CodeUnknownTransform}, fields: []string{"loc"}},
		{typeName: "WrongTransform", codes: []string{CodeTransformType}, fields: []string{"loc"}},
		{typeName: "Cycle", fields: []string{"name", ""}},
		{typeName: "Embedded", fields: []string{"z", "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			s, ok := r.structs[tt.typeName]
			require.True(t, ok)

			assert.Equal(t, tt.codes, codes(r.diags[brokenPkg+"."+tt.typeName]))
			assert.Equal(t, tt.fields, paths(s))
		})
	}

	assert.True(t, r.all.HasErrors())
}

func TestCheck_DiagnosticDetails(t *testing.T) {
	r := checkBroken(t)

	dups := r.diags[brokenPkg+".Duplicate"]
	require.Len(t, dups, 2)
	assert.Equal(t, "Duplicate.Second", dups[0].FieldPath)
	assert.Contains(t, dups[0].Message, "Duplicate.First")
	assert.Equal(t, "Duplicate.Inner.Z", dups[1].FieldPath)
	assert.Equal(t, diagnostic.DiagnosticError, dups[0].Severity)
	assert.True(t, dups[0].Pos.IsValid())

	conflict := r.diags[brokenPkg+".Conflict"]
	require.Len(t, conflict, 1)
	assert.Equal(t, diagnostic.DiagnosticWarning, conflict[0].Severity)
	assert.Equal(t, "Conflict.Nested", conflict[0].FieldPath)

	unknown := r.diags[brokenPkg+".UnknownTransform"]
	require.Len(t, unknown, 1)
	assert.NotContains(t, unknown[0].Message, "did you mean")

	misspelt := r.diags[brokenPkg+".Misspelt"]
	require.Len(t, misspelt, 1)
	assert.Contains(t, misspelt[0].Message, `did you mean "toLocation"?`)

	shared := r.diags[brokenPkg+".FlatSlice"]
	require.Len(t, shared, 1)
	assert.Equal(t, "FlatSlice.Values", shared[0].FieldPath)
	assert.Contains(t, shared[0].Message, "[]string")

	wrong := r.diags[brokenPkg+".WrongTransform"]
	require.Len(t, wrong, 1)
	assert.Contains(t, wrong[0].Message, "field is string")
}

func TestCheck_Kinds(t *testing.T) {
	r := checkBroken(t)

	flat := r.structs["FlatOK"]
	require.Len(t, flat.Fields, 3)
	assert.True(t, flat.Fields[0].Flatten)
	assert.Nil(t, flat.Fields[0].Segments)
	assert.Equal(t, "map[string]string", flat.Fields[0].Type)
	assert.Equal(t, "FlatOK.Inner.Z", flat.Fields[1].GoPath)
	assert.Equal(t, KindArray, flat.Fields[2].Kind)

	cycle := r.structs["Cycle"]
	require.Len(t, cycle.Fields, 2)
	assert.Equal(t, KindOptional, cycle.Fields[1].Kind)
}

func TestCheck_Geo(t *testing.T) {
	cfg, err := config.LoadFile("../../examples/geo/.keyed.yaml")
	require.NoError(t, err)

	r := check(t, "keyed-codec/examples/geo", cfg)

	assert.Empty(t, r.all.All())
	assert.Equal(t, []string{"inner.greeting", "latitude", "longitude"}, paths(r.structs["Point"]))
	assert.Equal(t, []string{"meta.name", "meta.tags", ""}, paths(r.structs["Placemark"]))
	assert.Equal(t, "interLocation", r.structs["Placemark"].Fields[2].Transform)
}

func TestCheck_Geo_WithoutTransforms(t *testing.T) {
	r := check(t, "keyed-codec/examples/geo", nil)

	assert.Equal(t, []string{CodeUnknownTransform}, codes(r.diags["keyed-codec/examples/geo.Placemark"]))
}

func TestCheck_CustomDelimiter(t *testing.T) {
	cfg, err := config.Parse([]byte("key_options:\n  delimiter: none\n"))
	require.NoError(t, err)

	r := check(t, "./testdata/broken", cfg)

	assert.Equal(t, []string{"meta.name", "count"}, paths(r.structs["Good"]))
	assert.Equal(t, [][]string{{"meta.name"}, {"count"}}, [][]string{
		r.structs["Good"].Fields[0].Segments,
		r.structs["Good"].Fields[1].Segments,
	})
	assert.Empty(t, r.diags[brokenPkg+".EmptySegment"])
}
