package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyed-codec/key"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
key_options:
  delimiter: "/"
  flat: str:_
transforms:
  - name: interLocation
    source_type: geo.InterLocation
    object_type: geo.Location
    description: Wire coordinates to Location
  - name: atoi
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, key.Char('/'), f.Keys.KeyOptions.Delimiter)
	assert.Equal(t, key.FlatString("_"), f.Keys.KeyOptions.Flat)

	require.Len(t, f.Transforms, 2)
	tr := f.Transform("interLocation")
	require.NotNil(t, tr)
	assert.Equal(t, "geo.InterLocation", tr.SourceType)
	assert.Equal(t, "geo.Location", tr.ObjectType)
	assert.Nil(t, f.Transform("missing"))
}

func TestParse_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		delimiter key.Delimiter
		flat      key.FlatRule
	}{
		{name: "empty file", yaml: ``, delimiter: key.Char('.'), flat: key.FlatEmptyOrWhitespace},
		{name: "only transforms", yaml: "transforms: []\n", delimiter: key.Char('.'), flat: key.FlatEmptyOrWhitespace},
		{name: "partial key options", yaml: "key_options:\n  flat: none\n", delimiter: key.Char('.'), flat: key.FlatNone},
		{name: "no delimiter", yaml: "key_options:\n  delimiter: none\n", delimiter: key.NoDelimiter, flat: key.FlatEmptyOrWhitespace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			assert.Equal(t, "1", f.Version)
			assert.Equal(t, tt.delimiter, f.Keys.KeyOptions.Delimiter)
			assert.Equal(t, tt.flat, f.Keys.KeyOptions.Flat)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{name: "bad yaml", yaml: "key_options: [", msg: "failed to parse config YAML"},
		{name: "unknown key option", yaml: "key_options:\n  separator: x\n", msg: "unknown field"},
		{name: "long delimiter", yaml: "key_options:\n  delimiter: ab\n", msg: "failed to parse config YAML"},
		{name: "unnamed transform", yaml: "transforms:\n  - source_type: int\n", msg: "name is required"},
		{name: "duplicate transform", yaml: "transforms:\n  - name: a\n  - name: a\n", msg: "duplicate transform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("transforms:\n  - name: atoi\n"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.NotNil(t, f.Transform("atoi"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	f, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := Default()
	in.Keys.KeyOptions.Delimiter = key.Char('/')
	in.Transforms = []Transform{{Name: "atoi", SourceType: "string", ObjectType: "int"}}

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
