package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseTag(t *testing.T) {
	slash := Char('/')
	none := NoDelimiter
	sentinel := FlatString("_")

	tests := []struct {
		name     string
		tag      string
		expected Tag
		wantErr  bool
	}{
		{name: "name only", tag: "inner.greeting", expected: Tag{Name: "inner.greeting"}},
		{name: "skip", tag: "-", expected: Tag{Skip: true}},
		{name: "flat", tag: ",flat", expected: Tag{Flatten: true}},
		{name: "named flat", tag: "location,flat", expected: Tag{Name: "location", Flatten: true}},
		{name: "delim", tag: "a/b,delim=/", expected: Tag{Name: "a/b", Delimiter: &slash}},
		{name: "nodelim", tag: "a.b,nodelim", expected: Tag{Name: "a.b", Delimiter: &none}},
		{name: "flat rule", tag: "_,flat=str:_", expected: Tag{Name: "_", Flat: &sentinel}},
		{name: "transform", tag: ",flat,transform=Location", expected: Tag{Flatten: true, Transform: "Location"}},
		{name: "omitempty", tag: "note,omitempty", expected: Tag{Name: "note", OmitEmpty: true}},
		{name: "multi-char delim", tag: "a,delim=::", wantErr: true},
		{name: "empty delim", tag: "a,delim=", wantErr: true},
		{name: "bad flat rule", tag: "a,flat=sometimes", wantErr: true},
		{name: "empty transform", tag: "a,transform=", wantErr: true},
		{name: "unknown option", tag: "a,inline", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTag(tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTag_Key(t *testing.T) {
	base := DefaultConfig().KeyOptions

	tag, err := ParseTag("")
	require.NoError(t, err)
	k := tag.Key("Greeting", base)
	assert.Equal(t, "Greeting", k.Name)
	assert.Nil(t, k.Options, "no overrides keeps inheriting")

	tag, err = ParseTag(",flat")
	require.NoError(t, err)
	assert.Equal(t, "", tag.Key("Location", base).Name)

	tag, err = ParseTag("a/b,delim=/")
	require.NoError(t, err)
	k = tag.Key("Path", base)
	require.NotNil(t, k.Options)
	assert.Equal(t, Char('/'), k.Options.Delimiter)
	assert.Equal(t, base.Flat, k.Options.Flat, "flat rule inherited from base")
}

func TestConfig_YAML(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		delimiter Delimiter
		flat      FlatRule
	}{
		{name: "empty document keeps defaults", yaml: `{}`, delimiter: Char('.'), flat: FlatEmptyOrWhitespace},
		{name: "delimiter only", yaml: "key_options:\n  delimiter: /\n", delimiter: Char('/'), flat: FlatEmptyOrWhitespace},
		{name: "flat only", yaml: "key_options:\n  flat: str:_\n", delimiter: Char('.'), flat: FlatString("_")},
		{name: "both", yaml: "key_options:\n  delimiter: none\n  flat: none\n", delimiter: NoDelimiter, flat: FlatNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &cfg))
			assert.Equal(t, tt.delimiter, cfg.KeyOptions.Delimiter)
			assert.Equal(t, tt.flat, cfg.KeyOptions.Flat)
		})
	}
}

func TestConfig_YAMLErrors(t *testing.T) {
	var cfg Config
	assert.Error(t, yaml.Unmarshal([]byte("key_options:\n  delimiter: ab\n"), &cfg))
	assert.Error(t, yaml.Unmarshal([]byte("key_options:\n  flat: maybe\n"), &cfg))
	assert.Error(t, yaml.Unmarshal([]byte("key_options:\n  extra: 1\n"), &cfg))
}

func TestConfig_MarshalYAML(t *testing.T) {
	cfg := Config{KeyOptions: Options{Delimiter: Char('/'), Flat: FlatString("_")}}

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "str:_")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}
