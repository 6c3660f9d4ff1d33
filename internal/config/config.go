// Package config loads the .keyed.yaml file read by keyed-lint.
//
// The file has the following structure:
//
//	version: "1"
//	key_options:
//	  delimiter: "."     # a single character or "none"
//	  flat: empty        # none, empty or str:VALUE
//	transforms:
//	  - name: interLocation
//	    source_type: geo.InterLocation
//	    object_type: geo.Location
//	    description: Wire coordinates to Location
//
// Anything left out keeps the defaults of key.DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"keyed-codec/key"
)

// DefaultFileName is looked up in the working directory when no file is
// given.
const DefaultFileName = ".keyed.yaml"

// File is a parsed configuration file.
type File struct {
	Version    string      `yaml:"version"`
	Keys       key.Config  `yaml:",inline"`
	Transforms []Transform `yaml:"transforms,omitempty"`
}

// Transform declares a transform name that struct tags may reference.
type Transform struct {
	Name        string `yaml:"name"`
	SourceType  string `yaml:"source_type,omitempty"`
	ObjectType  string `yaml:"object_type,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{Keys: key.DefaultConfig()}
	applyDefaults(f)

	return f
}

// Load reads path, or DefaultFileName when path is empty. A missing default
// file yields Default.
func Load(path string) (*File, error) {
	if path != "" {
		return LoadFile(path)
	}

	f, err := LoadFile(DefaultFileName)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return f, err
}

// LoadFile loads and parses a configuration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	f := File{Keys: key.DefaultConfig()}

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := validate(&f); err != nil {
		return nil, err
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

func validate(f *File) error {
	seen := make(map[string]bool, len(f.Transforms))

	for i, t := range f.Transforms {
		if t.Name == "" {
			return fmt.Errorf("transforms[%d]: name is required", i)
		}

		if seen[t.Name] {
			return fmt.Errorf("transforms[%d]: duplicate transform %q", i, t.Name)
		}

		seen[t.Name] = true
	}

	return nil
}

// Transform returns the declared transform with the given name, or nil.
func (f *File) Transform(name string) *Transform {
	for i := range f.Transforms {
		if f.Transforms[i].Name == name {
			return &f.Transforms[i]
		}
	}

	return nil
}

// TransformNames returns the declared transform names in file order.
func (f *File) TransformNames() []string {
	names := make([]string, len(f.Transforms))
	for i, t := range f.Transforms {
		names[i] = t.Name
	}

	return names
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
