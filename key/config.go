package key

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds the key options applied to keys that carry none.
type Config struct {
	KeyOptions Options `yaml:"key_options"`
}

// DefaultConfig splits on '.' and flattens empty or whitespace names.
func DefaultConfig() Config {
	return Config{
		KeyOptions: Options{
			Delimiter: Char('.'),
			Flat:      FlatEmptyOrWhitespace,
		},
	}
}

// Resolve returns the options in effect for k.
func (c Config) Resolve(k Key) Options {
	if k.Options != nil {
		return *k.Options
	}

	return c.KeyOptions
}

// UnmarshalYAML starts from DefaultConfig so partial documents keep the
// defaults for anything they leave out.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config

	cfg := plain(DefaultConfig())
	if err := node.Decode(&cfg); err != nil {
		return err
	}

	*c = Config(cfg)

	return nil
}

// UnmarshalYAML keeps unset fields of o untouched.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("key options: expected mapping, got %v", node.Kind)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]

		switch name {
		case "delimiter":
			if err := value.Decode(&o.Delimiter); err != nil {
				return err
			}
		case "flat":
			if err := value.Decode(&o.Flat); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key options: unknown field %q", name)
		}
	}

	return nil
}

// UnmarshalYAML accepts "none" or a single character.
func (d *Delimiter) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseDelimiter(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// MarshalYAML outputs the delimiter character or "none".
func (d Delimiter) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML accepts "none", "empty" or "str:VALUE".
func (f *FlatRule) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseFlatRule(s)
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// MarshalYAML outputs the rule in tag syntax.
func (f FlatRule) MarshalYAML() (any, error) {
	return f.String(), nil
}
