package key

import (
	"fmt"
	"strings"
)

// TagName is the struct tag consulted for key declarations.
const TagName = "keyed"

// Tag is a parsed `keyed` struct tag.
type Tag struct {
	Name      string
	Skip      bool
	Flatten   bool
	OmitEmpty bool
	Transform string

	// Delimiter and Flat are set only when the tag overrides them.
	Delimiter *Delimiter
	Flat      *FlatRule
}

// ParseTag parses the value of a `keyed` struct tag.
func ParseTag(tag string) (Tag, error) {
	if tag == "-" {
		return Tag{Skip: true}, nil
	}

	name, rest, _ := strings.Cut(tag, ",")
	t := Tag{Name: name}

	if rest == "" {
		return t, nil
	}

	for opt := range strings.SplitSeq(rest, ",") {
		optName, value, hasValue := strings.Cut(opt, "=")

		switch optName {
		case "delim":
			d, err := ParseDelimiter(value)
			if err != nil || value == "" || value == "none" {
				return Tag{}, fmt.Errorf("tag %q: invalid delim %q", tag, value)
			}
			t.Delimiter = &d

		case "nodelim":
			d := NoDelimiter
			t.Delimiter = &d

		case "flat":
			if !hasValue {
				t.Flatten = true
				continue
			}

			rule, err := ParseFlatRule(value)
			if err != nil {
				return Tag{}, fmt.Errorf("tag %q: %w", tag, err)
			}
			t.Flat = &rule

		case "transform":
			if value == "" {
				return Tag{}, fmt.Errorf("tag %q: transform requires a name", tag)
			}
			t.Transform = value

		case "omitempty":
			t.OmitEmpty = true

		default:
			return Tag{}, fmt.Errorf("tag %q: unknown option %q", tag, optName)
		}
	}

	return t, nil
}

// Options merges the tag overrides onto base. It returns nil when the tag
// overrides nothing so the key keeps inheriting from its Config.
func (t Tag) Options(base Options) *Options {
	if t.Delimiter == nil && t.Flat == nil {
		return nil
	}

	o := base
	if t.Delimiter != nil {
		o.Delimiter = *t.Delimiter
	}

	if t.Flat != nil {
		o.Flat = *t.Flat
	}

	return &o
}

// Key builds the key declared by the tag, using fallback when the tag has
// no name.
func (t Tag) Key(fallback string, base Options) Key {
	name := t.Name
	if name == "" && !t.Flatten {
		name = fallback
	}

	return Key{Name: name, Options: t.Options(base)}
}
