package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Delimiter splits a key name into path segments. The zero value is
// NoDelimiter.
type Delimiter struct {
	r rune
}

// NoDelimiter keeps the whole key name as a single segment.
var NoDelimiter = Delimiter{}

// Char returns a delimiter that splits on r.
func Char(r rune) Delimiter {
	return Delimiter{r: r}
}

// Rune returns the delimiter character and false for NoDelimiter.
func (d Delimiter) Rune() (rune, bool) {
	return d.r, d.r != 0
}

// String returns the delimiter character or "none".
func (d Delimiter) String() string {
	if d.r == 0 {
		return "none"
	}

	return string(d.r)
}

// ParseDelimiter parses "none" or a single character.
func ParseDelimiter(s string) (Delimiter, error) {
	if s == "none" || s == "" {
		return NoDelimiter, nil
	}

	if utf8.RuneCountInString(s) != 1 {
		return NoDelimiter, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}

	r, _ := utf8.DecodeRuneInString(s)

	return Char(r), nil
}

// FlatKind enumerates the flatten policies.
type FlatKind int

const (
	FlatKindNone FlatKind = iota
	FlatKindEmptyOrWhitespace
	FlatKindString
)

// FlatRule decides whether a key is the flatten marker.
type FlatRule struct {
	kind     FlatKind
	sentinel string
}

var (
	// FlatNone never flattens.
	FlatNone = FlatRule{}
	// FlatEmptyOrWhitespace flattens string keys whose name is empty after
	// trimming whitespace.
	FlatEmptyOrWhitespace = FlatRule{kind: FlatKindEmptyOrWhitespace}
)

// FlatString flattens keys whose name equals sentinel exactly.
func FlatString(sentinel string) FlatRule {
	return FlatRule{kind: FlatKindString, sentinel: sentinel}
}

// Kind returns the policy kind.
func (f FlatRule) Kind() FlatKind {
	return f.kind
}

// Sentinel returns the exact-match string of a FlatString rule.
func (f FlatRule) Sentinel() string {
	return f.sentinel
}

// IsFlat reports whether k is the flatten marker under this rule.
func (f FlatRule) IsFlat(k Key) bool {
	switch f.kind {
	case FlatKindEmptyOrWhitespace:
		return k.Index == nil && strings.TrimSpace(k.Name) == ""
	case FlatKindString:
		return k.Name == f.sentinel
	default:
		return false
	}
}

// String returns the rule in tag syntax: "none", "empty" or "str:S".
func (f FlatRule) String() string {
	switch f.kind {
	case FlatKindEmptyOrWhitespace:
		return "empty"
	case FlatKindString:
		return "str:" + f.sentinel
	default:
		return "none"
	}
}

// ParseFlatRule parses "none", "empty" or "str:S".
func ParseFlatRule(s string) (FlatRule, error) {
	switch {
	case s == "none":
		return FlatNone, nil
	case s == "empty":
		return FlatEmptyOrWhitespace, nil
	case strings.HasPrefix(s, "str:"):
		return FlatString(strings.TrimPrefix(s, "str:")), nil
	default:
		return FlatNone, fmt.Errorf("invalid flat rule %q: expected none, empty or str:VALUE", s)
	}
}

// Options configures how a key name is interpreted.
type Options struct {
	Delimiter Delimiter `yaml:"delimiter"`
	Flat      FlatRule  `yaml:"flat"`
}

// IsFlat reports whether k is the flatten marker under these options.
func (o Options) IsFlat(k Key) bool {
	return o.Flat.IsFlat(k)
}
