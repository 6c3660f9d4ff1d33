// Package key models the serialization key of a single field.
//
// A key is a plain name ("greeting"), a dotted path ("inner.greeting") or
// the flatten marker (by default the empty or whitespace-only name), which
// makes the field read and write its contents in the enclosing object
// instead of under its own key.
//
// # Options
//
// Every key is interpreted through Options:
//
//   - Delimiter: NoDelimiter, or Char(r) to split the name into segments
//   - Flat: FlatNone, FlatEmptyOrWhitespace, or FlatString(s)
//
// A key without its own options inherits them from a Config. The default
// Config splits on '.' and flattens empty or whitespace names.
//
// # Tag Syntax
//
// Struct fields may declare their key with a `keyed` tag:
//
//	Greeting string    `keyed:"inner.greeting"`
//	Location *Location `keyed:",flat"`
//	Path     string    `keyed:"a/b,delim=/"`
//	Raw      string    `keyed:"a.b,nodelim"`
//	Extra    string    `keyed:"-"`
//
// Recognized options are delim=C, nodelim, flat, flat=none|empty|str:S,
// transform=NAME and omitempty.
package key
