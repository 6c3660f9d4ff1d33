// Package keyed decodes and encodes Go values through explicit per-field
// key paths.
//
// Each field of a type is declared once, with its key, its kind and how
// its value is converted:
//
//	var pointSchema = keyed.MustSchema([]keyed.Field[Point]{
//	    keyed.Plain("inner.greeting", func(p *Point) *string { return &p.Greeting }, keyed.Value[string]()),
//	    keyed.Plain("", func(p *Point) *Location { return &p.Location }, locationSchema),
//	})
//
// # Key paths
//
// A key name is split into segments by its delimiter, '.' unless
// configured otherwise. Decoding "inner.greeting" reads the same value as
// a nested "inner" object holding "greeting". Encoding builds exactly the
// intermediate objects the written fields need.
//
// # Flattening
//
// A field whose key matches the flatten rule, or that was declared with
// Flatten, reads and writes the enclosing object itself:
//
//   - Plain fields decode from the enclosing object and fail like any
//     other field.
//   - Optional fields decode as nil when the enclosing object does not
//     decode as their value.
//   - Array fields decode from the enclosing sequence, skipping elements
//     that do not decode. A position that is not a sequence decodes as an
//     empty one.
//
// These recovered failures are logged at debug level through the schema
// logger. Failures of a bound transformer are never recovered and are
// reported as ErrTransformFailed.
//
// # Transformers
//
// PlainCoded, OptionalCoded and ArrayCoded store a field in the document
// as a source type S and convert it with a Transformer into the field
// type. A transformer may omit the field on encode by returning ok ==
// false.
//
// # Struct tags
//
// Reflect builds a schema from `keyed` struct tags instead. Transform
// names in tags are looked up in the Registry given with WithRegistry.
package keyed
