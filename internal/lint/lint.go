// Package lint checks `keyed` struct tags against the key rules without
// running any decoder.
//
// For every struct with at least one `keyed` tag it resolves each field
// to the key path it reads, follows flattened structs into the enclosing
// key space and reports:
//
//   - tags that do not parse
//   - empty path segments
//   - two fields resolving to the same key path
//   - a path used both as a value and as a container (warning)
//   - flattened fields that are neither struct, pointer to struct, map
//     nor slice
//   - flattened slices that share their container with other fields
//   - transform names missing from the configuration, naming the closest
//     declared one when it is near
//   - declared object types that differ from the field type (warning)
package lint

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"keyed-codec/internal/analyze"
	"keyed-codec/internal/config"
	"keyed-codec/internal/diagnostic"
	"keyed-codec/internal/suggest"
	"keyed-codec/key"
	"keyed-codec/keypath"
)

// Diagnostic codes.
const (
	CodeTagParse         = "tag-parse"
	CodeEmptySegment     = "empty-segment"
	CodeDuplicatePath    = "duplicate-path"
	CodePathConflict     = "path-conflict"
	CodeFlattenType      = "flatten-type"
	CodeFlattenShared    = "flatten-shared"
	CodeUnknownTransform = "unknown-transform"
	CodeTransformType    = "transform-type"
)

// Kind names, matching the field kinds of package keyed.
const (
	KindPlain    = "plain"
	KindOptional = "optional"
	KindArray    = "array"
)

// Field is one resolved field of a struct.
type Field struct {
	// GoPath is the Go field path from the struct, through flattened
	// fields.
	GoPath string
	// Segments is the key path, nil for a flattened field whose contents
	// are not known statically.
	Segments []string
	// Path is Segments rendered with the field's delimiter.
	Path      string
	Flatten   bool
	Kind      string
	Type      string
	Transform string
}

// Struct is the resolved key layout of one tagged struct.
type Struct struct {
	ID     analyze.TypeID
	Fields []Field
}

// Linter resolves and checks tagged structs under one configuration.
type Linter struct {
	config *config.File
	log    zerolog.Logger
}

// New creates a Linter. A nil cfg means config.Default.
func New(cfg *config.File, log zerolog.Logger) *Linter {
	if cfg == nil {
		cfg = config.Default()
	}

	return &Linter{config: cfg, log: log}
}

// Check resolves every tagged struct of graph.
func (l *Linter) Check(graph *analyze.TypeGraph) ([]Struct, diagnostic.Diagnostics) {
	var (
		out   []Struct
		diags diagnostic.Diagnostics
	)

	for _, t := range graph.TaggedStructs() {
		s, d := l.Resolve(t)
		out = append(out, s)
		diags.Merge(d)
	}

	return out, diags
}

// Resolve resolves the fields of one struct and checks them.
func (l *Linter) Resolve(t *analyze.TypeInfo) (Struct, diagnostic.Diagnostics) {
	r := &resolver{
		linter:   l,
		typeName: t.ID.String(),
		visiting: map[*analyze.TypeInfo]bool{t: true},
	}

	r.fields(t, analyze.NewTypePath(t.ID.Name))
	r.checkPaths()
	r.checkShared()

	l.log.Debug().
		Str("type", r.typeName).
		Int("fields", len(r.out)).
		Int("errors", len(r.diags.Errors)).
		Msg("resolved struct")

	return Struct{ID: t.ID, Fields: r.out}, r.diags
}

// resolver collects the fields of one struct. sequences indexes the
// flattened slices in out.
type resolver struct {
	linter    *Linter
	typeName  string
	visiting  map[*analyze.TypeInfo]bool
	out       []Field
	pos       []analyze.FieldInfo
	diags     diagnostic.Diagnostics
	sequences []int
}

func (r *resolver) report(sev diagnostic.DiagnosticSeverity, code string, f analyze.FieldInfo, goPath, format string, args ...any) {
	r.diags.Add(diagnostic.Diagnostic{
		Severity:  sev,
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Type:      r.typeName,
		FieldPath: goPath,
		Pos:       f.Pos,
	})
}

func (r *resolver) add(field Field, f analyze.FieldInfo) {
	r.out = append(r.out, field)
	r.pos = append(r.pos, f)
}

func (r *resolver) fields(t *analyze.TypeInfo, path *analyze.TypePath) {
	cfg := r.linter.config.Keys

	for _, f := range t.Fields {
		goPath := path.Field(f.Name).String()
		raw, hasTag := f.KeyedTag()

		tag, err := key.ParseTag(raw)
		if err != nil {
			r.report(diagnostic.DiagnosticError, CodeTagParse, f, goPath, "%v", err)
			continue
		}

		if tag.Skip {
			continue
		}

		k := tag.Key(f.FallbackName(), cfg.KeyOptions)
		opts := cfg.Resolve(k)

		field := Field{
			GoPath:    goPath,
			Flatten:   tag.Flatten || opts.IsFlat(k) || (f.Embedded && !hasTag),
			Kind:      kindOf(f.Type),
			Type:      analyze.TypeString(f.Type),
			Transform: tag.Transform,
		}

		if tag.Transform != "" {
			r.checkTransform(f, goPath, tag.Transform)
		}

		if field.Flatten {
			r.flatten(f, field, path.Field(f.Name))
			continue
		}

		segments, err := k.Segments(opts)
		if err != nil {
			r.report(diagnostic.DiagnosticError, CodeEmptySegment, f, goPath, "%v", err)

			continue
		}

		field.Segments = segments
		field.Path = keypath.Join(segments, opts.Delimiter)
		r.add(field, f)
	}
}

// flatten merges the key space of a flattened struct into the current
// one. Maps, slices and transformed fields have no static layout and are
// recorded as they are.
func (r *resolver) flatten(f analyze.FieldInfo, field Field, path *analyze.TypePath) {
	if field.Transform != "" {
		r.add(field, f)
		return
	}

	t := f.Type.Resolved()
	if t.Kind == analyze.TypeKindPointer && t.ElemType != nil && t.ElemType.Resolved().Kind == analyze.TypeKindStruct {
		t = t.ElemType.Resolved()
	}

	switch t.Kind {
	case analyze.TypeKindStruct:
		if r.visiting[t] {
			r.add(field, f)
			return
		}

		r.visiting[t] = true
		r.fields(t, path)
		delete(r.visiting, t)

	case analyze.TypeKindMap:
		r.add(field, f)

	case analyze.TypeKindSlice:
		r.sequences = append(r.sequences, len(r.out))
		r.add(field, f)

	default:
		r.report(diagnostic.DiagnosticError, CodeFlattenType, f, field.GoPath,
			"flattened field has type %s, want a struct, pointer to struct, map or slice", field.Type)
	}
}

func (r *resolver) checkTransform(f analyze.FieldInfo, goPath, name string) {
	declared := r.linter.config.Transform(name)
	if declared == nil {
		msg := fmt.Sprintf("transform %q is not declared", name)
		if near, ok := suggest.Closest(name, r.linter.config.TransformNames()); ok {
			msg += fmt.Sprintf(", did you mean %q?", near)
		}

		r.report(diagnostic.DiagnosticError, CodeUnknownTransform, f, goPath, "%s", msg)

		return
	}

	if declared.ObjectType == "" || f.Type.GoType == nil {
		return
	}

	if got := f.Type.GoType.String(); got != declared.ObjectType {
		r.report(diagnostic.DiagnosticWarning, CodeTransformType, f, goPath,
			"transform %q produces %s, field is %s", name, declared.ObjectType, got)
	}
}

// checkPaths reports duplicate paths and paths that are both a value and
// the container of another path.
func (r *resolver) checkPaths() {
	seen := make(map[string]int, len(r.out))

	for i, field := range r.out {
		if field.Segments == nil {
			continue
		}

		id := pathID(field.Segments)
		if first, ok := seen[id]; ok {
			r.report(diagnostic.DiagnosticError, CodeDuplicatePath, r.pos[i], field.GoPath,
				"key path %s is already used by %s", field.Path, r.out[first].GoPath)

			continue
		}

		seen[id] = i
	}

	for i, field := range r.out {
		for n := 1; n < len(field.Segments); n++ {
			if other, ok := seen[pathID(field.Segments[:n])]; ok {
				r.report(diagnostic.DiagnosticWarning, CodePathConflict, r.pos[i], field.GoPath,
					"key path %s nests under the value of %s", field.Path, r.out[other].GoPath)

				break
			}
		}
	}
}

// checkShared reports flattened slices resolved next to other fields. A
// sequence cannot share the enclosing mapping.
func (r *resolver) checkShared() {
	if len(r.out) < 2 {
		return
	}

	for _, i := range r.sequences {
		r.report(diagnostic.DiagnosticError, CodeFlattenShared, r.pos[i], r.out[i].GoPath,
			"flattened %s shares its container with %d other fields", r.out[i].Type, len(r.out)-1)
	}
}

func pathID(segments []string) string {
	return strings.Join(segments, "\x00")
}

// kindOf mirrors how keyed.Reflect picks the kind of a field.
func kindOf(t *analyze.TypeInfo) string {
	t = t.Resolved()

	switch t.Kind {
	case analyze.TypeKindPointer:
		return KindOptional
	case analyze.TypeKindSlice:
		if e := t.ElemType; e != nil && e.Kind == analyze.TypeKindBasic && e.GoType.String() == "uint8" {
			return KindPlain
		}

		return KindArray
	default:
		return KindPlain
	}
}
