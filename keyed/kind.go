package keyed

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind is the shape of a field, fixed when the field is declared. It
// decides how a flattened field recovers from missing data.
type Kind int

const (
	KindPlain    Kind = iota // required single value
	KindOptional             // may be absent, decodes as empty on failure when flattened
	KindArray                // sequence, decodes as empty when flattened and absent
)
