package keyed

import (
	"errors"
	"fmt"
)

var (
	// ErrStringParseFailed reports a string value that a Text codec could
	// not parse.
	ErrStringParseFailed = errors.New("string parse failed")
	// ErrTransformFailed reports a failure of a bound transformer.
	ErrTransformFailed = errors.New("transform failed")
	// ErrFlattenShared reports a flattened field that does not encode as a
	// mapping declared next to other fields of the same container.
	ErrFlattenShared = errors.New("flattened non-mapping value shares its container")
)

// FieldError attaches the failing field to a decode or encode error.
type FieldError struct {
	Field string
	Key   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s (key %q): %v", e.Field, e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func transformFailed(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransformFailed, name, err)
}
