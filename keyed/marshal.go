package keyed

import (
	"keyed-codec/document"
)

// Unmarshal parses YAML or JSON data and decodes a T from its root.
func Unmarshal[T any](data []byte, s *Schema[T]) (T, error) {
	doc, err := document.Parse(data)
	if err != nil {
		var zero T
		return zero, err
	}

	return s.Decode(doc.Decoder())
}

// Marshal encodes v into a new document.
func Marshal[T any](s *Schema[T], v T) (*document.Document, error) {
	doc := document.New()
	if err := s.Encode(doc.Encoder(), v); err != nil {
		return nil, err
	}

	return doc, nil
}

// MarshalJSON encodes v as JSON.
func MarshalJSON[T any](s *Schema[T], v T) ([]byte, error) {
	doc, err := Marshal(s, v)
	if err != nil {
		return nil, err
	}

	return doc.JSON()
}

// MarshalYAML encodes v as YAML.
func MarshalYAML[T any](s *Schema[T], v T) ([]byte, error) {
	doc, err := Marshal(s, v)
	if err != nil {
		return nil, err
	}

	return doc.YAML()
}
