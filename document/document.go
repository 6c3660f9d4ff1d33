// Package document implements the container positions on top of a
// gopkg.in/yaml.v3 node tree.
//
// YAML 1.2 is a superset of JSON, so Parse accepts both. Output is produced
// as YAML through yaml.v3 or as JSON through encoding/json after the tree
// has been converted to plain Go values.
package document

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"keyed-codec/container"
)

// Document is a mutable node tree.
type Document struct {
	root *yaml.Node
}

// New returns an empty document, ready to be encoded into.
func New() *Document {
	return &Document{root: &yaml.Node{}}
}

// FromNode wraps an existing node. Document nodes are unwrapped to their
// content.
func FromNode(node *yaml.Node) *Document {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	return &Document{root: node}
}

// Parse parses YAML or JSON data.
func Parse(data []byte) (*Document, error) {
	var node yaml.Node

	err := yaml.Unmarshal(data, &node)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	return FromNode(&node), nil
}

// Node returns the root node.
func (d *Document) Node() *yaml.Node {
	return d.root
}

// Decoder returns a read position at the root.
func (d *Document) Decoder() container.Decoder {
	return &decoder{node: d.root}
}

// Encoder returns a write position at the root.
func (d *Document) Encoder() container.Encoder {
	return &encoder{node: d.root}
}

// Interface converts the document into maps, slices and scalars.
func (d *Document) Interface() (any, error) {
	normalize(d.root)

	if d.root.Kind == 0 {
		return nil, nil
	}

	var v any
	if err := d.root.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to convert document: %w", err)
	}

	return v, nil
}

// YAML serializes the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	normalize(d.root)

	if d.root.Kind == 0 {
		return []byte("null\n"), nil
	}

	data, err := yaml.Marshal(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	return data, nil
}

// JSON serializes the document as JSON. Map keys come out sorted.
func (d *Document) JSON() ([]byte, error) {
	v, err := d.Interface()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	return data, nil
}

// normalize turns positions that were created but never written into
// explicit nulls so the tree can be serialized.
func normalize(n *yaml.Node) {
	if n == nil || n.Kind == 0 {
		return
	}

	for _, c := range n.Content {
		if c.Kind == 0 {
			*c = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
			continue
		}

		normalize(c)
	}
}
