package document

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"keyed-codec/container"
)

type decoder struct {
	node *yaml.Node
	path []string
}

func (d *decoder) Keyed() (container.KeyedDecoder, error) {
	n := resolve(d.node)
	if n.Kind != yaml.MappingNode {
		return nil, mismatch(d.path, "mapping", n)
	}

	return &keyedDecoder{node: n, path: d.path}, nil
}

func (d *decoder) Unkeyed() (container.UnkeyedDecoder, error) {
	n := resolve(d.node)
	if n.Kind != yaml.SequenceNode {
		return nil, mismatch(d.path, "sequence", n)
	}

	return &unkeyedDecoder{node: n, path: d.path}, nil
}

func (d *decoder) IsNull() bool {
	n := resolve(d.node)
	return n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func (d *decoder) Decode(v any) error {
	n := resolve(d.node)
	if n.Kind == 0 {
		return fmt.Errorf("%s: %w", container.FormatPath(d.path), container.ErrKeyNotFound)
	}

	if err := n.Decode(v); err != nil {
		return fmt.Errorf("%s: %w: %w", container.FormatPath(d.path), container.ErrTypeMismatch, err)
	}

	return nil
}

func (d *decoder) Path() []string {
	return d.path
}

type keyedDecoder struct {
	node *yaml.Node
	path []string
}

func (k *keyedDecoder) lookup(key string) *yaml.Node {
	for i := 0; i+1 < len(k.node.Content); i += 2 {
		if k.node.Content[i].Value == key {
			return k.node.Content[i+1]
		}
	}

	return nil
}

func (k *keyedDecoder) Contains(key string) bool {
	return k.lookup(key) != nil
}

func (k *keyedDecoder) Keys() []string {
	keys := make([]string, 0, len(k.node.Content)/2)
	for i := 0; i+1 < len(k.node.Content); i += 2 {
		keys = append(keys, k.node.Content[i].Value)
	}

	return keys
}

func (k *keyedDecoder) Nested(key string) (container.KeyedDecoder, error) {
	dec, err := k.Value(key)
	if err != nil {
		return nil, err
	}

	return dec.Keyed()
}

func (k *keyedDecoder) Value(key string) (container.Decoder, error) {
	path := child(k.path, key)

	n := k.lookup(key)
	if n == nil {
		return nil, fmt.Errorf("%s: %w", container.FormatPath(path), container.ErrKeyNotFound)
	}

	return &decoder{node: n, path: path}, nil
}

func (k *keyedDecoder) Decoder() container.Decoder {
	return &decoder{node: k.node, path: k.path}
}

type unkeyedDecoder struct {
	node *yaml.Node
	path []string
}

func (u *unkeyedDecoder) Len() int {
	return len(u.node.Content)
}

func (u *unkeyedDecoder) At(i int) container.Decoder {
	return &decoder{node: u.node.Content[i], path: child(u.path, fmt.Sprintf("[%d]", i))}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

func child(path []string, key string) []string {
	return append(slices.Clip(path), key)
}

func mismatch(path []string, want string, n *yaml.Node) error {
	return fmt.Errorf("%s: %w: expected %s, got %s",
		container.FormatPath(path), container.ErrTypeMismatch, want, kindName(n))
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return "null"
		}

		return "scalar " + n.ShortTag()
	case 0:
		return "nothing"
	default:
		return "unknown"
	}
}
