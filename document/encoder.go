package document

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"keyed-codec/container"
)

type encoder struct {
	node *yaml.Node
	path []string
}

func (e *encoder) Keyed() (container.KeyedEncoder, error) {
	if e.node.Kind != yaml.MappingNode {
		if written(e.node) {
			return nil, mismatch(e.path, "mapping", e.node)
		}

		*e.node = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}

	return &keyedEncoder{node: e.node, path: e.path}, nil
}

func (e *encoder) Unkeyed() (container.UnkeyedEncoder, error) {
	if e.node.Kind != yaml.SequenceNode {
		if written(e.node) {
			return nil, mismatch(e.path, "sequence", e.node)
		}

		*e.node = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	}

	return &unkeyedEncoder{node: e.node, path: e.path}, nil
}

func (e *encoder) Encode(v any) error {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return fmt.Errorf("%s: failed to encode value: %w", container.FormatPath(e.path), err)
	}

	if e.node.Kind == yaml.MappingNode && n.Kind == yaml.MappingNode {
		merge(e.node, &n)
		return nil
	}

	if written(e.node) && (n.Kind != e.node.Kind || e.node.Kind != yaml.ScalarNode) {
		return fmt.Errorf("%s: %w: cannot write %s over %s",
			container.FormatPath(e.path), container.ErrTypeMismatch, kindName(&n), kindName(e.node))
	}

	*e.node = n

	return nil
}

// written reports whether n already has a shape that a value of another
// shape would destroy. Containers count even when empty, since a keyed or
// unkeyed view of them may still be in use. Fresh positions and nulls do
// not count.
func written(n *yaml.Node) bool {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return true
	case yaml.ScalarNode:
		return n.ShortTag() != "!!null"
	default:
		return false
	}
}

func (e *encoder) Path() []string {
	return e.path
}

// merge copies the entries of src into dst, replacing values of keys that
// dst already has.
func merge(dst, src *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		k, v := src.Content[i], src.Content[i+1]

		replaced := false
		for j := 0; j+1 < len(dst.Content); j += 2 {
			if dst.Content[j].Value == k.Value {
				dst.Content[j+1] = v
				replaced = true

				break
			}
		}

		if !replaced {
			dst.Content = append(dst.Content, k, v)
		}
	}
}

type keyedEncoder struct {
	node *yaml.Node
	path []string
}

func (k *keyedEncoder) Nested(key string) (container.KeyedEncoder, error) {
	return k.Value(key).Keyed()
}

func (k *keyedEncoder) Value(key string) container.Encoder {
	path := child(k.path, key)

	for i := 0; i+1 < len(k.node.Content); i += 2 {
		if k.node.Content[i].Value == key {
			return &encoder{node: k.node.Content[i+1], path: path}
		}
	}

	value := &yaml.Node{}
	k.node.Content = append(k.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)

	return &encoder{node: value, path: path}
}

func (k *keyedEncoder) Encoder() container.Encoder {
	return &encoder{node: k.node, path: k.path}
}

type unkeyedEncoder struct {
	node *yaml.Node
	path []string
}

func (u *unkeyedEncoder) Append() container.Encoder {
	value := &yaml.Node{}
	path := child(u.path, fmt.Sprintf("[%d]", len(u.node.Content)))
	u.node.Content = append(u.node.Content, value)

	return &encoder{node: value, path: path}
}
