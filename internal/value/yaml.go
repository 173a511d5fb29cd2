package value

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/starford/fmstat/internal/apperr"
)

// MaxDepth bounds the nesting accepted when converting external trees.
// Deeper input, including self-referencing aliases and cyclic Go maps, is
// rejected with apperr.ErrUnsupportedValue.
const MaxDepth = 256

// FromNode converts a decoded YAML node tree into a Value. Mapping key order
// is preserved and aliases are resolved.
func FromNode(n *yaml.Node) (Value, error) {
	return fromNode(n, 0)
}

func fromNode(n *yaml.Node, depth int) (Value, error) {
	if n == nil {
		return Null(), nil
	}
	if depth > MaxDepth {
		return Value{}, fmt.Errorf("yaml nesting deeper than %d: %w", MaxDepth, apperr.ErrUnsupportedValue)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth+1)
	case yaml.ScalarNode:
		return fromScalar(n), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindSequence, items: items}, nil
	case yaml.MappingNode:
		pairs := make([]Pair, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind == yaml.AliasNode && k.Alias != nil {
				k = k.Alias
			}
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: non-scalar mapping key: %w", k.Line, apperr.ErrUnsupportedValue)
			}
			v, err := fromNode(n.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k.Value, Value: v})
		}
		return Mapping(pairs...), nil
	}
	return Value{}, fmt.Errorf("yaml node kind %d: %w", n.Kind, apperr.ErrUnsupportedValue)
}

// fromScalar maps the resolved YAML tag onto the variant. Tags outside the
// core schema (timestamps, binary, custom) keep their literal text.
func fromScalar(n *yaml.Node) Value {
	switch n.ShortTag() {
	case "!!null":
		return Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return Bool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int64(i)
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Uint64(u)
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return Number(f)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return Number(f)
		}
	}
	return String(n.Value)
}

// ToNode converts v into a YAML node, keeping mapping order.
func (v Value) ToNode() *yaml.Node {
	switch v.kind {
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindNumber:
		if v.exact != "" {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.exact}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: numberTag(v.num), Value: yamlNumber(v.num)}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.items {
			n.Content = append(n.Content, it.ToNode())
		}
		return n
	case KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range v.pairs {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key},
				p.Value.ToNode())
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.ToNode(), nil
}

func yamlNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return formatNumber(f)
}

func numberTag(f float64) string {
	if isIntegral(f) {
		return "!!int"
	}
	return "!!float"
}
