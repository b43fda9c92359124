// Package document models a parsed metadata document as a tagged-variant
// tree of mapping, sequence and scalar nodes. The loader and the structural
// validator both consume this tree; neither ever touches raw bytes again
// after decoding.
package document

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the three node shapes.
type Kind int

const (
	// KindScalar is a string, number, boolean or null leaf.
	KindScalar Kind = iota
	// KindMapping is a collection of named children.
	KindMapping
	// KindSequence is an ordered list of children.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Node is one node of the document tree. The zero Node is a null scalar.
type Node struct {
	kind   Kind
	keys   []string
	fields map[string]*Node
	elems  []*Node
	scalar any // string | float64 | bool | nil
}

// Decode parses JSON bytes into a document tree.
func Decode(data []byte) (*Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return FromAny(raw), nil
}

// FromAny converts an already-unmarshalled JSON value into a document tree.
// Mapping keys are held sorted so traversal order is deterministic.
func FromAny(v any) *Node {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make(map[string]*Node, len(val))
		for _, k := range keys {
			fields[k] = FromAny(val[k])
		}
		return &Node{kind: KindMapping, keys: keys, fields: fields}
	case []any:
		elems := make([]*Node, 0, len(val))
		for _, e := range val {
			elems = append(elems, FromAny(e))
		}
		return &Node{kind: KindSequence, elems: elems}
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return &Node{kind: KindScalar, scalar: val.String()}
		}
		return &Node{kind: KindScalar, scalar: f}
	case string, float64, bool, nil:
		return &Node{kind: KindScalar, scalar: val}
	case int:
		return &Node{kind: KindScalar, scalar: float64(val)}
	default:
		return &Node{kind: KindScalar, scalar: fmt.Sprintf("%v", val)}
	}
}

// Kind reports the node's shape.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindScalar
	}
	return n.kind
}

// Keys returns the mapping's key set in sorted order; nil for non-mappings.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	return n.keys
}

// Field returns the named child of a mapping, or nil when absent.
func (n *Node) Field(key string) *Node {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	return n.fields[key]
}

// Has reports whether the mapping carries the named child.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindMapping {
		return false
	}
	_, ok := n.fields[key]
	return ok
}

// Len reports a sequence's element count and a mapping's field count.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindSequence:
		return len(n.elems)
	case KindMapping:
		return len(n.fields)
	default:
		return 0
	}
}

// Elems returns a sequence's children in document order; nil otherwise.
func (n *Node) Elems() []*Node {
	if n == nil || n.kind != KindSequence {
		return nil
	}
	return n.elems
}

// StringValue returns the scalar's string form and whether it is a string.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.kind != KindScalar {
		return "", false
	}
	s, ok := n.scalar.(string)
	return s, ok
}

// NumberValue returns the scalar's numeric form and whether it is a number.
func (n *Node) NumberValue() (float64, bool) {
	if n == nil || n.kind != KindScalar {
		return 0, false
	}
	f, ok := n.scalar.(float64)
	return f, ok
}

// IsNull reports whether the node is a null scalar (including a nil Node).
func (n *Node) IsNull() bool {
	return n == nil || (n.kind == KindScalar && n.scalar == nil)
}

// Str returns the string value of the named child, or "" when the child is
// absent or not a string.
func (n *Node) Str(key string) string {
	s, _ := n.Field(key).StringValue()
	return s
}

// Interface converts the tree back into plain maps, slices and scalars,
// the representation schema validators consume.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindMapping:
		out := make(map[string]any, len(n.fields))
		for _, k := range n.keys {
			out[k] = n.fields[k].Interface()
		}
		return out
	case KindSequence:
		out := make([]any, 0, len(n.elems))
		for _, e := range n.elems {
			out = append(out, e.Interface())
		}
		return out
	default:
		return n.scalar
	}
}

// Walk visits the tree depth-first, pre-order. Mapping children are visited
// in sorted key order, sequence children in document order. Walk never
// mutates the tree.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch n.kind {
	case KindMapping:
		for _, k := range n.keys {
			Walk(n.fields[k], visit)
		}
	case KindSequence:
		for _, e := range n.elems {
			Walk(e, visit)
		}
	}
}
