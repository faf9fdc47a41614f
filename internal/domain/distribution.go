package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DrawRange is the exclusive upper bound of a distribution draw.
const DrawRange = 100

// Weighted is one outcome of a Distribution and its weight.
type Weighted[T comparable] struct {
	Value  T
	Weight int
}

// Distribution maps outcomes to integer weights and keeps insertion order.
// Weights need not sum to DrawRange; a draw that falls past the last bucket
// selects nothing and the caller's fallback applies.
type Distribution[T comparable] struct {
	buckets []Weighted[T]
}

// NewDistribution builds a distribution from buckets in the given order.
func NewDistribution[T comparable](buckets ...Weighted[T]) Distribution[T] {
	out := make([]Weighted[T], len(buckets))
	copy(out, buckets)
	return Distribution[T]{buckets: out}
}

// Buckets returns a copy of the buckets in insertion order.
func (d Distribution[T]) Buckets() []Weighted[T] {
	out := make([]Weighted[T], len(d.buckets))
	copy(out, d.buckets)
	return out
}

// Len returns the number of buckets.
func (d Distribution[T]) Len() int {
	return len(d.buckets)
}

// Total returns the sum of all weights.
func (d Distribution[T]) Total() int {
	total := 0
	for _, b := range d.buckets {
		total += b.Weight
	}
	return total
}

// Pick walks the cumulative buckets and returns the first one whose
// cumulative weight exceeds draw.
func (d Distribution[T]) Pick(draw int) (T, bool) {
	cumulative := 0
	for _, b := range d.buckets {
		cumulative += b.Weight
		if draw < cumulative {
			return b.Value, true
		}
	}
	var zero T
	return zero, false
}

// PickOr is Pick with a fallback outcome.
func (d Distribution[T]) PickOr(draw int, fallback T) T {
	if v, ok := d.Pick(draw); ok {
		return v
	}
	return fallback
}

// UnmarshalYAML decodes a YAML mapping in document order.
func (d *Distribution[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected mapping, got %s", ErrInvalidDistribution, nodeKind(node.Kind))
	}
	buckets := make([]Weighted[T], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var b Weighted[T]
		if err := node.Content[i].Decode(&b.Value); err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrInvalidDistribution, node.Content[i].Value, err)
		}
		if err := node.Content[i+1].Decode(&b.Weight); err != nil {
			return fmt.Errorf("%w: weight for %q: %v", ErrInvalidDistribution, node.Content[i].Value, err)
		}
		buckets = append(buckets, b)
	}
	d.buckets = buckets
	return nil
}

// MarshalYAML encodes the distribution as a mapping in insertion order.
func (d Distribution[T]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, b := range d.buckets {
		var key, value yaml.Node
		if err := key.Encode(b.Value); err != nil {
			return nil, err
		}
		if err := value.Encode(b.Weight); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
