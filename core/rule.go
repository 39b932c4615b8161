package triquad

import (
	"encoding/json"
	"fmt"
)

// Node is a quadrature node given in reference coordinates (λ1, λ2).
// It is encoded as a two element JSON array.
type Node struct {
	L1, L2 float64
}

// MarshalJSON encodes the node as [λ1, λ2].
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{n.L1, n.L2})
}

// UnmarshalJSON decodes a node from an array of at least two numbers.
// Trailing entries, such as a weight, are ignored.
func (n *Node) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("node must be an array of numbers: %w", err)
	}
	if len(v) < 2 {
		return fmt.Errorf("node must have 2 coordinates, got %d", len(v))
	}
	n.L1, n.L2 = v[0], v[1]
	return nil
}

// Rule is a named quadrature rule on the reference triangle.
type Rule struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Nodes       []Node    `json:"nodes"`
	Weights     []float64 `json:"weights"`
}

// Validate checks that every node has a matching weight.
func (r Rule) Validate() error {
	if len(r.Nodes) != len(r.Weights) {
		return &Error{
			Op:   "rule.validate",
			Kind: KindValidation,
			Msg:  fmt.Sprintf("rule %q has %d nodes and %d weights", r.Name, len(r.Nodes), len(r.Weights)),
		}
	}
	return nil
}
