// Package catalog loads the table of named quadrature rules for triangles.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	triquad "github.com/triquad/triquad/core"
)

// Catalog is an ordered set of rules keyed by name.
type Catalog struct {
	rules []triquad.Rule
	index map[string]int
}

// New builds a catalog from rules. A repeated name replaces the earlier rule.
func New(rules ...triquad.Rule) *Catalog {
	c := &Catalog{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		c.add(r)
	}
	return c
}

func (c *Catalog) add(r triquad.Rule) {
	if i, ok := c.index[r.Name]; ok {
		c.rules[i] = r
		return
	}
	c.index[r.Name] = len(c.rules)
	c.rules = append(c.rules, r)
}

// Len returns the number of rules.
func (c *Catalog) Len() int { return len(c.rules) }

// Get returns the rule with the given name.
func (c *Catalog) Get(name string) (triquad.Rule, bool) {
	i, ok := c.index[name]
	if !ok {
		return triquad.Rule{}, false
	}
	return c.rules[i], true
}

// Names returns the rule names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Rules returns a copy of the rules in catalog order.
func (c *Catalog) Rules() []triquad.Rule {
	out := make([]triquad.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// MarshalJSON encodes the catalog as {name: rule, ...} in catalog order.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range c.rules {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		if r.Nodes == nil {
			r.Nodes = []triquad.Node{}
		}
		if r.Weights == nil {
			r.Weights = []float64{}
		}
		body, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DefaultDescription is used for rules whose source entry has no description.
func DefaultDescription(name string) string {
	return "Preset integration formula " + name
}

// Transform reshapes a source document into rules: each [λ1, λ2, w] row is
// split into a node and a weight, and a missing description is replaced with
// DefaultDescription.
func Transform(doc *Document) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(doc.Entries))}
	for _, e := range doc.Entries {
		r := triquad.Rule{
			Name:    e.Key,
			Nodes:   make([]triquad.Node, 0, len(e.Data)),
			Weights: make([]float64, 0, len(e.Data)),
		}
		for i, row := range e.Data {
			if len(row) < 3 {
				return nil, fmt.Errorf("rule %q: row %d has %d values, want [λ1, λ2, weight]", e.Key, i, len(row))
			}
			r.Nodes = append(r.Nodes, triquad.Node{L1: row[0], L2: row[1]})
			r.Weights = append(r.Weights, row[2])
		}
		if e.Description != nil {
			r.Description = *e.Description
		} else {
			r.Description = DefaultDescription(e.Key)
		}
		c.add(r)
	}
	return c, nil
}
