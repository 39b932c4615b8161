package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	triquad "github.com/triquad/triquad/core"
)

const defaultVertices = "0,0,1,0,0,1"

// parseVertices reads "x1,y1,x2,y2,x3,y3".
func parseVertices(s string) (triquad.Triangle, error) {
	var t triquad.Triangle
	v, err := parseFloats(s)
	if err != nil {
		return t, fmt.Errorf("vertices: %w", err)
	}
	if len(v) != 6 {
		return t, fmt.Errorf("vertices: want 6 numbers x1,y1,x2,y2,x3,y3, got %d", len(v))
	}
	for i := range t {
		t[i] = triquad.Point{X: v[2*i], Y: v[2*i+1]}
	}
	return t, nil
}

// parseNodes reads "l1,l2,w;l1,l2,w;...". Nodes without a weight are
// accepted when weights are not needed.
func parseNodes(s string, needWeights bool) ([]triquad.Node, []float64, error) {
	var (
		nodes   []triquad.Node
		weights []float64
	)
	for i, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := parseFloats(part)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i+1, err)
		}
		switch {
		case len(v) == 3:
			weights = append(weights, v[2])
		case len(v) == 2 && !needWeights:
		default:
			return nil, nil, fmt.Errorf("node %d: want l1,l2,weight, got %d numbers", i+1, len(v))
		}
		nodes = append(nodes, triquad.Node{L1: v[0], L2: v[1]})
	}
	if len(nodes) == 0 {
		return nil, nil, fmt.Errorf("no nodes given")
	}
	return nodes, weights, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// selectRule resolves --rule and --nodes into a single rule. Exactly one of
// them must be set.
func (a *app) selectRule(ctx context.Context, name, nodes string, needWeights bool) (triquad.Rule, error) {
	switch {
	case name != "" && nodes != "":
		return triquad.Rule{}, fmt.Errorf("--rule and --nodes are mutually exclusive")
	case nodes != "":
		n, w, err := parseNodes(nodes, needWeights)
		if err != nil {
			return triquad.Rule{}, err
		}
		return triquad.Rule{Name: "custom", Nodes: n, Weights: w}, nil
	case name != "":
		c, err := a.loader().Load(ctx)
		if err != nil {
			return triquad.Rule{}, err
		}
		r, ok := c.Get(name)
		if !ok {
			return triquad.Rule{}, fmt.Errorf("unknown rule %q, see `triquad catalog list`", name)
		}
		return r, nil
	default:
		return triquad.Rule{}, fmt.Errorf("one of --rule or --nodes is required")
	}
}
