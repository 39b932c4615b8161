package triquad

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ReferenceScale rescales a rule tabulated on the reference triangle, whose area
// is 1/2, to a triangle of the actual area: ∫f ≈ 2·Area·Σ wᵢ f(pᵢ).
const ReferenceScale = 2.0

// Evaluate approximates the integral of expr over the triangle using the
// quadrature rule given by nodes and weights.
//
// Counts are validated before the expression is parsed, and the expression is
// parsed before any node is evaluated, so the most specific error is returned.
func Evaluate(t Triangle, expr string, nodes []Node, weights []float64) (float64, error) {
	if err := checkRule(nodes, weights); err != nil {
		return 0, err
	}
	f, err := ParseFunc(expr)
	if err != nil {
		return 0, err
	}
	return EvaluateFunc(t, f, nodes, weights)
}

// EvaluateFunc is like Evaluate but takes an already compiled function.
func EvaluateFunc(t Triangle, f *Func, nodes []Node, weights []float64) (float64, error) {
	if err := checkRule(nodes, weights); err != nil {
		return 0, err
	}
	points := MapNodes(t, nodes)
	values := make([]float64, len(points))
	for i, pt := range points {
		v := f.Eval(pt.X, pt.Y)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &Error{
				Op:   "evaluate",
				Kind: KindEvaluation,
				Msg:  fmt.Sprintf("error evaluating function at node (%v,%v)", pt.X, pt.Y),
				Err:  fmt.Errorf("result is %v", v),
			}
		}
		values[i] = v
	}
	if len(values) == 0 {
		return 0, nil
	}
	sum := floats.Dot(weights, values)

	return sum * Area(t) * ReferenceScale, nil
}

// EvaluateRule integrates expr with a named rule.
func EvaluateRule(t Triangle, expr string, r Rule) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return Evaluate(t, expr, r.Nodes, r.Weights)
}

func checkRule(nodes []Node, weights []float64) error {
	if len(nodes) != len(weights) {
		return validationError("evaluate", "Number of nodes and weights must match")
	}
	return nil
}
