package triquad_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	triquad "github.com/triquad/triquad/core"
)

var unitTriangle = triquad.Triangle{{0, 0}, {1, 0}, {0, 1}}

// Degree 2 rule with interior nodes. Weights sum to 1/2, the reference area,
// so the rule integrates exactly.
var threePoint = struct {
	nodes   []triquad.Node
	weights []float64
}{
	nodes:   []triquad.Node{{1.0 / 6, 1.0 / 6}, {2.0 / 3, 1.0 / 6}, {1.0 / 6, 2.0 / 3}},
	weights: []float64{1.0 / 6, 1.0 / 6, 1.0 / 6},
}

// Weights summing to 1 give 1 · Area · 2 = 1 on the unit triangle.
func TestEvaluate_ConstantOverUnitTriangle(t *testing.T) {
	rules := []struct {
		name    string
		nodes   []triquad.Node
		weights []float64
	}{
		{"centroid", []triquad.Node{{1.0 / 3, 1.0 / 3}}, []float64{1}},
		{"three point", threePoint.nodes, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{"edge midpoints", []triquad.Node{{0.5, 0}, {0.5, 0.5}, {0, 0.5}}, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}},
	}
	for _, r := range rules {
		got, err := triquad.Evaluate(unitTriangle, "1", r.nodes, r.weights)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", r.name, err)
		}
		if !almostEqual(got, 1.0) {
			t.Errorf("%s: got %v, want 1", r.name, got)
		}
	}
}

func TestEvaluate_PolynomialsAreExact(t *testing.T) {
	tri := triquad.Triangle{{1, 1}, {4, 2}, {2, 5}}
	area := triquad.Area(tri)
	cx := (tri[0].X + tri[1].X + tri[2].X) / 3

	got, err := triquad.Evaluate(tri, "x", threePoint.nodes, threePoint.weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ∫x dA = Area · centroid x.
	if want := area * cx; math.Abs(got-want) > 1e-9 {
		t.Fatalf("∫x = %v, want %v", got, want)
	}

	// ∫x² over the unit triangle is 1/12, the three point rule is exact for degree 2.
	got, err = triquad.Evaluate(unitTriangle, "x^2", threePoint.nodes, threePoint.weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1.0/12) > 1e-12 {
		t.Fatalf("∫x² = %v, want %v", got, 1.0/12)
	}
}

func TestEvaluate_ScalesWithArea(t *testing.T) {
	big := triquad.Triangle{{0, 0}, {4, 0}, {0, 3}}
	got, err := triquad.Evaluate(big, "2", []triquad.Node{{1.0 / 3, 1.0 / 3}}, []float64{0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 2*6) {
		t.Fatalf("got %v, want 12", got)
	}
}

func TestEvaluate_DegenerateTriangle(t *testing.T) {
	tri := triquad.Triangle{{0, 0}, {1, 1}, {2, 2}}
	got, err := triquad.Evaluate(tri, "x+y", threePoint.nodes, threePoint.weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("zero area triangle should integrate to 0, got %v", got)
	}
}

func TestEvaluate_EmptyRule(t *testing.T) {
	got, err := triquad.Evaluate(unitTriangle, "x", []triquad.Node{}, []float64{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestEvaluate_MismatchIsValidationError(t *testing.T) {
	// The expression is invalid too; the count mismatch must win.
	_, err := triquad.Evaluate(unitTriangle, "x +", threePoint.nodes, []float64{1})
	if !errors.Is(err, triquad.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if triquad.KindOf(err) != triquad.KindValidation {
		t.Fatalf("unexpected kind %q", triquad.KindOf(err))
	}
}

func TestEvaluate_ParseError(t *testing.T) {
	_, err := triquad.Evaluate(unitTriangle, "\\frac{x}{", threePoint.nodes, threePoint.weights)
	if !triquad.IsKind(err, triquad.KindParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestEvaluate_EvaluationErrorNamesNode(t *testing.T) {
	// 1/x blows up at the vertex (0,0) which node (1,0) maps onto.
	_, err := triquad.Evaluate(unitTriangle, "\\frac{1}{x}", []triquad.Node{{1, 0}}, []float64{1})
	if !errors.Is(err, triquad.ErrEvaluation) {
		t.Fatalf("expected evaluation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "(0,0)") {
		t.Fatalf("error should name the node coordinates, got %q", err)
	}
}

func TestEvaluateRule(t *testing.T) {
	r := triquad.Rule{Name: "centroid", Nodes: []triquad.Node{{1.0 / 3, 1.0 / 3}}, Weights: []float64{1}}
	got, err := triquad.EvaluateRule(unitTriangle, "1", r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 1) {
		t.Fatalf("got %v, want 1", got)
	}

	r.Weights = nil
	if _, err := triquad.EvaluateRule(unitTriangle, "1", r); !errors.Is(err, triquad.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	f, err := triquad.ParseFunc("\\sin(\\pi x) e^{y} + x^2 y")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = triquad.EvaluateFunc(unitTriangle, f, threePoint.nodes, threePoint.weights)
	}
}
