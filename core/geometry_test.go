package triquad_test

import (
	"math"
	"testing"

	triquad "github.com/triquad/triquad/core"
)

const eps = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestArea_ReferenceTriangle(t *testing.T) {
	if got := triquad.Area(triquad.ReferenceTriangle); got != 0.5 {
		t.Fatalf("reference triangle area should be 0.5, got %v", got)
	}
}

func TestArea_RotationAndSwap(t *testing.T) {
	tri := triquad.Triangle{{-1.5, 0.25}, {3, 1}, {0.5, 4}}
	area := triquad.Area(tri)
	signed := triquad.SignedArea(tri)

	rotations := []triquad.Triangle{
		{tri[1], tri[2], tri[0]},
		{tri[2], tri[0], tri[1]},
	}
	for _, r := range rotations {
		if got := triquad.SignedArea(r); !almostEqual(got, signed) {
			t.Errorf("rotated signed area = %v, want %v", got, signed)
		}
	}

	swapped := triquad.Triangle{tri[1], tri[0], tri[2]}
	if got := triquad.SignedArea(swapped); !almostEqual(got, -signed) {
		t.Errorf("swapped signed area = %v, want %v", got, -signed)
	}
	if got := triquad.Area(swapped); !almostEqual(got, area) {
		t.Errorf("swapped area = %v, want %v", got, area)
	}
}

func TestArea_Degenerate(t *testing.T) {
	cases := []triquad.Triangle{
		{{0, 0}, {1, 1}, {2, 2}},
		{{3, 3}, {3, 3}, {3, 3}},
	}
	for _, tri := range cases {
		if got := triquad.Area(tri); got != 0 {
			t.Errorf("Area(%v) = %v, want 0", tri, got)
		}
	}
}

func TestMapNodes_ReferenceIsIdentity(t *testing.T) {
	nodes := []triquad.Node{{0.2, 0.3}, {1.0 / 3, 1.0 / 3}, {0, 0}, {1, 0}, {0.7, 0.1}}
	got := triquad.MapNodes(triquad.ReferenceTriangle, nodes)
	if len(got) != len(nodes) {
		t.Fatalf("expected %d points, got %d", len(nodes), len(got))
	}
	for i, n := range nodes {
		want := triquad.Point{X: n.L1, Y: n.L2}
		if !almostEqual(got[i].X, want.X) || !almostEqual(got[i].Y, want.Y) {
			t.Errorf("node %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestMapNodes_VertexOrderMatters(t *testing.T) {
	// Same triangle as a point set, vertices listed as (0,0), (1,0), (0,1).
	tri := triquad.Triangle{{0, 0}, {1, 0}, {0, 1}}
	got := triquad.MapNodes(tri, []triquad.Node{{0.2, 0.3}})
	want := triquad.Point{X: 0.3, Y: 0.5}
	if !almostEqual(got[0].X, want.X) || !almostEqual(got[0].Y, want.Y) {
		t.Fatalf("got %v, want %v", got[0], want)
	}
}

func TestMapNodes_Vertices(t *testing.T) {
	tri := triquad.Triangle{{2, 1}, {5, -1}, {-3, 4}}
	nodes := []triquad.Node{{1, 0}, {0, 1}, {0, 0}}
	got := triquad.MapNodes(tri, nodes)
	for i := range tri {
		if got[i] != tri[i] {
			t.Errorf("node %d: got %v, want vertex %v", i, got[i], tri[i])
		}
	}
}

func TestMapNodes_Extrapolates(t *testing.T) {
	got := triquad.MapNodes(triquad.Triangle{{0, 0}, {1, 0}, {0, 1}}, []triquad.Node{{1, 1}})
	want := triquad.Point{X: 1, Y: -1}
	if got[0] != want {
		t.Fatalf("got %v, want %v", got[0], want)
	}
}

func TestMapNodes_Empty(t *testing.T) {
	if got := triquad.MapNodes(triquad.ReferenceTriangle, nil); len(got) != 0 {
		t.Fatalf("expected no points, got %v", got)
	}
}

func TestBounds(t *testing.T) {
	r := triquad.Bounds(triquad.Point{1, 2}, triquad.Point{-1, 5}, triquad.Point{3, 0})
	if r.Min != (triquad.Point{-1, 0}) || r.Max != (triquad.Point{3, 5}) {
		t.Fatalf("unexpected bounds %+v", r)
	}
	if r.Dx() != 4 || r.Dy() != 5 {
		t.Fatalf("unexpected size %vx%v", r.Dx(), r.Dy())
	}
	if !triquad.Bounds().Empty() {
		t.Fatalf("bounds of no points should be empty")
	}
}
