package triquad

import "math"

// Point is a vertex or a mapped node in Cartesian coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Triangle holds the three vertices A, B and C in the order supplied by the caller.
// Degenerate (zero area) triangles are accepted.
type Triangle [3]Point

// ReferenceTriangle is the triangle (0,0), (1,0), (0,1) the tabulated rules are
// expressed against, listed so that MapNodes sends (λ1, λ2) to the point (λ1, λ2).
var ReferenceTriangle = Triangle{{1, 0}, {0, 1}, {0, 0}}

// MapNodes converts reference nodes into absolute coordinates of the target triangle.
// The third barycentric coordinate is implied as 1-λ1-λ2, so each node maps to
//
//	λ1*A + λ2*B + (1-λ1-λ2)*C
//
// Nodes outside the reference triangle are not rejected, they simply extrapolate
// past the triangle edges. The output preserves the input order.
func MapNodes(t Triangle, nodes []Node) []Point {
	a, b, c := t[0], t[1], t[2]
	out := make([]Point, len(nodes))
	for i, n := range nodes {
		l3 := 1.0 - n.L1 - n.L2
		out[i] = Point{
			X: n.L1*a.X + n.L2*b.X + l3*c.X,
			Y: n.L1*a.Y + n.L2*b.Y + l3*c.Y,
		}
	}
	return out
}

// SignedArea returns the oriented area of the triangle using the shoelace formula.
// The result is positive for counter-clockwise vertex order.
func SignedArea(t Triangle) float64 {
	x1, y1 := t[0].X, t[0].Y
	x2, y2 := t[1].X, t[1].Y
	x3, y3 := t[2].X, t[2].Y

	return (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2)) / 2.0
}

// Area returns the absolute triangle area. Collinear vertices give 0.
func Area(t Triangle) float64 {
	return math.Abs(SignedArea(t))
}

// Rect is an axis aligned bounding box.
type Rect struct {
	Min, Max Point
}

// Dx returns the width of the box.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the height of the box.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the box covers no points.
func (r Rect) Empty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Bounds returns the bounding box of the points. An empty input yields an Empty box.
func Bounds(points ...Point) Rect {
	r := Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
	for _, p := range points {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}
