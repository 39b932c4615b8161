/*
Package triquad implements numerical integration over triangles with
tabulated quadrature rules.

Rules are expressed on the reference triangle (0,0), (1,0), (0,1). A node
(λ1, λ2) is mapped into a target triangle ABC as λ1·A + λ2·B + (1-λ1-λ2)·C,
and an integral is approximated as

	2 · Area(ABC) · Σ wᵢ f(pᵢ)

where the factor 2 accounts for the reference triangle's area of 1/2.

The integrand is given as a LaTeX style expression in x and y:

	f, err := triquad.ParseFunc(`\frac{x^2}{2} + \sin(\pi y)`)
	if err != nil {
		// errors.Is(err, triquad.ErrParse)
	}
	v, err := triquad.EvaluateFunc(tri, f, rule.Nodes, rule.Weights)
*/
package triquad
