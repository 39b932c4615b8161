package triquad_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	triquad "github.com/triquad/triquad/core"
)

func TestParseFunc_Evaluates(t *testing.T) {
	const x, y = 0.5, 2.0
	cases := []struct {
		src  string
		want float64
	}{
		{"1", 1},
		{"x", x},
		{"x+y", x + y},
		{"x - y", x - y},
		{"2x", 2 * x},
		{"xy", x * y},
		{"3xy^2", 3 * x * y * y},
		{"x^2", x * x},
		{"x^{2}+y^{3}", x*x + y*y*y},
		{"y^-1", 1 / y},
		{"2^3^2", 512},
		{"-x^2", -x * x},
		{"x \\cdot y", x * y},
		{"x \\times y", x * y},
		{"x \\div y", x / y},
		{"x**2", x * x},
		{"\\frac{x}{y}", x / y},
		{"\\dfrac{1}{2}x", 0.5 * x},
		{"\\frac12", 0.5},
		{"\\sqrt{y}", math.Sqrt(y)},
		{"\\sqrt[3]{-8}", -2},
		{"\\sin(x)", math.Sin(x)},
		{"\\sin x", math.Sin(x)},
		{"\\sin{x}", math.Sin(x)},
		{"\\sin 2x", math.Sin(2 * x)},
		{"\\sin x \\cos y", math.Sin(x) * math.Cos(y)},
		{"\\sin^2 x + \\cos^2 x", 1},
		{"\\sin^{-1} x", math.Asin(x)},
		{"\\sin(x)^2", math.Pow(math.Sin(x), 2)},
		{"\\exp(x)", math.Exp(x)},
		{"e^{x}", math.Exp(x)},
		{"\\ln y", math.Log(y)},
		{"\\log_2 8", 3},
		{"\\log_{10}(100)", 2},
		{"\\pi", math.Pi},
		{"2\\pi x", 2 * math.Pi * x},
		{"\\left(x+1\\right)(y-1)", (x + 1) * (y - 1)},
		{"|x - y|", math.Abs(x - y)},
		{"|x||y|", x * y},
		{"\\tan x + \\cot x", math.Tan(x) + 1/math.Tan(x)},
		{"sin(x) + cos(y)", math.Sin(x) + math.Cos(y)},
		{"\\cosh y - \\sinh y", math.Exp(-y)},
		{"[x + y] / 2", (x + y) / 2},
		{"2 π", 2 * math.Pi},
		{".5x", 0.5 * x},
	}
	for _, c := range cases {
		f, err := triquad.ParseFunc(c.src)
		if err != nil {
			t.Errorf("ParseFunc(%q) failed: %v", c.src, err)
			continue
		}
		if got := f.Eval(x, y); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("ParseFunc(%q).Eval = %v, want %v", c.src, got, c.want)
		}
	}
}

func TestParseFunc_Errors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"x +",
		"(x",
		"x)",
		"z",
		"x + a",
		"\\foo{x}",
		"\\frac{1}",
		"\\sin_2 x",
		"x $ y",
		"\\",
	}
	for _, src := range cases {
		_, err := triquad.ParseFunc(src)
		if err == nil {
			t.Errorf("ParseFunc(%q) should fail", src)
			continue
		}
		if !errors.Is(err, triquad.ErrParse) {
			t.Errorf("ParseFunc(%q) error should be a parse error, got %v", src, err)
		}
		if !strings.Contains(err.Error(), "error parsing function string") {
			t.Errorf("ParseFunc(%q) error should name the input, got %q", src, err)
		}
	}
}

func TestParseFunc_DomainErrorsAreNotFinite(t *testing.T) {
	cases := []string{"\\sqrt{x - 1}", "\\ln(x - 0.5)", "\\frac{1}{x - 0.5}"}
	for _, src := range cases {
		f, err := triquad.ParseFunc(src)
		if err != nil {
			t.Fatalf("ParseFunc(%q) failed: %v", src, err)
		}
		v := f.Eval(0.5, 0)
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			t.Errorf("%q at x=0.5 should not be finite, got %v", src, v)
		}
	}
}

func TestFunc_String(t *testing.T) {
	f, err := triquad.ParseFunc("x^2")
	if err != nil {
		t.Fatal(err)
	}
	if f.String() != "x^2" {
		t.Fatalf("unexpected source %q", f.String())
	}
}
