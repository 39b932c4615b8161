package triquad

import (
	"fmt"
	"math"
	"strings"
)

// Func is a compiled real function of x and y.
type Func struct {
	src  string
	root node
}

// Eval returns f(x, y). Domain violations surface as NaN or ±Inf, never as a panic.
func (f *Func) Eval(x, y float64) float64 {
	return f.root.eval(x, y)
}

// String returns the source expression.
func (f *Func) String() string {
	return f.src
}

// ParseFunc compiles a LaTeX style expression in x and y, e.g.
//
//	\frac{x^2}{2} + \sin(\pi y) - 3xy
//
// Symbols other than x, y, e and \pi are rejected.
func ParseFunc(src string) (*Func, error) {
	if strings.TrimSpace(src) == "" {
		return nil, parseError(src, fmt.Errorf("empty expression"))
	}
	toks, err := lex(src)
	if err != nil {
		return nil, parseError(src, err)
	}
	p := &parser{toks: toks}
	root, err := p.parseExpr()
	if err != nil {
		return nil, parseError(src, err)
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, parseError(src, p.unexpected(t))
	}
	return &Func{src: src, root: root}, nil
}

func parseError(src string, err error) error {
	return &Error{
		Op:   "parse",
		Kind: KindParse,
		Msg:  fmt.Sprintf("error parsing function string %q", src),
		Err:  err,
	}
}

// node is an element of the expression tree.
type node interface {
	eval(x, y float64) float64
}

type num float64

func (n num) eval(_, _ float64) float64 { return float64(n) }

type variable byte

func (v variable) eval(x, y float64) float64 {
	if v == 'x' {
		return x
	}
	return y
}

type neg struct{ a node }

func (n neg) eval(x, y float64) float64 { return -n.a.eval(x, y) }

// negate folds constants so that "-1" stays a literal.
func negate(a node) node {
	if c, ok := a.(num); ok {
		return -c
	}
	return neg{a}
}

type binary struct {
	op   byte
	a, b node
}

func (n binary) eval(x, y float64) float64 {
	a, b := n.a.eval(x, y), n.b.eval(x, y)
	switch n.op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	default:
		return math.Pow(a, b)
	}
}

type call struct {
	fn func(float64) float64
	a  node
}

func (n call) eval(x, y float64) float64 { return n.fn(n.a.eval(x, y)) }

type call2 struct {
	fn   func(a, b float64) float64
	a, b node
}

func (n call2) eval(x, y float64) float64 { return n.fn(n.a.eval(x, y), n.b.eval(x, y)) }

var funcs = map[string]func(float64) float64{
	"sin":    math.Sin,
	"cos":    math.Cos,
	"tan":    math.Tan,
	"cot":    func(v float64) float64 { return 1 / math.Tan(v) },
	"sec":    func(v float64) float64 { return 1 / math.Cos(v) },
	"csc":    func(v float64) float64 { return 1 / math.Sin(v) },
	"arcsin": math.Asin,
	"arccos": math.Acos,
	"arctan": math.Atan,
	"sinh":   math.Sinh,
	"cosh":   math.Cosh,
	"tanh":   math.Tanh,
	"exp":    math.Exp,
	"ln":     math.Log,
	"log":    math.Log,
	"abs":    math.Abs,
}

// f^{-1} denotes the inverse function where one exists.
var inverses = map[string]string{
	"sin": "arcsin",
	"cos": "arccos",
	"tan": "arctan",
}

func logBase(v, base float64) float64 {
	return math.Log(v) / math.Log(base)
}

// root returns the n-th root of v, keeping odd roots of negative numbers real.
func root(v, n float64) float64 {
	if v < 0 && n == math.Trunc(n) && math.Mod(n, 2) != 0 {
		return -math.Pow(-v, 1/n)
	}
	return math.Pow(v, 1/n)
}

type parser struct {
	toks     []token
	pos      int
	absDepth int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) unexpected(t token) error {
	return fmt.Errorf("unexpected %s at offset %d", t, t.pos)
}

func (p *parser) expect(op byte) error {
	t := p.next()
	if !t.is(op) {
		if t.kind == tokEOF {
			return fmt.Errorf("missing %q at end of input", op)
		}
		return fmt.Errorf("expected %q, got %s at offset %d", op, t, t.pos)
	}
	return nil
}

func isMulCmd(t token) bool {
	return t.kind == tokCmd && (t.text == "cdot" || t.text == "times" || t.text == "ast")
}

func isDivCmd(t token) bool {
	return t.kind == tokCmd && t.text == "div"
}

func isFuncCmd(t token) bool {
	if t.kind != tokCmd {
		return false
	}
	_, ok := funcs[t.text]
	return ok
}

// startsOperand reports whether t can begin an implicit multiplication operand.
func (p *parser) startsOperand(t token) bool {
	switch t.kind {
	case tokNum, tokIdent:
		return true
	case tokCmd:
		return !isMulCmd(t) && !isDivCmd(t)
	case tokOp:
		return t.is('(') || t.is('{') || t.is('[') || (t.is('|') && p.absDepth == 0)
	}
	return false
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !t.is('+') && !t.is('-') {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: t.text[0], a: left, b: right}
	}
}

// term := unary (('*' | '/' | implicit) unary)*
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op byte
		switch {
		case t.is('*') || isMulCmd(t):
			p.next()
			op = '*'
		case t.is('/') || isDivCmd(t):
			p.next()
			op = '/'
		case p.startsOperand(t):
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = binary{op: '*', a: left, b: right}
			continue
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, a: left, b: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	t := p.peek()
	switch {
	case t.is('-'):
		p.next()
		a, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate(a), nil
	case t.is('+'):
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

// power := primary ('^' exponent)?
func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.peek().is('^') {
		return base, nil
	}
	p.next()
	exp, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return binary{op: '^', a: base, b: exp}, nil
}

// exponent is right associative and binds a single operand unless braced.
func (p *parser) parseExponent() (node, error) {
	t := p.peek()
	switch {
	case t.is('-'):
		p.next()
		a, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		return negate(a), nil
	case t.is('+'):
		p.next()
		return p.parseExponent()
	}
	return p.parsePower()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of input")
	case tokNum:
		return num(t.val), nil
	case tokIdent:
		switch t.text {
		case "x", "y":
			return variable(t.text[0]), nil
		case "e":
			return num(math.E), nil
		}
		return nil, fmt.Errorf("unknown symbol %q at offset %d, only x and y are allowed", t.text, t.pos)
	case tokCmd:
		return p.parseCommand(t)
	}

	var closing byte
	switch {
	case t.is('('):
		closing = ')'
	case t.is('{'):
		closing = '}'
	case t.is('['):
		closing = ']'
	case t.is('|'):
		p.absDepth++
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.absDepth--
		if err := p.expect('|'); err != nil {
			return nil, err
		}
		return call{fn: math.Abs, a: a}, nil
	default:
		return nil, p.unexpected(t)
	}

	// A group opened inside |...| may hold its own bars.
	depth := p.absDepth
	p.absDepth = 0
	a, err := p.parseExpr()
	p.absDepth = depth
	if err != nil {
		return nil, err
	}
	if err := p.expect(closing); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *parser) parseCommand(t token) (node, error) {
	switch t.text {
	case "pi":
		return num(math.Pi), nil
	case "frac", "dfrac", "tfrac":
		a, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		b, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return binary{op: '/', a: a, b: b}, nil
	case "sqrt":
		var n node = num(2)
		if p.peek().is('[') {
			p.next()
			var err error
			if n, err = p.parseExpr(); err != nil {
				return nil, err
			}
			if err := p.expect(']'); err != nil {
				return nil, err
			}
		}
		a, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		return call2{fn: root, a: a, b: n}, nil
	}
	if _, ok := funcs[t.text]; ok {
		return p.parseFunction(t)
	}
	return nil, fmt.Errorf("unknown command %s at offset %d", t, t.pos)
}

// parseGroup reads a braced argument of \frac or \sqrt. Without braces only
// one digit is taken, so \frac12 reads as 1/2.
func (p *parser) parseGroup() (node, error) {
	t := p.peek()
	if t.is('{') {
		p.next()
		depth := p.absDepth
		p.absDepth = 0
		a, err := p.parseExpr()
		p.absDepth = depth
		if err != nil {
			return nil, err
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		return a, nil
	}
	if t.kind == tokNum && len(t.text) > 1 && !strings.Contains(t.text, ".") {
		digit := float64(t.text[0] - '0')
		rest := t.text[1:]
		p.toks[p.pos].text = rest
		p.toks[p.pos].val = parseDigits(rest)
		p.toks[p.pos].pos++
		return num(digit), nil
	}
	return p.parsePrimary()
}

func parseDigits(s string) float64 {
	var v float64
	for i := 0; i < len(s); i++ {
		v = v*10 + float64(s[i]-'0')
	}
	return v
}

// parseFunction handles \name^{p}_{b} arg. A parenthesised argument is taken
// as is; otherwise the argument runs over an implicit product and stops at
// the next operator or function.
func (p *parser) parseFunction(t token) (node, error) {
	var power, base node
	for i := 0; i < 2; i++ {
		switch {
		case p.peek().is('^') && power == nil:
			p.next()
			var err error
			if power, err = p.parseExponent(); err != nil {
				return nil, err
			}
		case p.peek().is('_') && base == nil:
			if t.text != "log" {
				return nil, fmt.Errorf("subscript not allowed on %s at offset %d", t, t.pos)
			}
			p.next()
			var err error
			if base, err = p.parseGroup(); err != nil {
				return nil, err
			}
		}
	}

	var (
		arg node
		err error
	)
	next := p.peek()
	if next.is('(') || next.is('{') || next.is('[') || next.is('|') {
		arg, err = p.parsePrimary()
	} else {
		arg, err = p.parseImplicitArg()
	}
	if err != nil {
		return nil, err
	}

	name := t.text
	if c, ok := power.(num); ok && c == -1 {
		if inv, ok := inverses[name]; ok {
			return call{fn: funcs[inv], a: arg}, nil
		}
	}

	var out node = call{fn: funcs[name], a: arg}
	if base != nil {
		out = call2{fn: logBase, a: arg, b: base}
	}
	if power != nil {
		out = binary{op: '^', a: out, b: power}
	}
	return out, nil
}

func (p *parser) parseImplicitArg() (node, error) {
	a, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if !p.startsOperand(t) || isFuncCmd(t) {
			return a, nil
		}
		b, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		a = binary{op: '*', a: a, b: b}
	}
}
