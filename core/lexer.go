package triquad

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent // single letter symbol
	tokCmd   // \name, or a bare function name such as sin
	tokOp    // single punctuation character
)

type token struct {
	kind tokenKind
	text string
	val  float64
	pos  int
}

func (t token) is(op byte) bool {
	return t.kind == tokOp && len(t.text) == 1 && t.text[0] == op
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokCmd:
		return fmt.Sprintf("%q", `\`+t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// Sizing and delimiter commands carry no meaning for evaluation.
var ignoredCmds = map[string]bool{
	"left": true, "right": true,
	"big": true, "Big": true, "bigg": true, "Bigg": true,
	"bigl": true, "bigr": true, "Bigl": true, "Bigr": true,
	"displaystyle": true, "mathrm": true, "operatorname": true,
}

// Function names recognised without a leading backslash, longest first
// so that "cosh" wins over "cos".
var bareNames = []string{
	"arcsin", "arccos", "arctan",
	"sinh", "cosh", "tanh", "sqrt",
	"sin", "cos", "tan", "cot", "sec", "csc",
	"exp", "log", "abs",
	"ln", "pi",
}

const opChars = "+-*/^_()[]{}|,"

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			v, err := strconv.ParseFloat(src[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at offset %d", src[start:i], start)
			}
			toks = append(toks, token{kind: tokNum, text: src[start:i], val: v, pos: start})
		case c == '\\':
			start := i
			i++
			if i >= len(src) {
				return nil, fmt.Errorf("dangling backslash at offset %d", start)
			}
			if !isLetter(src[i]) {
				switch src[i] {
				case ',', ';', ':', '!', ' ', '\\':
					// spacing and line breaks
				case '{', '}', '|':
					toks = append(toks, token{kind: tokOp, text: src[i : i+1], pos: start})
				default:
					return nil, fmt.Errorf("unknown command %q at offset %d", src[start:i+1], start)
				}
				i++
				continue
			}
			j := i
			for j < len(src) && isLetter(src[j]) {
				j++
			}
			name := src[i:j]
			i = j
			if ignoredCmds[name] {
				// \left. and \right. are invisible delimiters
				if i < len(src) && src[i] == '.' {
					i++
				}
				continue
			}
			toks = append(toks, token{kind: tokCmd, text: name, pos: start})
		case isLetter(c):
			if name := matchBareName(src[i:]); name != "" {
				toks = append(toks, token{kind: tokCmd, text: name, pos: i})
				i += len(name)
				continue
			}
			toks = append(toks, token{kind: tokIdent, text: src[i : i+1], pos: i})
			i++
		case c == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.IndexByte(opChars, c) >= 0:
			toks = append(toks, token{kind: tokOp, text: src[i : i+1], pos: i})
			i++
		default:
			r := []rune(src[i:])[0]
			size := len(string(r))
			switch {
			case unicode.IsSpace(r):
			case r == 'π':
				toks = append(toks, token{kind: tokCmd, text: "pi", pos: i})
			case r == '·' || r == '×':
				toks = append(toks, token{kind: tokOp, text: "*", pos: i})
			default:
				return nil, fmt.Errorf("unexpected character %q at offset %d", r, i)
			}
			i += size
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func matchBareName(s string) string {
	for _, name := range bareNames {
		if strings.HasPrefix(s, name) {
			return name
		}
	}
	return ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
