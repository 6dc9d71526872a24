package symbolic

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseError reports malformed expression text. Pos is a byte offset.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s at offset %d", e.Input, e.Msg, e.Pos)
}

// aliases map accepted spellings onto kernel function names.
var aliases = map[string]string{
	"log": "ln",
}

// Parse reads an infix expression.
//
// Grammar, loosest binding first:
//
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/" | implicit) unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | name | name "(" sum ")" | "(" sum ")"
//
// "^" is right-associative and binds tighter than unary minus, so -x^2 is
// -(x^2). A number or ")" directly followed by a name or "(" multiplies
// implicitly: 2x, 3(x+1). Number literals are kept as exact rationals.
func Parse(input string) (Expr, error) {
	p := &parser{src: input}
	p.next()
	if p.tok.kind == tokEOF {
		return nil, p.errorf(p.tok.pos, "empty expression")
	}
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf(p.tok.pos, "unexpected %s", p.tok)
	}
	return e.Simplify(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokName
	tokOp
	tokLParen
	tokRParen
	tokInvalid
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNum:
		return "number " + t.text
	case tokName:
		return "name " + t.text
	}
	return fmt.Sprintf("%q", t.text)
}

type parser struct {
	src  string
	off  int
	tok  token
	prev token
}

func (p *parser) errorf(pos int, format string, args ...interface{}) *ParseError {
	return &ParseError{Input: p.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' }

func (p *parser) next() {
	p.prev = p.tok
	for p.off < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.off]) >= 0 {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.src[p.off]
	switch {
	case isDigit(c) || c == '.':
		p.off = scanNumber(p.src, p.off)
		p.tok = token{kind: tokNum, text: p.src[start:p.off], pos: start}
	case isLetter(c):
		for p.off < len(p.src) && (isLetter(p.src[p.off]) || isDigit(p.src[p.off])) {
			p.off++
		}
		p.tok = token{kind: tokName, text: p.src[start:p.off], pos: start}
	case strings.IndexByte("+-*/^", c) >= 0:
		p.off++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	case c == '(':
		p.off++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.off++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	default:
		p.off++
		p.tok = token{kind: tokInvalid, text: string(c), pos: start}
	}
}

// scanNumber returns the end offset of the literal starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func (p *parser) isOp(op string) bool { return p.tok.kind == tokOp && p.tok.text == op }

func (p *parser) sum() (Expr, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		neg := p.tok.text == "-"
		p.next()
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		if neg {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) product() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("*"):
			p.next()
		case p.isOp("/"):
			p.next()
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, PowOf(right, N(-1)))
			continue
		case p.implicitProduct():
		default:
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = MulOf(left, right)
	}
}

func (p *parser) implicitProduct() bool {
	if p.tok.kind != tokName && p.tok.kind != tokLParen {
		return false
	}
	return p.prev.kind == tokNum || p.prev.kind == tokRParen
}

func (p *parser) unary() (Expr, error) {
	if p.isOp("-") || p.isOp("+") {
		neg := p.tok.text == "-"
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if neg {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.tok
	switch tok.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, p.errorf(tok.pos, "invalid number %q", tok.text)
		}
		p.next()
		return &Num{val: r}, nil
	case tokName:
		p.next()
		if p.tok.kind != tokLParen {
			return S(tok.text), nil
		}
		return p.call(tok)
	case tokLParen:
		p.next()
		inner, err := p.sum()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf(p.tok.pos, "expected \")\", found %s", p.tok)
		}
		p.next()
		return inner, nil
	case tokInvalid:
		return nil, p.errorf(tok.pos, "invalid character %q", tok.text)
	}
	return nil, p.errorf(tok.pos, "unexpected %s", tok)
}

func (p *parser) call(name token) (Expr, error) {
	fn := strings.ToLower(name.text)
	if a, ok := aliases[fn]; ok {
		fn = a
	}
	_, known := builtins[fn]
	if !known && fn != "sqrt" {
		return nil, p.errorf(name.pos, "unknown function %q", name.text)
	}
	p.next() // "("
	arg, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokRParen {
		return nil, p.errorf(p.tok.pos, "expected \")\" to close %s(, found %s", name.text, p.tok)
	}
	p.next()
	if fn == "sqrt" {
		return SqrtOf(arg), nil
	}
	return funcOf(fn, arg).Simplify(), nil
}
