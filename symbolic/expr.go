// Package symbolic is the expression kernel behind the root solver.
//
// Expressions are immutable trees built from exact rationals, symbols, sums,
// products, powers and named functions. The kernel parses text into trees,
// differentiates them symbolically, and compiles them into float64 callables
// that report domain errors instead of returning NaN or Inf.
package symbolic

import (
	"fmt"
	"math"
	"math/big"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of an expression tree.
type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Evalf(env Env) (float64, error)
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// Env binds symbol names to values during evaluation.
type Env map[string]float64

// constants resolve symbols that have no binding in Env.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float64 exactly. It panics on NaN or Inf.
func NFloat(f float64) *Num {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic(fmt.Sprintf("symbolic: non-finite value %v", f))
	}
	return &Num{val: r}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

func (n *Num) Evalf(Env) (float64, error) {
	return finite(n.Float64(), n)
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	v := new(big.Rat).Set(n.val)
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.String()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

func (s *Sym) LaTeX() string {
	if s.name == "pi" {
		return "\\pi"
	}
	return s.name
}

func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}

func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

func (s *Sym) Evalf(env Env) (float64, error) {
	if v, ok := env[s.name]; ok {
		return finite(v, s)
	}
	if v, ok := constants[s.name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnbound, s.name)
}

// finite rejects NaN and ±Inf produced while evaluating e.
func finite(v float64, e Expr) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s is %v", ErrDomain, e.String(), v)
	}
	return v, nil
}
