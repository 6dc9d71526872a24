package symbolic

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numeric terms and counts repeated
// bare symbols. Symbols come first in name order, the constant last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := N(0)
	counts := map[string]*Num{}
	var names []string
	var rest []Expr
	for _, t := range flat {
		switch v := t.(type) {
		case *Num:
			constant = numAdd(constant, v)
		case *Sym:
			if _, seen := counts[v.name]; !seen {
				names = append(names, v.name)
				counts[v.name] = N(0)
			}
			counts[v.name] = numAdd(counts[v.name], N(1))
		default:
			rest = append(rest, t)
		}
	}
	sort.Strings(names)

	out := make([]Expr, 0, len(names)+len(rest)+1)
	for _, name := range names {
		if c := counts[name]; c.IsOne() {
			out = append(out, S(name))
		} else {
			out = append(out, MulOf(c, S(name)))
		}
	}
	out = append(out, rest...)
	if !constant.IsZero() {
		out = append(out, constant)
	}
	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

func (a *Add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) LaTeX() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.LaTeX()
	}
	return strings.Join(parts, " + ")
}

func (a *Add) Sub(varName string, value Expr) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Sub(varName, value)
	}
	return AddOf(terms...)
}

func (a *Add) Diff(varName string) Expr {
	terms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		terms[i] = t.Diff(varName)
	}
	return AddOf(terms...)
}

func (a *Add) Evalf(env Env) (float64, error) {
	var sum float64
	for _, t := range a.terms {
		v, err := t.Evalf(env)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return finite(sum, a)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "add", "terms": listJSON(a.terms)}
}
func (a *Add) Terms() []Expr { return a.terms }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products and folds numeric factors into a leading
// coefficient. Remaining factors are ordered by their string form so equal
// products print identically.
func (m *Mul) Simplify() Expr {
	coeff := N(1)
	var rest []Expr
	var collect func(Expr)
	collect = func(e Expr) {
		switch v := e.Simplify().(type) {
		case *Mul:
			for _, f := range v.factors {
				collect(f)
			}
		case *Num:
			coeff = numMul(coeff, v)
		default:
			rest = append(rest, v)
		}
	}
	for _, f := range m.factors {
		collect(f)
	}
	// 0*u keeps u when u can fail to evaluate, so 0/x still errors at 0.
	if len(rest) == 0 || coeff.IsZero() && allTotal(rest) {
		return coeff
	}

	keys := make(map[Expr]string, len(rest))
	for _, e := range rest {
		keys[e] = e.String()
	}
	sort.SliceStable(rest, func(i, j int) bool { return keys[rest[i]] < keys[rest[j]] })

	if coeff.IsOne() {
		if len(rest) == 1 {
			return rest[0]
		}
		return &Mul{factors: rest}
	}
	return &Mul{factors: append([]Expr{coeff}, rest...)}
}

func (m *Mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isAdd := f.(*Add); isAdd {
			parts[i] = "\\left(" + f.LaTeX() + "\\right)"
		} else {
			parts[i] = f.LaTeX()
		}
	}
	return strings.Join(parts, " ")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	factors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		factors[i] = f.Sub(varName, value)
	}
	return MulOf(factors...)
}

// Diff applies the product rule across all factors. Factors constant in
// varName contribute no term.
func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i := range m.factors {
		df := m.factors[i].Diff(varName)
		if isZero(df) {
			continue
		}
		factors := make([]Expr, 0, len(m.factors))
		for j, f := range m.factors {
			if j == i {
				factors = append(factors, df)
			} else {
				factors = append(factors, f)
			}
		}
		terms = append(terms, MulOf(factors...))
	}
	return AddOf(terms...)
}

func (m *Mul) Evalf(env Env) (float64, error) {
	prod := 1.0
	for _, f := range m.factors {
		v, err := f.Evalf(env)
		if err != nil {
			return 0, err
		}
		prod *= v
	}
	return finite(prod, m)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "mul", "factors": listJSON(m.factors)}
}
func (m *Mul) Factors() []Expr { return m.factors }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

// maxFoldExp bounds the integer exponents folded exactly on rationals.
const maxFoldExp = 20

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	bn, baseIsNum := base.(*Num)
	switch {
	case expIsNum && en.IsZero():
		return N(1)
	case expIsNum && en.IsOne():
		return base
	case baseIsNum && bn.IsZero():
		// Only 0^k with k > 0 folds; 0^-k and 0^x are left for Evalf to report.
		if expIsNum && en.IsPositive() {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	case baseIsNum && bn.IsOne():
		return N(1)
	}

	if baseIsNum && expIsNum && en.IsInteger() {
		k := en.val.Num().Int64()
		if k >= -maxFoldExp && k <= maxFoldExp {
			n := k
			if n < 0 {
				n = -n
			}
			result := N(1)
			for i := int64(0); i < n; i++ {
				result = numMul(result, bn)
			}
			if k < 0 {
				return numRecip(result)
			}
			return result
		}
	}
	// (u^a)^b = u^(a*b) holds for real u only with integer a and b, and not
	// when both are negative ((x^-1)^-1 is undefined at 0, x is not).
	if inner, ok := base.(*Pow); ok && expIsNum && en.IsInteger() {
		if a, ok := inner.exp.(*Num); ok && a.IsInteger() && (a.IsPositive() || en.IsPositive()) {
			return PowOf(inner.base, numMul(a, en))
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	return wrapCompound(p.base, p.base.String(), "(", ")") + "^" + wrapCompound(p.exp, p.exp.String(), "(", ")")
}

func (p *Pow) LaTeX() string {
	return wrapCompound(p.base, p.base.LaTeX(), "\\left(", "\\right)") + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if isZero(dv) {
		if isZero(du) {
			return N(0)
		}
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if isZero(du) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	// d(u^v) = u^v * (v' ln u + v u'/u)
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Evalf(env Env) (float64, error) {
	b, err := p.base.Evalf(env)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Evalf(env)
	if err != nil {
		return 0, err
	}
	if b == 0 && e < 0 {
		return 0, fmt.Errorf("%w: division by zero in %s", ErrDomain, p.String())
	}
	return finite(math.Pow(b, e), p)
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// helpers
// ============================================================

func wrapCompound(e Expr, s, open, close string) string {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return open + s + close
	case *Num:
		if !v.IsInteger() || v.IsNegative() {
			return open + s + close
		}
	}
	return s
}

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// total reports whether e evaluates to a finite value for every finite
// binding of its symbols, so that 0*e may fold to 0.
func total(e Expr) bool {
	switch v := e.(type) {
	case *Num, *Sym:
		return true
	case *Add:
		return allTotal(v.terms)
	case *Mul:
		return allTotal(v.factors)
	case *Pow:
		n, ok := v.exp.(*Num)
		return ok && n.IsInteger() && n.IsPositive() && total(v.base)
	case *Func:
		switch v.name {
		case "sin", "cos", "atan", "tanh", "abs", "floor", "ceil", "sign":
			return total(v.arg)
		}
	}
	return false
}

func allTotal(es []Expr) bool {
	for _, e := range es {
		if !total(e) {
			return false
		}
	}
	return true
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func listJSON(es []Expr) []map[string]interface{} {
	out := make([]map[string]interface{}, len(es))
	for i, e := range es {
		out[i] = e.toJSON()
	}
	return out
}
