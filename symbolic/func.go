package symbolic

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

// builtins are the float64 implementations of every function name the
// kernel knows. Parse accepts exactly these names plus the aliases below.
var builtins = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"abs":   math.Abs,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"sign":  sign,
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// FuncNames lists the known function names in sorted order.
func FuncNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// Simplify folds numeric arguments when the result is finite and applies a
// few exact identities. Values outside a function's domain stay symbolic.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if fn, known := builtins[f.name]; known {
			if v := fn(n.Float64()); !math.IsNaN(v) && !math.IsInf(v, 0) {
				if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
					return N(int64(v))
				}
				return NFloat(v)
			}
		}
	}
	switch f.name {
	case "ln":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "abs":
		if m, ok := arg.(*Mul); ok && len(m.factors) > 1 {
			if coeff, ok := m.factors[0].(*Num); ok && coeff.IsNegOne() {
				return AbsOf(MulOf(m.factors[1:]...))
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	a := f.arg.LaTeX()
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + a + "\\right)"
	case "asin", "acos", "atan":
		return "\\arc" + f.name[1:] + "\\left(" + a + "\\right)"
	case "abs":
		return "\\left|" + a + "\\right|"
	case "floor":
		return "\\lfloor " + a + " \\rfloor"
	case "ceil":
		return "\\lceil " + a + " \\rceil"
	}
	return "\\operatorname{" + f.name + "}\\left(" + a + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule. Piecewise-constant functions differentiate to
// zero and abs to sign, matching their derivative away from the jumps.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isZero(du) {
		return N(0)
	}
	u := f.arg
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = MulOf(N(-1), SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "exp":
		outer = ExpOf(u)
	case "ln":
		outer = PowOf(u, N(-1))
	case "abs":
		outer = SignOf(u)
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(u), N(2))))
	case "floor", "ceil", "sign":
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", u), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Evalf(env Env) (float64, error) {
	fn, ok := builtins[f.name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownFunction, f.name)
	}
	a, err := f.arg.Evalf(env)
	if err != nil {
		return 0, err
	}
	if f.name == "ln" && a <= 0 {
		return 0, fmt.Errorf("%w: ln of non-positive value %v", ErrDomain, a)
	}
	return finite(fn(a), f)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
