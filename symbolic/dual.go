package symbolic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/dual"
)

// DualFunction evaluates the derivative of an expression by forward-mode
// automatic differentiation instead of building a symbolic derivative.
type DualFunction struct {
	expr     Expr
	variable string
}

// CompileDual binds expr to variable for dual-number differentiation.
func CompileDual(expr Expr, variable string) *DualFunction {
	return &DualFunction{expr: expr.Simplify(), variable: variable}
}

// Eval returns d/dvariable of the expression at x.
func (d *DualFunction) Eval(x float64) (float64, error) {
	v, err := evalDual(d.expr, d.variable, dual.Number{Real: x, Emag: 1})
	if err != nil {
		return 0, &EvalError{Expr: "d/d" + d.variable + " " + d.expr.String(), X: x, Err: err}
	}
	return v.Emag, nil
}

func (d *DualFunction) String() string { return "d/d" + d.variable + " " + d.expr.String() }

// ValueAndDerivative evaluates expr and its derivative at x in one pass.
func ValueAndDerivative(expr Expr, variable string, x float64) (value, deriv float64, err error) {
	v, err := evalDual(expr, variable, dual.Number{Real: x, Emag: 1})
	if err != nil {
		return 0, 0, &EvalError{Expr: expr.String(), X: x, Err: err}
	}
	return v.Real, v.Emag, nil
}

func evalDual(e Expr, variable string, x dual.Number) (dual.Number, error) {
	var out dual.Number
	switch v := e.(type) {
	case *Num:
		out = dual.Number{Real: v.Float64()}
	case *Sym:
		if v.name == variable {
			return x, nil
		}
		c, ok := constants[v.name]
		if !ok {
			return dual.Number{}, fmt.Errorf("%w: %s", ErrUnbound, v.name)
		}
		out = dual.Number{Real: c}
	case *Add:
		for _, t := range v.terms {
			tv, err := evalDual(t, variable, x)
			if err != nil {
				return dual.Number{}, err
			}
			out = dual.Add(out, tv)
		}
	case *Mul:
		out = dual.Number{Real: 1}
		for _, f := range v.factors {
			fv, err := evalDual(f, variable, x)
			if err != nil {
				return dual.Number{}, err
			}
			out = dual.Mul(out, fv)
		}
	case *Pow:
		b, err := evalDual(v.base, variable, x)
		if err != nil {
			return dual.Number{}, err
		}
		if n, ok := v.exp.(*Num); ok {
			p := n.Float64()
			if b.Real == 0 && p < 0 {
				return dual.Number{}, fmt.Errorf("%w: division by zero in %s", ErrDomain, v.String())
			}
			out = dual.PowReal(b, p)
			break
		}
		ex, err := evalDual(v.exp, variable, x)
		if err != nil {
			return dual.Number{}, err
		}
		out = dual.Pow(b, ex)
	case *Func:
		a, err := evalDual(v.arg, variable, x)
		if err != nil {
			return dual.Number{}, err
		}
		out, err = dualFunc(v.name, a)
		if err != nil {
			return dual.Number{}, err
		}
	default:
		return dual.Number{}, fmt.Errorf("%w: %s", ErrUnknownFunction, e.exprType())
	}
	if !finiteDual(out) {
		return dual.Number{}, fmt.Errorf("%w: %s is %v", ErrDomain, e.String(), out)
	}
	return out, nil
}

func dualFunc(name string, a dual.Number) (dual.Number, error) {
	switch name {
	case "sin":
		return dual.Sin(a), nil
	case "cos":
		return dual.Cos(a), nil
	case "tan":
		return dual.Tan(a), nil
	case "exp":
		return dual.Exp(a), nil
	case "ln":
		if a.Real <= 0 {
			return dual.Number{}, fmt.Errorf("%w: ln of non-positive value %v", ErrDomain, a.Real)
		}
		return dual.Log(a), nil
	case "abs":
		return dual.Abs(a), nil
	case "asin":
		return dual.Asin(a), nil
	case "acos":
		return dual.Acos(a), nil
	case "atan":
		return dual.Atan(a), nil
	case "sinh":
		return dual.Sinh(a), nil
	case "cosh":
		return dual.Cosh(a), nil
	case "tanh":
		return dual.Tanh(a), nil
	case "floor", "ceil", "sign":
		// Piecewise constant: zero derivative.
		return dual.Number{Real: builtins[name](a.Real)}, nil
	}
	return dual.Number{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
}

func finiteDual(d dual.Number) bool {
	return !math.IsNaN(d.Real) && !math.IsInf(d.Real, 0) &&
		!math.IsNaN(d.Emag) && !math.IsInf(d.Emag, 0)
}
