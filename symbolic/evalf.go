package symbolic

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain reports a value outside a function's domain: division by
	// zero, log of a non-positive number, or any non-finite intermediate.
	ErrDomain = errors.New("domain error")
	// ErrUnbound reports a symbol with neither a binding nor a constant value.
	ErrUnbound = errors.New("unbound symbol")
	// ErrUnknownFunction reports a function name the kernel cannot evaluate.
	ErrUnknownFunction = errors.New("unknown function")
)

// EvalError is returned by compiled functions when evaluation at X fails.
type EvalError struct {
	Expr string
	X    float64
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %s at x=%g: %v", e.Expr, e.X, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Function is a compiled unary real function.
type Function interface {
	Eval(x float64) (float64, error)
}

// Compiled evaluates an expression tree with a single bound variable.
// It holds no mutable state and is safe for concurrent use.
type Compiled struct {
	expr     Expr
	variable string
}

// Compile binds expr to variable.
func Compile(expr Expr, variable string) *Compiled {
	return &Compiled{expr: expr.Simplify(), variable: variable}
}

// CompileString parses text and binds it to variable.
func CompileString(text, variable string) (*Compiled, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Compile(expr, variable), nil
}

func (c *Compiled) Eval(x float64) (float64, error) {
	v, err := c.expr.Evalf(Env{c.variable: x})
	if err != nil {
		return 0, &EvalError{Expr: c.expr.String(), X: x, Err: err}
	}
	return v, nil
}

func (c *Compiled) Expr() Expr       { return c.expr }
func (c *Compiled) Variable() string { return c.variable }
func (c *Compiled) String() string   { return c.expr.String() }

// Derivative parses text and returns its simplified symbolic derivative.
func Derivative(text, variable string) (Expr, error) {
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Diff(expr, variable), nil
}

// Native adapts a plain Go function. Non-finite results become ErrDomain.
type Native func(float64) float64

func (n Native) Eval(x float64) (float64, error) {
	v := n(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvalError{Expr: "native", X: x, Err: fmt.Errorf("%w: result is %v", ErrDomain, v)}
	}
	return v, nil
}
