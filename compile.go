package hybridroot

import (
	"errors"
	"fmt"

	"github.com/njchilds90/hybridroot/symbolic"
)

// Variable is the name of the unknown in f and g.
const Variable = "x"

// DerivativeMode selects how f' is produced.
type DerivativeMode string

const (
	// DerivativeSymbolic differentiates f symbolically and compiles the result.
	DerivativeSymbolic DerivativeMode = "symbolic"
	// DerivativeDual evaluates f' with dual numbers, without a derivative tree.
	DerivativeDual DerivativeMode = "dual"
)

var (
	ErrUnknownSymbol         = errors.New("unknown symbol")
	ErrUnknownDerivativeMode = errors.New("unknown derivative mode")
)

// ParseDerivativeMode accepts "symbolic", "dual", or "" for the default.
func ParseDerivativeMode(s string) (DerivativeMode, error) {
	switch DerivativeMode(s) {
	case "", DerivativeSymbolic:
		return DerivativeSymbolic, nil
	case DerivativeDual:
		return DerivativeDual, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDerivativeMode, s)
}

// Input is the textual form of a request.
type Input struct {
	F, G       string
	X0, Tol    float64
	MaxIter    int
	Derivative DerivativeMode
}

// Problem is a compiled Input. DFExpr is nil in DerivativeDual mode.
type Problem struct {
	Request
	FExpr, GExpr, DFExpr symbolic.Expr
}

// Solve runs Solve on the compiled request.
func (p Problem) Solve() Outcome { return Solve(p.Request) }

// CompileRequest parses f and g, builds f', and validates the result.
// Errors are returned before any evaluation happens: *symbolic.ParseError
// for malformed text, ErrUnknownSymbol for names other than x, pi and e,
// and the Request.Validate errors.
func CompileRequest(in Input) (Problem, error) {
	mode, err := ParseDerivativeMode(string(in.Derivative))
	if err != nil {
		return Problem{}, err
	}
	fExpr, err := parseUnary("f", in.F)
	if err != nil {
		return Problem{}, err
	}
	gExpr, err := parseUnary("g", in.G)
	if err != nil {
		return Problem{}, err
	}

	p := Problem{
		Request: Request{
			F:       symbolic.Compile(fExpr, Variable),
			G:       symbolic.Compile(gExpr, Variable),
			X0:      in.X0,
			Tol:     in.Tol,
			MaxIter: in.MaxIter,
		},
		FExpr: fExpr,
		GExpr: gExpr,
	}
	switch mode {
	case DerivativeDual:
		p.DF = symbolic.CompileDual(fExpr, Variable)
	default:
		p.DFExpr = symbolic.Diff(fExpr, Variable)
		p.DF = symbolic.Compile(p.DFExpr, Variable)
	}
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}
	return p, nil
}

func parseUnary(label, text string) (symbolic.Expr, error) {
	e, err := symbolic.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	for _, name := range symbolic.SortedSymbols(e) {
		if name != Variable && name != "pi" && name != "e" {
			return nil, fmt.Errorf("%s: %w %q (only %s, pi and e are allowed)", label, ErrUnknownSymbol, name, Variable)
		}
	}
	return e, nil
}
