package hybridroot

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/hybridroot/symbolic"
)

// DerivativeEpsilon is the magnitude below which f'(x) counts as zero.
const DerivativeEpsilon = 1e-10

var (
	ErrInvalidTolerance = errors.New("tolerance must be a finite number greater than zero")
	ErrInvalidMaxIter   = errors.New("max iterations must be greater than zero")
	ErrMissingFunction  = errors.New("f, g and df must all be set")
)

// Request is one solve. F, G and DF are borrowed for the duration of Solve.
type Request struct {
	F, G, DF symbolic.Function
	X0       float64
	Tol      float64
	MaxIter  int
}

// Validate reports whether r satisfies the preconditions of Solve.
func (r Request) Validate() error {
	if r.F == nil || r.G == nil || r.DF == nil {
		return ErrMissingFunction
	}
	if !(r.Tol > 0) || math.IsInf(r.Tol, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, r.Tol)
	}
	if r.MaxIter <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxIter, r.MaxIter)
	}
	return nil
}

// Status tags the variant held by an Outcome.
type Status int

const (
	StatusConverged Status = iota + 1
	StatusMaxIterations
	StatusNumericFailure
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max_iterations"
	case StatusNumericFailure:
		return "numeric_failure"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Reason explains a numeric failure.
type Reason string

const (
	ReasonDerivativeNearZero Reason = "derivative near zero"
	ReasonEvaluation         Reason = "evaluation error"
)

// Outcome is the result of Solve. Root and Iterations are set only for
// StatusConverged; Reason only for StatusNumericFailure. Err carries the
// evaluator error behind ReasonEvaluation.
type Outcome struct {
	Status     Status
	Root       float64
	Iterations int
	Reason     Reason
	Err        error
}

func (o Outcome) Converged() bool { return o.Status == StatusConverged }

func converged(root float64, iterations int) Outcome {
	return Outcome{Status: StatusConverged, Root: root, Iterations: iterations}
}

func failure(reason Reason, err error) Outcome {
	return Outcome{Status: StatusNumericFailure, Reason: reason, Err: err}
}

// Solve runs the hybrid iteration. Each step averages the Newton update
// x - f(x)/f'(x) with the fixed-point value g(x), both taken at the current
// x, and stops when successive estimates differ by strictly less than Tol.
//
// Solve does not validate r; see Request.Validate. It has no side effects
// and returns identical outcomes for identical requests.
func Solve(r Request) Outcome {
	x := r.X0
	for k := 0; k < r.MaxIter; k++ {
		fx, err := r.F.Eval(x)
		if err != nil {
			return failure(ReasonEvaluation, err)
		}
		dfx, err := r.DF.Eval(x)
		if err != nil {
			return failure(ReasonEvaluation, err)
		}
		if math.Abs(dfx) < DerivativeEpsilon {
			return failure(ReasonDerivativeNearZero, nil)
		}

		xNewton := x - fx/dfx
		xFixed, err := r.G.Eval(x)
		if err != nil {
			return failure(ReasonEvaluation, err)
		}
		xNext := (xNewton + xFixed) / 2

		if math.Abs(xNext-x) < r.Tol {
			return converged(xNext, k+1)
		}
		x = xNext
	}
	return Outcome{Status: StatusMaxIterations}
}
