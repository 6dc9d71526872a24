package hybridroot

import (
	"fmt"
	"strconv"
	"strings"
)

// DecimalPlaces counts the digits after the decimal point in the shortest
// exact decimal form of tol, so 0.001 gives 3 and 10 gives 0. Exponent
// notation is never used: 1e-7 gives 7.
func DecimalPlaces(tol float64) int {
	s := strconv.FormatFloat(tol, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// FormatRoot renders root with DecimalPlaces(tol) fractional digits.
func FormatRoot(root, tol float64) string {
	return strconv.FormatFloat(root, 'f', DecimalPlaces(tol), 64)
}

// Message renders o the way the interactive calculator reports it.
func (o Outcome) Message(tol float64) string {
	switch o.Status {
	case StatusConverged:
		return fmt.Sprintf("Converged in %d iterations. Approximate root: %s", o.Iterations, FormatRoot(o.Root, tol))
	case StatusMaxIterations:
		return "Reached max number of iterations."
	case StatusNumericFailure:
		if o.Err != nil {
			return fmt.Sprintf("Error: %s: %v", o.Reason, o.Err)
		}
		return "Error: " + string(o.Reason)
	}
	return "Error: no outcome"
}
