// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

// Options holds all CLI flags.
type Options struct {
	// Problem
	F, G       string
	X0         float64
	Tol        float64
	MaxIter    int
	Derivative string // symbolic | dual

	// Output
	Plot    string // chart path; the extension picks png, svg or pdf
	JSON    bool
	Verbose bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `%s: hybrid Newton / fixed-point root finder

Each step averages x - f(x)/f'(x) with g(x) and stops when successive
estimates differ by less than -tol.

Usage of %s:
`, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options

	fs.StringVar(&opt.F, "f", "", "function f(x) whose root is sought [*]")
	fs.StringVar(&opt.G, "g", "", "fixed-point companion g(x) [*]")
	fs.Float64Var(&opt.X0, "x0", 0, "initial guess")
	fs.Float64Var(&opt.Tol, "tol", 1e-6, "convergence tolerance (> 0); also sets the displayed digits")
	fs.IntVar(&opt.MaxIter, "max-iter", 100, "maximum number of iterations (> 0)")
	fs.StringVar(&opt.Derivative, "derivative", "symbolic", "how f' is computed: symbolic | dual")
	fs.StringVar(&opt.Plot, "plot", "", "write a chart of f, g and the root to this file on convergence")
	fs.BoolVar(&opt.JSON, "json", false, "print the outcome as JSON")
	fs.BoolVar(&opt.Verbose, "v", false, "verbose logging")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	opt.F = strings.TrimSpace(opt.F)
	opt.G = strings.TrimSpace(opt.G)
	switch {
	case opt.F == "" && opt.G == "":
		return opt, errors.New("both --f and --g are required")
	case opt.F == "":
		return opt, errors.New("--f is required")
	case opt.G == "":
		return opt, errors.New("--g is required")
	}
	if !(opt.Tol > 0) {
		return opt, fmt.Errorf("--tol must be greater than zero (got %v)", opt.Tol)
	}
	if opt.MaxIter <= 0 {
		return opt, fmt.Errorf("--max-iter must be greater than zero (got %d)", opt.MaxIter)
	}
	switch opt.Derivative {
	case "symbolic", "dual":
	default:
		return opt, fmt.Errorf("--derivative must be symbolic or dual (got %q)", opt.Derivative)
	}
	return opt, nil
}
