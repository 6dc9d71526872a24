// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func newFS() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestDefaults(t *testing.T) {
	o := mustParse(t, "-f", "x^2 - 4", "-g", "x")
	if o.Tol != 1e-6 || o.MaxIter != 100 || o.X0 != 0 || o.Derivative != "symbolic" {
		t.Errorf("unexpected defaults %+v", o)
	}
}

func TestAllFlags(t *testing.T) {
	o := mustParse(t,
		"--f", "cos(x) - x",
		"--g", "cos(x)",
		"--x0", "1",
		"--tol", "0.001",
		"--max-iter", "20",
		"--derivative", "dual",
		"--plot", "out.svg",
		"--json", "-v",
	)
	if o.F != "cos(x) - x" || o.X0 != 1 || o.Tol != 0.001 || o.MaxIter != 20 {
		t.Errorf("bad parse %+v", o)
	}
	if o.Derivative != "dual" || o.Plot != "out.svg" || !o.JSON || !o.Verbose {
		t.Errorf("bad output flags %+v", o)
	}
}

func TestErrorMissingFunctions(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"-f", "x"},
		{"-g", "x"},
		{"-f", "   ", "-g", "x"},
	} {
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Errorf("args %v: expected error", args)
		}
	}
}

func TestErrorBadNumbers(t *testing.T) {
	for _, args := range [][]string{
		{"-f", "x", "-g", "x", "-tol", "0"},
		{"-f", "x", "-g", "x", "-tol", "-1"},
		{"-f", "x", "-g", "x", "-max-iter", "0"},
		{"-f", "x", "-g", "x", "-derivative", "numeric"},
		{"-f", "x", "-g", "x", "extra"},
	} {
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Errorf("args %v: expected error", args)
		}
	}
}

func TestHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("want flag.ErrHelp, got %v", err)
	}
}
