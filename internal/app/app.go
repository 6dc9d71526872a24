// internal/app/app.go
package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/njchilds90/hybridroot"
	"github.com/njchilds90/hybridroot/chart"
	"github.com/njchilds90/hybridroot/internal/cli"
)

// Exit codes returned by Run.
const (
	ExitConverged   = 0
	ExitNoRoot      = 1
	ExitUsage       = 2
	ExitOutputError = 3
)

// Run is the whole command: parse flags, compile f and g, solve, print the
// outcome to stdout and optionally write a chart. Logs go to stderr.
func Run(argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("hybridroot")
	fs.SetOutput(stderr)
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitConverged
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger(stderr, opts.Verbose)

	p, err := hybridroot.CompileRequest(hybridroot.Input{
		F:          opts.F,
		G:          opts.G,
		X0:         opts.X0,
		Tol:        opts.Tol,
		MaxIter:    opts.MaxIter,
		Derivative: hybridroot.DerivativeMode(opts.Derivative),
	})
	if err != nil {
		logger.Error("invalid input", "err", err)
		return ExitUsage
	}
	if p.DFExpr != nil {
		logger.Debug("compiled", "f", p.FExpr.String(), "g", p.GExpr.String(), "df", p.DFExpr.String())
	} else {
		logger.Debug("compiled", "f", p.FExpr.String(), "g", p.GExpr.String(), "derivative", opts.Derivative)
	}

	o := p.Solve()
	logger.Info("solve finished",
		"status", o.Status,
		"iterations", o.Iterations,
		"x0", opts.X0,
		"tol", opts.Tol,
	)

	if opts.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(hybridroot.NewSolveResult(p, o)); err != nil {
			logger.Error("write result", "err", err)
			return ExitOutputError
		}
	} else {
		fmt.Fprintln(stdout, o.Message(opts.Tol))
	}

	if !o.Converged() {
		if o.Err != nil {
			logger.Warn("no root", "reason", o.Reason, "err", o.Err)
		}
		return ExitNoRoot
	}

	if opts.Plot != "" {
		err := chart.Save(opts.Plot, chart.Spec{
			FText: opts.F,
			GText: opts.G,
			F:     p.F,
			G:     p.G,
			X0:    opts.X0,
			Root:  o.Root,
		})
		if err != nil {
			logger.Error("plot", "path", opts.Plot, "err", err)
			return ExitOutputError
		}
		logger.Info("plot written", "path", opts.Plot)
	}
	return ExitConverged
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    w != io.Writer(os.Stderr),
	}))
}
