package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/njchilds90/hybridroot"
	"github.com/njchilds90/hybridroot/chart"
)

const maxBodyBytes = 1 << 20 // 1 MiB

var contentTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

func newMux(logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", recoverer(logger, toolHandler))
	mux.HandleFunc("/plot", recoverer(logger, plotHandler(logger)))
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, hybridroot.MCPToolSpec())
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

func recoverer(logger *slog.Logger, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /tool
func toolHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req hybridroot.ToolRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: trailing data"})
		return
	}
	writeJSON(w, http.StatusOK, hybridroot.HandleToolCall(req))
}

// GET /plot?f=&g=&x0=&tol=&max_iter=&derivative=&format=
//
// Renders the chart only when the solve converges; any other outcome is
// returned as a SolveResult with 422.
func plotHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		in, format, err := plotInput(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		p, err := hybridroot.CompileRequest(in)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		o := p.Solve()
		if !o.Converged() {
			writeJSON(w, http.StatusUnprocessableEntity, hybridroot.NewSolveResult(p, o))
			return
		}

		var buf bytes.Buffer
		err = chart.Render(&buf, format, chart.Spec{
			FText: in.F,
			GText: in.G,
			F:     p.F,
			G:     p.G,
			X0:    in.X0,
			Root:  o.Root,
		})
		if err != nil {
			logger.Error("render", "format", format, "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Root", strconv.FormatFloat(o.Root, 'g', -1, 64))
		w.Header().Set("X-Iterations", strconv.Itoa(o.Iterations))
		_, _ = buf.WriteTo(w)
	}
}

func plotInput(q url.Values) (hybridroot.Input, string, error) {
	in := hybridroot.Input{
		F:          q.Get("f"),
		G:          q.Get("g"),
		MaxIter:    100,
		Derivative: hybridroot.DerivativeMode(q.Get("derivative")),
	}
	if in.F == "" || in.G == "" {
		return in, "", errors.New("f and g are required")
	}
	var err error
	if in.X0, err = floatParam(q, "x0"); err != nil {
		return in, "", err
	}
	if in.Tol, err = floatParam(q, "tol"); err != nil {
		return in, "", err
	}
	if s := q.Get("max_iter"); s != "" {
		if in.MaxIter, err = strconv.Atoi(s); err != nil {
			return in, "", fmt.Errorf("max_iter: %w", err)
		}
		if in.MaxIter > hybridroot.MaxToolIterations {
			return in, "", fmt.Errorf("max_iter must be at most %d", hybridroot.MaxToolIterations)
		}
	}
	format := q.Get("format")
	if format == "" {
		format = "png"
	}
	if _, ok := contentTypes[format]; !ok {
		return in, "", fmt.Errorf("unsupported format %q", format)
	}
	return in, format, nil
}

func floatParam(q url.Values, key string) (float64, error) {
	s := q.Get(key)
	if s == "" {
		return 0, fmt.Errorf("missing param: %s", key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
