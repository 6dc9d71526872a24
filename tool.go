package hybridroot

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/njchilds90/hybridroot/chart"
	"github.com/njchilds90/hybridroot/symbolic"
)

// ============================================================
// MCP Tool Interface
// ============================================================

// Limits on tool call parameters. Each derivative pass can grow the tree, and
// each iteration evaluates three expressions.
const (
	MaxToolIterations  = 100000
	MaxDerivativeOrder = 10
)

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SolveResult is the JSON shape of an Outcome.
type SolveResult struct {
	Status        string   `json:"status"`
	Root          *float64 `json:"root,omitempty"`
	Formatted     string   `json:"formatted,omitempty"`
	Iterations    int      `json:"iterations,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Detail        string   `json:"detail,omitempty"`
	DecimalPlaces int      `json:"decimal_places"`
	Derivative    string   `json:"derivative,omitempty"`
}

// NewSolveResult flattens o for encoding.
func NewSolveResult(p Problem, o Outcome) SolveResult {
	res := SolveResult{Status: o.Status.String(), DecimalPlaces: DecimalPlaces(p.Tol)}
	if p.DFExpr != nil {
		res.Derivative = p.DFExpr.String()
	}
	switch o.Status {
	case StatusConverged:
		root := o.Root
		res.Root = &root
		res.Formatted = FormatRoot(o.Root, p.Tol)
		res.Iterations = o.Iterations
	case StatusNumericFailure:
		res.Reason = string(o.Reason)
		if o.Err != nil {
			res.Detail = o.Err.Error()
		}
	}
	return res
}

// HandleToolCall dispatches one tool call. Failures are reported in
// ToolResponse.Error; it never panics on malformed params.
func HandleToolCall(req ToolRequest) ToolResponse {
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	getNumber := func(key string) (float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		n, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("param %s must be a number", key)
		}
		return n, nil
	}
	optInt := func(key string, def, lo, hi int) (int, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		n, err := getNumber(key)
		if err != nil {
			return 0, err
		}
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		if n < float64(lo) || n > float64(hi) {
			return 0, fmt.Errorf("param %s must be in [%d, %d]", key, lo, hi)
		}
		return int(n), nil
	}
	fail := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

	switch req.Tool {
	case "solve":
		var in Input
		var err error
		if in.F, err = getString("f"); err != nil {
			return fail(err)
		}
		if in.G, err = getString("g"); err != nil {
			return fail(err)
		}
		if in.X0, err = getNumber("x0"); err != nil {
			return fail(err)
		}
		if in.Tol, err = getNumber("tol"); err != nil {
			return fail(err)
		}
		if in.MaxIter, err = optInt("max_iter", 100, 1, MaxToolIterations); err != nil {
			return fail(err)
		}
		mode, err := optString("derivative", string(DerivativeSymbolic))
		if err != nil {
			return fail(err)
		}
		in.Derivative = DerivativeMode(mode)
		p, err := CompileRequest(in)
		if err != nil {
			return fail(err)
		}
		o := p.Solve()
		return ToolResponse{Result: NewSolveResult(p, o), String: o.Message(p.Tol)}

	case "derivative":
		text, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		v, err := optString("var", Variable)
		if err != nil {
			return fail(err)
		}
		n, err := optInt("n", 1, 0, MaxDerivativeOrder)
		if err != nil {
			return fail(err)
		}
		e, err := symbolic.Parse(text)
		if err != nil {
			return fail(err)
		}
		d := symbolic.DiffN(e, v, n)
		return ToolResponse{Result: symbolic.JSONTree(d), LaTeX: symbolic.LaTeX(d), String: symbolic.String(d)}

	case "evaluate":
		text, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		x, err := getNumber("x")
		if err != nil {
			return fail(err)
		}
		fn, err := symbolic.CompileString(text, Variable)
		if err != nil {
			return fail(err)
		}
		y, err := fn.Eval(x)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: y, String: fmt.Sprintf("%g", y)}

	case "decimal_places":
		tol, err := getNumber("tol")
		if err != nil {
			return fail(err)
		}
		n := DecimalPlaces(tol)
		return ToolResponse{Result: n, String: fmt.Sprint(n)}

	case "plot_samples":
		fText, err := getString("f")
		if err != nil {
			return fail(err)
		}
		gText, err := getString("g")
		if err != nil {
			return fail(err)
		}
		x0, err := getNumber("x0")
		if err != nil {
			return fail(err)
		}
		f, err := symbolic.CompileString(fText, Variable)
		if err != nil {
			return fail(err)
		}
		g, err := symbolic.CompileString(gText, Variable)
		if err != nil {
			return fail(err)
		}
		xs := chart.Domain(x0)
		return ToolResponse{Result: map[string]interface{}{
			"f": chart.Sample(f, xs),
			"g": chart.Sample(g, xs),
		}}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec(), String: "MCP tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// MCP spec
// ============================================================

func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("solve", "Hybrid Newton/fixed-point root of f using companion g. Optional: max_iter (default 100, at most 100000), derivative (symbolic|dual)",
			[]string{"f", "g", "x0", "tol"},
			map[string]string{"f": "string", "g": "string", "x0": "number", "tol": "number", "max_iter": "integer", "derivative": "string"}),
		ts("derivative", "Symbolic derivative of an expression. Optional: var (default x), n (default 1, 0..10)",
			[]string{"expr"}, map[string]string{"expr": "string", "var": "string", "n": "integer"}),
		ts("evaluate", "Evaluate an expression in x", []string{"expr", "x"}, map[string]string{"expr": "string", "x": "number"}),
		ts("decimal_places", "Fractional digits shown for a tolerance", []string{"tol"}, map[string]string{"tol": "number"}),
		ts("plot_samples", "Sample f and g on [x0-5, x0+5) with step 0.1", []string{"f", "g", "x0"},
			map[string]string{"f": "string", "g": "string", "x0": "number"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	b, _ := json.MarshalIndent(map[string]interface{}{"tools": tools}, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
