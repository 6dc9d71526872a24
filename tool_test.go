package hybridroot_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/njchilds90/hybridroot"
)

func TestHandleToolCall_Solve(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool: "solve",
		Params: map[string]interface{}{
			"f": "x^2 - 4", "g": "x", "x0": 3.0, "tol": 0.0001, "max_iter": 100.0,
		},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	res, ok := resp.Result.(hybridroot.SolveResult)
	if !ok {
		t.Fatalf("want SolveResult, got %T", resp.Result)
	}
	if res.Status != "converged" || res.DecimalPlaces != 4 || res.Root == nil {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.HasPrefix(res.Formatted, "2.000") || len(res.Formatted) != len("2.0000") {
		t.Errorf("want root with 4 decimals near 2, got %q", res.Formatted)
	}
	if res.Derivative != "2*x" {
		t.Errorf("want derivative 2*x, got %q", res.Derivative)
	}
	if !strings.HasPrefix(resp.String, "Converged in ") {
		t.Errorf("unexpected message %q", resp.String)
	}
}

func TestHandleToolCall_SolveFailureIsNotAnError(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "solve",
		Params: map[string]interface{}{"f": "x^2 + 1", "g": "x", "x0": 0.0, "tol": 0.01},
	})
	if resp.Error != "" {
		t.Fatalf("numeric failure should be a result, got error %s", resp.Error)
	}
	res := resp.Result.(hybridroot.SolveResult)
	if res.Status != "numeric_failure" || res.Reason != "derivative near zero" || res.Root != nil {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestHandleToolCall_SolveBadParams(t *testing.T) {
	for _, params := range []map[string]interface{}{
		{"g": "x", "x0": 1.0, "tol": 0.1},
		{"f": "x", "g": "x", "x0": "one", "tol": 0.1},
		{"f": "x", "g": "x", "x0": 1.0, "tol": 0.1, "max_iter": 2.5},
		{"f": "x +", "g": "x", "x0": 1.0, "tol": 0.1},
		{"f": "x", "g": "x", "x0": 1.0, "tol": 0.1, "max_iter": 1e9},
		{"f": "x", "g": "x", "x0": 1.0, "tol": 0.1, "max_iter": 0.0},
	} {
		resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{Tool: "solve", Params: params})
		if resp.Error == "" {
			t.Errorf("params %v: expected error", params)
		}
	}
}

func TestHandleToolCall_Derivative(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "derivative",
		Params: map[string]interface{}{"expr": "x^3", "n": 2.0},
	})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	if resp.String != "6*x" {
		t.Errorf("want 6*x, got %s", resp.String)
	}
}

func TestHandleToolCall_DerivativeOrderBounds(t *testing.T) {
	for _, n := range []float64{-1, hybridroot.MaxDerivativeOrder + 1, 1e9} {
		resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
			Tool:   "derivative",
			Params: map[string]interface{}{"expr": "sin(x)*exp(x)", "n": n},
		})
		if !strings.Contains(resp.Error, "param n must be in") {
			t.Errorf("n=%v: want range error, got %q", n, resp.Error)
		}
	}
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "derivative",
		Params: map[string]interface{}{"expr": "x^2", "n": 0.0},
	})
	if resp.Error != "" || resp.String != "x^2" {
		t.Errorf("n=0: want x^2, got %q (err %s)", resp.String, resp.Error)
	}
}

func TestHandleToolCall_Evaluate(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"expr": "x^2 - 4", "x": 3.0},
	})
	if resp.Error != "" || resp.Result != 5.0 {
		t.Errorf("want 5, got %v (err %s)", resp.Result, resp.Error)
	}
	resp = hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "evaluate",
		Params: map[string]interface{}{"expr": "ln(x)", "x": -1.0},
	})
	if !strings.Contains(resp.Error, "domain error") {
		t.Errorf("want domain error, got %q", resp.Error)
	}
}

func TestHandleToolCall_DecimalPlaces(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "decimal_places",
		Params: map[string]interface{}{"tol": 0.001},
	})
	if resp.Result != 3 {
		t.Errorf("want 3, got %v", resp.Result)
	}
}

func TestHandleToolCall_PlotSamples(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{
		Tool:   "plot_samples",
		Params: map[string]interface{}{"f": "x^2 - 4", "g": "x", "x0": 3.0},
	})
	if resp.Error != "" {
		t.Fatal(resp.Error)
	}
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string][]map[string]float64
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded["f"]) != 100 || len(decoded["g"]) != 100 {
		t.Errorf("want 100 samples each, got %d and %d", len(decoded["f"]), len(decoded["g"]))
	}
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	resp := hybridroot.HandleToolCall(hybridroot.ToolRequest{Tool: "factor"})
	if resp.Error != "unknown tool: factor" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestMCPToolSpec(t *testing.T) {
	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(hybridroot.MCPToolSpec()), &spec); err != nil {
		t.Fatal(err)
	}
	if len(spec.Tools) != 6 || spec.Tools[0].Name != "solve" {
		t.Errorf("unexpected tool list %+v", spec.Tools)
	}
}
