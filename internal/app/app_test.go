// internal/app/app_test.go
package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Converged(t *testing.T) {
	code, out, errOut := run(t, "-f", "x^2 - 4", "-g", "x", "-x0", "3", "-tol", "0.001")
	if code != ExitConverged {
		t.Fatalf("want exit 0, got %d (stderr %q)", code, errOut)
	}
	if !strings.HasPrefix(out, "Converged in ") || !strings.Contains(out, "Approximate root: 2.00") {
		t.Errorf("unexpected stdout %q", out)
	}
	if !strings.Contains(errOut, "solve finished") {
		t.Errorf("expected log line on stderr, got %q", errOut)
	}
}

func TestRun_JSON(t *testing.T) {
	code, out, _ := run(t, "-f", "cos(x) - x", "-g", "cos(x)", "-x0", "1", "-tol", "1e-6", "-json")
	if code != ExitConverged {
		t.Fatalf("want exit 0, got %d", code)
	}
	var res struct {
		Status        string   `json:"status"`
		Root          *float64 `json:"root"`
		DecimalPlaces int      `json:"decimal_places"`
		Derivative    string   `json:"derivative"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Status != "converged" || res.Root == nil || res.DecimalPlaces != 6 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Derivative == "" {
		t.Error("symbolic mode should report the derivative")
	}
}

func TestRun_NumericFailure(t *testing.T) {
	code, out, _ := run(t, "-f", "x^2 + 1", "-g", "x", "-x0", "0", "-tol", "0.01")
	if code != ExitNoRoot {
		t.Fatalf("want exit 1, got %d", code)
	}
	if strings.TrimSpace(out) != "Error: derivative near zero" {
		t.Errorf("unexpected stdout %q", out)
	}
}

func TestRun_MaxIterations(t *testing.T) {
	code, out, _ := run(t, "-f", "x^2 - 4", "-g", "x", "-x0", "3", "-tol", "1e-12", "-max-iter", "1")
	if code != ExitNoRoot {
		t.Fatalf("want exit 1, got %d", code)
	}
	if strings.TrimSpace(out) != "Reached max number of iterations." {
		t.Errorf("unexpected stdout %q", out)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-g", "x"},
		{"-f", "x +", "-g", "x"},
		{"-f", "x - a", "-g", "x"},
		{"-f", "x", "-g", "x", "-tol", "0"},
	} {
		code, out, _ := run(t, args...)
		if code != ExitUsage {
			t.Errorf("args %v: want exit 2, got %d", args, code)
		}
		if out != "" {
			t.Errorf("args %v: stdout should be empty, got %q", args, out)
		}
	}
}

func TestRun_Help(t *testing.T) {
	code, _, errOut := run(t, "-h")
	if code != ExitConverged {
		t.Errorf("want exit 0, got %d", code)
	}
	if !strings.Contains(errOut, "-max-iter") {
		t.Errorf("usage should list flags, got %q", errOut)
	}
}

func TestRun_Plot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "root.svg")
	code, _, errOut := run(t, "-f", "x^2 - 4", "-g", "x", "-x0", "3", "-tol", "0.001", "-plot", path)
	if code != ExitConverged {
		t.Fatalf("want exit 0, got %d (stderr %q)", code, errOut)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("<svg")) {
		t.Errorf("not an svg document")
	}
}

func TestRun_NoPlotWithoutRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "root.png")
	code, _, _ := run(t, "-f", "x^2 + 1", "-g", "x", "-x0", "0", "-tol", "0.01", "-plot", path)
	if code != ExitNoRoot {
		t.Fatalf("want exit 1, got %d", code)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("chart should not be written, stat err %v", err)
	}
}
