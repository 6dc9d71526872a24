package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/njchilds90/hybridroot"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newMux(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(srv.Close)
	return srv
}

func TestToolEndpoint(t *testing.T) {
	srv := testServer(t)
	body := `{"tool":"solve","params":{"f":"x^2 - 4","g":"x","x0":3,"tol":0.001}}`
	resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var out struct {
		Result hybridroot.SolveResult `json:"result"`
		Error  string                 `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error != "" || out.Result.Status != "converged" || out.Result.DecimalPlaces != 3 {
		t.Errorf("unexpected response %+v", out)
	}
}

func TestToolEndpoint_BadRequests(t *testing.T) {
	srv := testServer(t)
	for _, body := range []string{
		`{"tool":"solve","extra":1}`,
		`{"tool":"solve"} {"tool":"solve"}`,
		`not json`,
	} {
		resp, err := http.Post(srv.URL+"/tool", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: want 400, got %d", body, resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/tool")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /tool: want 405, got %d", resp.StatusCode)
	}
}

func TestToolEndpoint_BodyLimit(t *testing.T) {
	big := `{"tool":"evaluate","params":{"expr":"` + strings.Repeat("x+", maxBodyBytes) + `x"}}`
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(big))
	rec := httptest.NewRecorder()
	toolHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("want 400 for oversized body, got %d", rec.Code)
	}
}

func plotURL(srv *httptest.Server, v url.Values) string {
	return srv.URL + "/plot?" + v.Encode()
}

func TestPlotEndpoint(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(plotURL(srv, url.Values{
		"f": {"x^2 - 4"}, "g": {"x"}, "x0": {"3"}, "tol": {"0.001"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("want image/png, got %s", ct)
	}
	if !strings.HasPrefix(resp.Header.Get("X-Root"), "2.00") {
		t.Errorf("unexpected X-Root %q", resp.Header.Get("X-Root"))
	}
	b, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestPlotEndpoint_NotConverged(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(plotURL(srv, url.Values{
		"f": {"x^2 + 1"}, "g": {"x"}, "x0": {"0"}, "tol": {"0.01"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", resp.StatusCode)
	}
	var res hybridroot.SolveResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "numeric_failure" || res.Reason != "derivative near zero" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestPlotEndpoint_BadParams(t *testing.T) {
	srv := testServer(t)
	for _, v := range []url.Values{
		{"g": {"x"}, "x0": {"1"}, "tol": {"0.1"}},
		{"f": {"x"}, "g": {"x"}, "tol": {"0.1"}},
		{"f": {"x"}, "g": {"x"}, "x0": {"a"}, "tol": {"0.1"}},
		{"f": {"x"}, "g": {"x"}, "x0": {"1"}, "tol": {"0.1"}, "format": {"gif"}},
		{"f": {"x +"}, "g": {"x"}, "x0": {"1"}, "tol": {"0.1"}},
		{"f": {"x"}, "g": {"x"}, "x0": {"1"}, "tol": {"0"}},
		{"f": {"x"}, "g": {"x"}, "x0": {"1"}, "tol": {"0.1"}, "max_iter": {"1000000000"}},
	} {
		resp, err := http.Get(plotURL(srv, v))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("params %v: want 400, got %d", v, resp.StatusCode)
		}
	}
}

func TestSchemaAndHealth(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/schema")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !json.Valid(b) || !bytes.Contains(b, []byte(`"solve"`)) {
		t.Errorf("unexpected schema %s", b)
	}

	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var h map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h["status"] != "ok" {
		t.Errorf("unexpected health %v", h)
	}
}
