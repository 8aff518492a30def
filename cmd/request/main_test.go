package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
	"github.com/samvad-hq/samvad-request/pkg/request"
)

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{"X-Token: abc", "Accept:text/plain"})
	if err != nil {
		t.Fatalf("parseHeaders: %v", err)
	}
	if got["X-Token"] != "abc" || got["Accept"] != "text/plain" {
		t.Fatalf("unexpected headers %#v", got)
	}
	if _, err := parseHeaders([]string{"no-colon"}); err == nil {
		t.Fatalf("expected error for malformed header")
	}
}

func TestBuildCall(t *testing.T) {
	call, err := buildCall("http://example.com", flags{method: "post", data: `{"a":1}`, jsonBody: true})
	if err != nil {
		t.Fatalf("buildCall: %v", err)
	}
	body, ok := call.Body.(map[string]any)
	if call.Method != "POST" || !ok || body["a"] != float64(1) {
		t.Fatalf("unexpected call %#v", call)
	}

	call, err = buildCall("http://example.com", flags{method: "GET", data: "q=go"})
	if err != nil || call.Body != "q=go" {
		t.Fatalf("expected raw string body, got %#v (%v)", call.Body, err)
	}

	if _, err := buildCall("http://example.com", flags{method: "FETCH"}); err == nil {
		t.Fatalf("expected error for unknown method")
	}
	if _, err := buildCall("http://example.com", flags{method: "POST", data: "{", jsonBody: true}); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestExitCode(t *testing.T) {
	httpErr := request.NewHTTPError(httpclient.NewStaticResponse(404, nil, ""), nil, "")
	netErr := request.NewNetworkError(errors.New("refused"), request.RequestInfo{}, "")

	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{httpErr, exitHTTPError},
		{fmt.Errorf("wrapped: %w", netErr), exitNetworkError},
		{errors.New("load config"), exitFailure},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRootCommandPrintsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"q":%q}`, r.URL.Query().Get("q"))
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{srv.URL, "-d", "q=gopher"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), `"q": "gopher"`) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRootCommandReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{srv.URL})
	err := cmd.Execute()
	if got := exitCode(err); got != exitHTTPError {
		t.Fatalf("exit code = %d (err %v)", got, err)
	}
	if !strings.Contains(out.String(), "gone") {
		t.Fatalf("error body not printed: %q", out.String())
	}
}
