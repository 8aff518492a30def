package request

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
)

func TestHTTPErrorServerErrorTruthiness(t *testing.T) {
	resp := httpclient.NewStaticResponse(400, nil, "")
	cases := []struct {
		body any
		want any
	}{
		{body: map[string]any{"error": "bad"}, want: "bad"},
		{body: map[string]any{"error": ""}, want: nil},
		{body: map[string]any{"error": false}, want: nil},
		{body: map[string]any{"error": float64(0)}, want: nil},
		{body: map[string]any{"error": float64(7)}, want: float64(7)},
		{body: "plain text", want: nil},
		{body: []any{"error"}, want: nil},
	}
	for _, tc := range cases {
		if got := NewHTTPError(resp, tc.body, "").ServerError(); got != tc.want {
			t.Fatalf("ServerError(%#v) = %#v, want %#v", tc.body, got, tc.want)
		}
	}
}

func TestResultVariantsAreExclusive(t *testing.T) {
	info := RequestInfo{URL: endpoint}
	ok := SuccessResult(NewValidResponse(httpclient.NewStaticResponse(200, nil, ""), "x"), info)
	if ok.Err() != nil || ok.Kind() != KindSuccess {
		t.Fatalf("unexpected success result %#v", ok)
	}
	if _, is := ok.HTTPError(); is {
		t.Fatalf("success must not report http failure")
	}

	netErr := NewNetworkError(errors.New("dial tcp: refused"), info, "")
	failed := NetworkFailureResult(netErr)
	if failed.Err() != netErr || failed.StatusCode() != 0 {
		t.Fatalf("unexpected network result %#v", failed)
	}
	if _, is := failed.Valid(); is {
		t.Fatalf("network failure must not report success")
	}
}

func TestDiagnosticsAreJSONEncodable(t *testing.T) {
	resp := httpclient.NewStaticResponse(503, map[string]string{"Retry-After": "5"}, "")
	res := HTTPFailureResult(NewHTTPError(resp, map[string]any{"error": "down"}, ""), RequestInfo{URL: endpoint})

	raw, err := json.Marshal(res.Diagnostics())
	if err != nil {
		t.Fatalf("marshal diagnostics: %v", err)
	}
	for _, want := range []string{`"statusCode":503`, `"error":"down"`, `"Retry-After"`, endpoint} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("diagnostics %s missing %s", raw, want)
		}
	}
}

func TestCatalogs(t *testing.T) {
	if !IsMethod("patch") || IsMethod("FETCH") {
		t.Fatalf("IsMethod mismatch")
	}
	if len(Methods()) != 9 {
		t.Fatalf("expected 9 methods, got %d", len(Methods()))
	}
	if StatusNotFound != 404 || StatusText(StatusTeapot) != "I'm a teapot" {
		t.Fatalf("status catalog mismatch")
	}
	if StatusClass(StatusTooManyRequests) != "client_error" || !IsSuccess(StatusNoContent) || IsSuccess(StatusFound) {
		t.Fatalf("status class mismatch")
	}
}
