package request

import (
	"math"
	"testing"
)

func TestDeriveOptionsEncodesStructuredBodyAsJSON(t *testing.T) {
	opts, err := DeriveOptions(MethodPost, map[string]any{"key": "some value", "key2": 182}, Options{})
	if err != nil {
		t.Fatalf("DeriveOptions: %v", err)
	}
	if !opts.HasBody || opts.Body != `{"key":"some value","key2":182}` {
		t.Fatalf("unexpected body %q (has=%v)", opts.Body, opts.HasBody)
	}
	if got := opts.Headers["Content-Type"]; got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if opts.Method != MethodPost {
		t.Fatalf("Method = %q", opts.Method)
	}
}

func TestDeriveOptionsSendsStringVerbatim(t *testing.T) {
	body := "Let's Go Raptors! #WeTheNorth"
	opts, err := DeriveOptions("put", body, Options{})
	if err != nil {
		t.Fatalf("DeriveOptions: %v", err)
	}
	if opts.Body != body {
		t.Fatalf("Body = %q", opts.Body)
	}
	if got := opts.Headers["Content-Type"]; got != "text/plain" {
		t.Fatalf("Content-Type = %q", got)
	}
	if opts.Method != MethodPut {
		t.Fatalf("Method = %q, want PUT", opts.Method)
	}
}

func TestDeriveOptionsKeepsCallerContentType(t *testing.T) {
	headers := map[string]string{"Content-Type": "text/html", "X-Trace": "1"}
	opts, err := DeriveOptions(MethodPost, "<p>hi</p>", Options{Headers: headers})
	if err != nil {
		t.Fatalf("DeriveOptions: %v", err)
	}
	if got := opts.Headers["Content-Type"]; got != "text/html" {
		t.Fatalf("Content-Type = %q", got)
	}
	if opts.Headers["X-Trace"] != "1" {
		t.Fatalf("caller header dropped: %#v", opts.Headers)
	}

	opts.Headers["X-Trace"] = "changed"
	if headers["X-Trace"] != "1" {
		t.Fatalf("caller headers were mutated")
	}
}

func TestDeriveOptionsContentTypeMatchIsCaseSensitive(t *testing.T) {
	opts, err := DeriveOptions(MethodPost, map[string]any{"a": 1}, Options{Headers: map[string]string{"content-type": "text/csv"}})
	if err != nil {
		t.Fatalf("DeriveOptions: %v", err)
	}
	if got := opts.Headers["Content-Type"]; got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
}

func TestDeriveOptionsNeverAttachesBodyToGet(t *testing.T) {
	for _, body := range []any{map[string]any{"limb": "foo"}, "raw", []byte("raw")} {
		opts, err := DeriveOptions("GET", body, Options{})
		if err != nil {
			t.Fatalf("DeriveOptions: %v", err)
		}
		if opts.HasBody || opts.Body != "" {
			t.Fatalf("GET carried a body: %#v", opts)
		}
		if _, ok := opts.Headers["Content-Type"]; ok {
			t.Fatalf("GET should not get a Content-Type")
		}
	}
}

func TestDeriveOptionsNilBodyHasNoPayload(t *testing.T) {
	opts, err := DeriveOptions(MethodPost, nil, Options{})
	if err != nil {
		t.Fatalf("DeriveOptions: %v", err)
	}
	if opts.HasBody || len(opts.Headers) != 0 {
		t.Fatalf("unexpected options %#v", opts)
	}
}

func TestDeriveOptionsCallerMethodOverrides(t *testing.T) {
	opts, err := DeriveOptions(MethodGet, map[string]any{"a": 1}, Options{Method: "delete"})
	if err != nil {
		t.Fatalf("DeriveOptions: %v", err)
	}
	if opts.Method != MethodDelete {
		t.Fatalf("Method = %q, want DELETE", opts.Method)
	}
	if opts.HasBody {
		t.Fatalf("body encoding follows the method argument, not the override")
	}
}

func TestDeriveOptionsReportsEncodeFailure(t *testing.T) {
	if _, err := DeriveOptions(MethodPost, map[string]any{"bad": math.Inf(1)}, Options{}); err == nil {
		t.Fatalf("expected encode error")
	}
}
