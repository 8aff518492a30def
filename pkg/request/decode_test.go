package request

import (
	"errors"
	"reflect"
	"testing"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
)

func TestDecodeBodyByContentType(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		payload     string
		want        any
	}{
		{name: "json", contentType: "application/json", payload: `{"k":[1,"two"]}`, want: map[string]any{"k": []any{float64(1), "two"}}},
		{name: "json charset", contentType: "application/json; charset=UTF-8", payload: `"s"`, want: "s"},
		{name: "html", contentType: "text/html", payload: "<b>x</b>", want: "<b>x</b>"},
		{name: "missing header", payload: `{"k":1}`, want: `{"k":1}`},
		{name: "uppercase is text", contentType: "APPLICATION/JSON", payload: `{"k":1}`, want: `{"k":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.contentType != "" {
				headers["Content-Type"] = tc.contentType
			}
			got, err := DecodeBody(httpclient.NewStaticResponse(200, headers, tc.payload))
			if err != nil {
				t.Fatalf("DecodeBody: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("DecodeBody = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestDecodeBodyOnlyOnce(t *testing.T) {
	resp := httpclient.NewStaticResponse(200, nil, "once")
	if _, err := DecodeBody(resp); err != nil {
		t.Fatalf("first DecodeBody: %v", err)
	}
	if _, err := DecodeBody(resp); !errors.Is(err, httpclient.ErrBodyConsumed) {
		t.Fatalf("expected ErrBodyConsumed, got %v", err)
	}
}

func TestDecodeBodyEmptyJSONFails(t *testing.T) {
	resp := httpclient.NewStaticResponse(204, map[string]string{"Content-Type": "application/json"}, "")
	if _, err := DecodeBody(resp); err == nil {
		t.Fatalf("expected error decoding empty json payload")
	}
}
