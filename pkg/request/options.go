package request

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
	mimeText          = "text/plain"
)

// Options are caller-supplied transport settings merged over the defaults.
type Options struct {
	// Headers are sent as given. A non-empty "Content-Type" entry is never overwritten.
	Headers map[string]string
	// Method, when set, replaces the method sent to the transport.
	Method string
	// Timeout is forwarded to the transport; zero leaves the transport default.
	Timeout time.Duration
}

// DeriveOptions builds the transport options for a call. GET requests and nil
// bodies never carry a payload; strings and byte slices are sent verbatim as
// text/plain, anything else is JSON-encoded.
func DeriveOptions(method string, body any, opts Options) (httpclient.Options, error) {
	out := httpclient.Options{
		Method:  strings.ToUpper(method),
		Headers: make(map[string]string, len(opts.Headers)+1),
		Timeout: opts.Timeout,
	}
	for k, v := range opts.Headers {
		out.Headers[k] = v
	}
	if opts.Method != "" {
		out.Method = strings.ToUpper(opts.Method)
	}

	if body == nil || isGet(method) {
		return out, nil
	}

	var contentType string
	switch v := body.(type) {
	case string:
		out.Body = v
		contentType = mimeText
	case []byte:
		out.Body = string(v)
		contentType = mimeText
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return httpclient.Options{}, fmt.Errorf("encode json body: %w", err)
		}
		out.Body = string(raw)
		contentType = mimeJSON
	}
	out.HasBody = true

	if out.Headers[headerContentType] == "" {
		out.Headers[headerContentType] = contentType
	}
	return out, nil
}
