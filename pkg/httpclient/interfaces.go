package httpclient

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrBodyConsumed is returned when a response payload is read a second time.
var ErrBodyConsumed = errors.New("response body already consumed")

// Options are the final transport options for a single call.
type Options struct {
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
	HasBody bool              `json:"-"`
	Timeout time.Duration     `json:"timeout,omitempty"`
}

// Response is a completed exchange as seen by callers.
// Body hands out the payload stream exactly once.
type Response interface {
	StatusCode() int
	OK() bool
	Header(name string) string
	Headers() map[string][]string
	Body() (io.ReadCloser, error)
}

// Transport performs one network exchange. An error means no response was obtained.
type Transport interface {
	Do(ctx context.Context, url string, opts Options) (Response, error)
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(ctx context.Context, url string, opts Options) (Response, error)

// Do calls f.
func (f TransportFunc) Do(ctx context.Context, url string, opts Options) (Response, error) {
	return f(ctx, url, opts)
}
