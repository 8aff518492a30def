package httpclient

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
)

// oneShotBody guards a payload stream so it can be taken once.
type oneShotBody struct {
	rc    io.ReadCloser
	taken atomic.Bool
}

func (o *oneShotBody) take() (io.ReadCloser, error) {
	if !o.taken.CompareAndSwap(false, true) {
		return nil, ErrBodyConsumed
	}
	if o.rc == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return o.rc, nil
}

// StaticResponse is an in-memory Response, handy for custom transports and tests.
type StaticResponse struct {
	status int
	header http.Header
	body   oneShotBody
}

// NewStaticResponse builds a Response with the given status, headers and payload.
func NewStaticResponse(status int, headers map[string]string, body string) *StaticResponse {
	h := make(http.Header, len(headers))
	for k, v := range headers {
		h.Set(k, v)
	}
	return &StaticResponse{
		status: status,
		header: h,
		body:   oneShotBody{rc: io.NopCloser(bytes.NewBufferString(body))},
	}
}

func (s *StaticResponse) StatusCode() int              { return s.status }
func (s *StaticResponse) OK() bool                     { return isSuccess(s.status) }
func (s *StaticResponse) Header(name string) string    { return s.header.Get(name) }
func (s *StaticResponse) Headers() map[string][]string { return s.header.Clone() }
func (s *StaticResponse) Body() (io.ReadCloser, error) { return s.body.take() }

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
