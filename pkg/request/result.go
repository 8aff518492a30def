package request

import (
	"fmt"
	"math"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
)

const (
	defaultHTTPErrorMessage    = "The server responded with an HTTP error code."
	defaultNetworkErrorMessage = "A network error occurred. The network connection may have been disconnected, or the service may be down."
)

// Kind tags which variant a Result holds.
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindHTTPFailure
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindHTTPFailure:
		return "http_failure"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// RequestInfo is a snapshot of what was sent to the transport.
type RequestInfo struct {
	URL     string             `json:"url"`
	Options httpclient.Options `json:"options"`
}

// ResponseInfo is a JSON-friendly snapshot of a raw response.
type ResponseInfo struct {
	Status  int                 `json:"status"`
	Headers map[string][]string `json:"headers,omitempty"`
}

// Diagnostics bundles everything worth sending to an error tracker.
type Diagnostics struct {
	Body       any           `json:"body,omitempty"`
	Response   *ResponseInfo `json:"response,omitempty"`
	StatusCode int           `json:"statusCode,omitempty"`
	Request    *RequestInfo  `json:"request,omitempty"`
	Exception  string        `json:"exception,omitempty"`
}

// ValidResponse is a completed exchange with a 2xx status.
type ValidResponse struct {
	response httpclient.Response
	body     any
}

// NewValidResponse wraps a raw response and its decoded body.
func NewValidResponse(resp httpclient.Response, body any) *ValidResponse {
	return &ValidResponse{response: resp, body: body}
}

// Body is the decoded payload: parsed JSON for application/json, a string otherwise.
func (v *ValidResponse) Body() any { return v.body }

// Response is the raw transport response. Its payload has already been consumed.
func (v *ValidResponse) Response() httpclient.Response { return v.response }

// StatusCode returns the HTTP status of the raw response.
func (v *ValidResponse) StatusCode() int { return statusOf(v.response) }

// HTTPError is a completed exchange whose status is outside 200-299.
type HTTPError struct {
	response httpclient.Response
	body     any
	message  string
}

// NewHTTPError wraps an error-status response. An empty message uses the default.
func NewHTTPError(resp httpclient.Response, body any, message string) *HTTPError {
	if message == "" {
		message = defaultHTTPErrorMessage
	}
	return &HTTPError{response: resp, body: body, message: message}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.message, e.StatusCode())
}

// Message is the human readable description of the failure.
func (e *HTTPError) Message() string { return e.message }

// Body is the decoded payload returned by the server.
func (e *HTTPError) Body() any { return e.body }

// Response is the raw transport response. Its payload has already been consumed.
func (e *HTTPError) Response() httpclient.Response { return e.response }

// StatusCode returns the HTTP status of the raw response.
func (e *HTTPError) StatusCode() int { return statusOf(e.response) }

// ServerError returns body["error"] when the body is a JSON object and the
// value is set (non-empty, non-zero, non-false). Otherwise nil.
func (e *HTTPError) ServerError() any {
	obj, ok := e.body.(map[string]any)
	if !ok {
		return nil
	}
	v := obj["error"]
	if !truthy(v) {
		return nil
	}
	return v
}

// Diagnostics returns the body, response snapshot and status code.
func (e *HTTPError) Diagnostics() Diagnostics {
	return Diagnostics{
		Body:       e.body,
		Response:   snapshot(e.response),
		StatusCode: e.StatusCode(),
	}
}

// NetworkError is an exchange that never produced a response.
type NetworkError struct {
	exception error
	request   RequestInfo
	message   string
}

// NewNetworkError wraps a transport failure. An empty message uses the default.
func NewNetworkError(exception error, req RequestInfo, message string) *NetworkError {
	if message == "" {
		message = defaultNetworkErrorMessage
	}
	return &NetworkError{exception: exception, request: req, message: message}
}

func (e *NetworkError) Error() string {
	if e.exception == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.exception)
}

// Unwrap exposes the transport failure to errors.Is / errors.As.
func (e *NetworkError) Unwrap() error { return e.exception }

// Message is the human readable description of the failure.
func (e *NetworkError) Message() string { return e.message }

// Exception is the original transport failure.
func (e *NetworkError) Exception() error { return e.exception }

// Request describes the attempted call.
func (e *NetworkError) Request() RequestInfo { return e.request }

// Diagnostics returns the attempted request and the failure text.
func (e *NetworkError) Diagnostics() Diagnostics {
	req := e.request
	d := Diagnostics{Request: &req}
	if e.exception != nil {
		d.Exception = e.exception.Error()
	}
	return d
}

// Result holds exactly one of ValidResponse, HTTPError or NetworkError,
// along with the request that produced it.
type Result struct {
	kind    Kind
	request RequestInfo
	valid   *ValidResponse
	httpErr *HTTPError
	netErr  *NetworkError
}

// SuccessResult tags a ValidResponse.
func SuccessResult(v *ValidResponse, req RequestInfo) Result {
	return Result{kind: KindSuccess, request: req, valid: v}
}

// HTTPFailureResult tags an HTTPError.
func HTTPFailureResult(e *HTTPError, req RequestInfo) Result {
	return Result{kind: KindHTTPFailure, request: req, httpErr: e}
}

// NetworkFailureResult tags a NetworkError.
func NetworkFailureResult(e *NetworkError) Result {
	return Result{kind: KindNetworkFailure, request: e.Request(), netErr: e}
}

// Kind reports which variant is set. The zero Result has Kind 0.
func (r Result) Kind() Kind { return r.kind }

// Request is the snapshot of the call that produced r.
func (r Result) Request() RequestInfo { return r.request }

// Valid returns the success variant; ok is false for failures.
func (r Result) Valid() (*ValidResponse, bool) { return r.valid, r.kind == KindSuccess }

// HTTPError returns the non-2xx variant; ok is false otherwise.
func (r Result) HTTPError() (*HTTPError, bool) { return r.httpErr, r.kind == KindHTTPFailure }

// NetworkError returns the no-response variant; ok is false otherwise.
func (r Result) NetworkError() (*NetworkError, bool) {
	return r.netErr, r.kind == KindNetworkFailure
}

// Err returns the failure variant as an error, or nil on success.
func (r Result) Err() error {
	switch r.kind {
	case KindHTTPFailure:
		return r.httpErr
	case KindNetworkFailure:
		return r.netErr
	default:
		return nil
	}
}

// StatusCode is the response status, or 0 for network failures.
func (r Result) StatusCode() int {
	switch r.kind {
	case KindSuccess:
		return r.valid.StatusCode()
	case KindHTTPFailure:
		return r.httpErr.StatusCode()
	default:
		return 0
	}
}

// Diagnostics returns the failure's diagnostics bundle; empty on success.
func (r Result) Diagnostics() Diagnostics {
	switch r.kind {
	case KindHTTPFailure:
		d := r.httpErr.Diagnostics()
		req := r.request
		d.Request = &req
		return d
	case KindNetworkFailure:
		return r.netErr.Diagnostics()
	default:
		return Diagnostics{}
	}
}

func statusOf(resp httpclient.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}

func snapshot(resp httpclient.Response) *ResponseInfo {
	if resp == nil {
		return nil
	}
	return &ResponseInfo{Status: resp.StatusCode(), Headers: resp.Headers()}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}
