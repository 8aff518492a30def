package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
)

const defaultTimeout = 15 * time.Second

var errNoResponse = errors.New("transport returned no response")

// Observer is notified of every classified result. It cannot change the outcome.
// Observe runs synchronously inside Client.Do, so a slow observer delays the
// caller by however long it takes.
type Observer interface {
	Observe(ctx context.Context, res Result)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, res Result)

// Observe calls f(ctx, res).
func (f ObserverFunc) Observe(ctx context.Context, res Result) { f(ctx, res) }

// Client issues requests through an injected transport and classifies the outcome.
// It is safe for concurrent use.
type Client struct {
	transport httpclient.Transport
	log       Logger
	observers []Observer
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithLogger sets the client logger.
func WithLogger(log Logger) ClientOption {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithObserver registers an observer for classified results. Observers run in
// registration order before Do returns; hand slow work off to a goroutine
// when the caller must not wait for it.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// DefaultTransport returns a resty transport with a 15s timeout.
func DefaultTransport() httpclient.Transport {
	return httpclient.NewRestyTransport(defaultTimeout, nil)
}

// NewClient builds a client on transport (or the default transport when nil).
func NewClient(transport httpclient.Transport, opts ...ClientOption) *Client {
	if transport == nil {
		transport = DefaultTransport()
	}
	c := &Client{transport: transport, log: noopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends one request and classifies the outcome into a Result. An empty
// method means GET and a nil body means no payload.
//
// The returned error is non-nil only when no classification was possible: the
// URL or body could not be encoded, or a response claiming application/json
// could not be parsed.
func (c *Client) Do(ctx context.Context, rawURL, method string, body any, opts Options) (Result, error) {
	if c == nil || c.transport == nil {
		return Result{}, fmt.Errorf("request client is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if method == "" {
		method = MethodGet
	}

	sendable, err := DeriveOptions(method, body, opts)
	if err != nil {
		return Result{}, fmt.Errorf("derive options: %w", err)
	}
	target, err := DeriveURL(rawURL, method, body)
	if err != nil {
		return Result{}, fmt.Errorf("derive url: %w", err)
	}
	info := RequestInfo{URL: target, Options: sendable}

	start := time.Now()
	resp, err := c.transport.Do(ctx, target, sendable)
	if err == nil && resp == nil {
		err = errNoResponse
	}
	if err != nil {
		res := NetworkFailureResult(NewNetworkError(err, info, ""))
		c.log.WarnObj("request network failure", "request_network_error", map[string]any{
			"method": sendable.Method,
			"url":    target,
			"error":  err.Error(),
		})
		c.notify(ctx, res)
		return res, nil
	}

	decoded, err := DecodeBody(resp)
	if err != nil {
		c.log.ErrorObj("response decode failed", "request_decode_error", map[string]any{
			"method":      sendable.Method,
			"url":         target,
			"status_code": resp.StatusCode(),
			"error":       err.Error(),
		})
		return Result{}, fmt.Errorf("%s %s: %w", sendable.Method, target, err)
	}

	var res Result
	if !resp.OK() {
		res = HTTPFailureResult(NewHTTPError(resp, decoded, ""), info)
	} else {
		res = SuccessResult(NewValidResponse(resp, decoded), info)
	}

	c.log.DebugObj("request completed", "request_result", map[string]any{
		"method":      sendable.Method,
		"url":         target,
		"status_code": resp.StatusCode(),
		"kind":        res.Kind().String(),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	c.notify(ctx, res)
	return res, nil
}

// Request is Do collapsed into Go's usual shape: the ValidResponse, or an
// error that is a *HTTPError, a *NetworkError, or an unclassified failure.
func (c *Client) Request(ctx context.Context, rawURL, method string, body any, opts Options) (*ValidResponse, error) {
	res, err := c.Do(ctx, rawURL, method, body, opts)
	if err != nil {
		return nil, err
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	v, _ := res.Valid()
	return v, nil
}

func (c *Client) notify(ctx context.Context, res Result) {
	for _, o := range c.observers {
		o.Observe(ctx, res)
	}
}
