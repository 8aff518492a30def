package httpclient

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport adapts resty.Client to the httpclient.Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a new RestyTransport with the specified timeout.
// log may be nil; a zap SugaredLogger satisfies resty.Logger.
func NewRestyTransport(timeout time.Duration, log resty.Logger) *RestyTransport {
	c := newRestyBaseClient(timeout)
	if log != nil {
		c.SetLogger(log)
	}
	return &RestyTransport{client: c}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do executes a single request. The response payload is left unread for the caller.
func (r *RestyTransport) Do(ctx context.Context, url string, opts Options) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := context.CancelFunc(func() {})
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}

	req := r.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	// Names differing only by case are all sent, in sorted key order.
	keys := make([]string, 0, len(opts.Headers))
	for k := range opts.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		req.Header.Add(k, opts.Headers[k])
	}
	if opts.HasBody {
		req.SetBody([]byte(opts.Body))
	}

	resp, err := req.Execute(opts.Method, url)
	if err != nil {
		cancel()
		return nil, err
	}
	return &restyResponseAdapter{
		resp: resp,
		body: oneShotBody{rc: &cancelOnClose{ReadCloser: resp.RawBody(), cancel: cancel}},
	}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
	body oneShotBody
}

func (r *restyResponseAdapter) StatusCode() int              { return r.resp.StatusCode() }
func (r *restyResponseAdapter) OK() bool                     { return isSuccess(r.resp.StatusCode()) }
func (r *restyResponseAdapter) Header(name string) string    { return r.resp.Header().Get(name) }
func (r *restyResponseAdapter) Headers() map[string][]string { return r.resp.Header().Clone() }
func (r *restyResponseAdapter) Body() (io.ReadCloser, error) { return r.body.take() }

// cancelOnClose releases the per-call timeout once the payload is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	if c.ReadCloser == nil {
		return nil
	}
	return c.ReadCloser.Close()
}

func (c *cancelOnClose) Read(p []byte) (int, error) {
	if c.ReadCloser == nil {
		return 0, io.EOF
	}
	return c.ReadCloser.Read(p)
}
