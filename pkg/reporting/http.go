package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-request/pkg/httpclient"
	"github.com/samvad-hq/samvad-request/pkg/request"
)

// httpSink posts reports as JSON through a request.Client of its own, so a
// failing sink is never fed back into reporting.
type httpSink struct {
	id      string
	method  string
	url     string
	headers map[string]string
	timeout time.Duration
	client  *request.Client
	log     Logger
}

func newHTTPSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("reporter %q missing http configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return &httpSink{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		timeout: timeout,
		client:  request.NewClient(httpclient.NewRestyTransport(timeout, nil)),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpSink) ID() string   { return h.id }
func (h *httpSink) Type() string { return TypeHTTP }

func (h *httpSink) Send(ctx context.Context, rep Report) error {
	headers := make(map[string]string, len(h.headers)+1)
	for k, v := range h.headers {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"

	_, err := h.client.Request(ctx, h.url, h.method, rep, request.Options{
		Headers: headers,
		Timeout: h.timeout,
	})
	if err != nil {
		h.log.ErrorObj("http reporter send failed", "reporter_http_error", map[string]any{
			"reporter_id": h.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("http report: %w", err)
	}
	h.log.DebugObj("http reporter delivered report", "reporter_http_delivery", map[string]any{
		"reporter_id": h.id,
		"fingerprint": rep.Fingerprint,
	})
	return nil
}
