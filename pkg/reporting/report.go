package reporting

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic fingerprint
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-request/pkg/request"
)

const maxSummaryLen = 256

var redactedHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie", "X-Api-Key"}

const redactedValue = "[redacted]"

// Report is the payload shipped to sinks for a failed request.
type Report struct {
	Fingerprint string              `json:"fingerprint"`
	Kind        string              `json:"kind"`
	Method      string              `json:"method"`
	URL         string              `json:"url"`
	StatusCode  int                 `json:"status_code,omitempty"`
	ServerError any                 `json:"server_error,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Diagnostics request.Diagnostics `json:"diagnostics"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// NewReport builds a Report from a failed result. Successful results yield false.
func NewReport(res request.Result) (Report, bool) {
	diag := res.Diagnostics()
	if diag.Request != nil {
		req := *diag.Request
		req.Options.Headers = redact(req.Options.Headers)
		diag.Request = &req
	}
	if diag.Response != nil {
		resp := *diag.Response
		resp.Headers = redactMulti(resp.Headers)
		diag.Response = &resp
	}

	rep := Report{
		Kind:        res.Kind().String(),
		Method:      res.Request().Options.Method,
		URL:         res.Request().URL,
		Diagnostics: diag,
		OccurredAt:  time.Now().UTC(),
	}

	switch res.Kind() {
	case request.KindHTTPFailure:
		httpErr, _ := res.HTTPError()
		rep.StatusCode = httpErr.StatusCode()
		rep.ServerError = httpErr.ServerError()
		rep.Summary = summarize(httpErr)
	case request.KindNetworkFailure:
		netErr, _ := res.NetworkError()
		if netErr.Exception() != nil {
			rep.Summary = truncate(netErr.Exception().Error())
		}
	default:
		return Report{}, false
	}

	rep.Fingerprint = fingerprint(rep.Kind, rep.Method, rep.URL, rep.StatusCode)
	return rep, true
}

func fingerprint(kind, method, url string, status int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s|%d", kind, method, url, status)))
	return hex.EncodeToString(sum[:])
}

// summarize picks a one-line description of an HTTP failure: the server's
// error message, the page title for HTML bodies, or the start of the text.
func summarize(e *request.HTTPError) string {
	if msg, ok := e.ServerError().(string); ok {
		return truncate(msg)
	}
	text, ok := e.Body().(string)
	if !ok {
		return request.StatusText(e.StatusCode())
	}
	if strings.Contains(e.Response().Header("Content-Type"), "html") {
		if title := htmlTitle(text); title != "" {
			return truncate(title)
		}
	}
	return truncate(firstNonEmpty(text, request.StatusText(e.StatusCode())))
}

func htmlTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return firstNonEmpty(
		extract(`meta[property="og:title"]`),
		doc.Find("title").First().Text(),
		doc.Find("h1").First().Text(),
	)
}

func redact(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return headers
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
		if isCredentialHeader(k) {
			out[k] = redactedValue
		}
	}
	return out
}

// redactMulti masks every value of credential headers in a response snapshot.
func redactMulti(headers map[string][]string) map[string][]string {
	if len(headers) == 0 {
		return headers
	}
	out := make(map[string][]string, len(headers))
	for k, vals := range headers {
		if !isCredentialHeader(k) {
			out[k] = append([]string(nil), vals...)
			continue
		}
		masked := make([]string, len(vals))
		for i := range masked {
			masked[i] = redactedValue
		}
		out[k] = masked
	}
	return out
}

func isCredentialHeader(name string) bool {
	for _, h := range redactedHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSummaryLen {
		return s[:maxSummaryLen] + "..."
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
