package reporting

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-request/pkg/request"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher turns failed request results into reports and ships them.
// It implements request.Observer.
type Dispatcher struct {
	fanout      *Fanout
	deduper     Deduper
	log         Logger
	sendTimeout time.Duration
}

// NewDispatcher wires the fan-out with an optional deduper (nil reports every failure).
func NewDispatcher(fanout *Fanout, deduper Deduper, log Logger) *Dispatcher {
	return &Dispatcher{
		fanout:      fanout,
		deduper:     deduper,
		log:         ensureLogger(log),
		sendTimeout: defaultSendTimeout,
	}
}

// Observe reports res when it is a failure. Delivery problems are logged, never returned.
// Registered on a request.Client it runs inside Do, so a failing call can block
// for up to the send timeout (10s) while the sinks deliver.
func (d *Dispatcher) Observe(ctx context.Context, res request.Result) {
	if d == nil || d.fanout.Size() == 0 {
		return
	}
	rep, ok := NewReport(res)
	if !ok {
		return
	}
	d.Dispatch(ctx, rep)
}

// Dispatch ships rep unless the deduper says it was reported recently.
// It returns the number of sinks that accepted the report.
func (d *Dispatcher) Dispatch(ctx context.Context, rep Report) int {
	if d.deduper != nil {
		claimed, err := d.deduper.ClaimReport(rep.Fingerprint)
		if err != nil {
			d.log.WarnObj("report dedupe lookup failed; sending anyway", "report_dedupe_error", map[string]any{
				"fingerprint": rep.Fingerprint,
				"error":       err.Error(),
			})
		} else if !claimed {
			d.log.DebugObj("report skipped; recently sent", "report_skipped", map[string]any{
				"fingerprint": rep.Fingerprint,
				"url":         rep.URL,
			})
			return 0
		}
	}

	// Detached from cancellation: a cancelled call is itself worth reporting.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	sent, err := d.fanout.Send(sendCtx, rep)
	if err != nil {
		d.log.ErrorObj("report delivery failed", "report_error", map[string]any{
			"fingerprint": rep.Fingerprint,
			"delivered":   sent,
			"sinks":       d.fanout.Size(),
			"error":       err.Error(),
		})
	}
	if sent == 0 && d.deduper != nil {
		if err := d.deduper.ForgetReport(rep.Fingerprint); err != nil {
			d.log.WarnObj("report dedupe rollback failed", "report_dedupe_error", map[string]any{
				"fingerprint": rep.Fingerprint,
				"error":       err.Error(),
			})
		}
	}
	if sent > 0 {
		d.log.InfoObj("report delivered", "report_result", map[string]any{
			"fingerprint": rep.Fingerprint,
			"kind":        rep.Kind,
			"status_code": rep.StatusCode,
			"delivered":   sent,
		})
	}
	return sent
}
