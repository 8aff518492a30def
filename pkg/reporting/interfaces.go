package reporting

import (
	"context"

	"github.com/samvad-hq/samvad-request/pkg/request"
)

// Sink ships reports to a downstream system (HTTP, SQS, SNS, Pub/Sub).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, rep Report) error
}

// Deduper decides whether a fingerprint should be reported now.
type Deduper interface {
	ClaimReport(fingerprint string) (bool, error)
	ForgetReport(fingerprint string) error
}

// Logger is the logging surface reporting relies on.
type Logger = request.Logger

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}
