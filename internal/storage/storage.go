package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store remembers recently reported failure fingerprints so the same failure
// is not shipped to the sinks over and over.
type Store interface {
	Close() error
	// ClaimReport records fingerprint and reports true, unless it is already
	// recorded and unexpired, in which case it reports false.
	ClaimReport(fingerprint string) (bool, error)
	// ForgetReport drops fingerprint so the next occurrence is reported again.
	ForgetReport(fingerprint string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ReportTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultReportTTL       = time.Hour
	defaultCleanupInterval = 10 * time.Minute
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts, time.Now)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ReportTTL <= 0 {
		opts.ReportTTL = defaultReportTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// noopStore claims everything, so every failure is reported.
type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) ClaimReport(string) (bool, error) { return true, nil }
func (noopStore) ForgetReport(string) error        { return nil }
