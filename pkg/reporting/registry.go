package reporting

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Builder turns one reporters-file entry into a live Sink. It may dial the
// downstream service, hence the context.
type Builder func(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error)

// Registry resolves the sink type named in a reporter entry (http, sqs, sns,
// pubsub) to the Builder that constructs it.
type Registry interface {
	Register(typ string, builder Builder)
	SinkFor(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a Registry seeded with builders keyed by sink type.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{
		builders: make(map[string]Builder),
	}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register makes builder handle reporters of type typ. Blank types and nil
// builders are ignored; a later call for the same type replaces the earlier one.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// SinkFor builds the sink for one reporter entry, failing when its type has no builder.
func (r *registry) SinkFor(ctx context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("reporter %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no sink registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, ensureLogger(log))
}

// DefaultRegistry knows every sink a reporters file can declare.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPSink,
		TypeSQS:    newSQSSink,
		TypeSNS:    newSNSSink,
		TypePubSub: newPubSubSink,
	})
}

// BuildAll builds a sink per enabled reporter entry. On the first failure the
// sinks already built are closed, so no client connections leak.
func BuildAll(ctx context.Context, reg Registry, cfgs []SinkConfig, log Logger) ([]Sink, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	sinks := make([]Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		sink, err := reg.SinkFor(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(sinks).Close()
			return nil, fmt.Errorf("build reporter %q: %w", cfg.ID, err)
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}
