package reporting

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type stubSink struct {
	id     string
	err    error
	mu     sync.Mutex
	sent   []Report
	closed bool
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return "stub" }

func (s *stubSink) Send(_ context.Context, rep Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, rep)
	return nil
}

func (s *stubSink) Close() error {
	s.closed = true
	return nil
}

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestFanoutAggregatesErrors(t *testing.T) {
	ok := &stubSink{id: "ok"}
	bad := &stubSink{id: "bad", err: errors.New("boom")}
	fan := NewFanout([]Sink{ok, nil, bad})

	if fan.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", fan.Size())
	}

	sent, err := fan.Send(context.Background(), Report{Fingerprint: "f"})
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if err == nil || !strings.Contains(err.Error(), "reporter[bad]") {
		t.Fatalf("expected error naming the failing sink, got %v", err)
	}
	if ok.count() != 1 {
		t.Fatalf("healthy sink did not receive the report")
	}
}

func TestFanoutEmptyAndClose(t *testing.T) {
	var nilFan *Fanout
	if sent, err := nilFan.Send(context.Background(), Report{}); sent != 0 || err != nil {
		t.Fatalf("nil fanout Send = %d, %v", sent, err)
	}

	s := &stubSink{id: "s"}
	if err := NewFanout([]Sink{s}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !s.closed {
		t.Fatalf("sink was not closed")
	}
}

func TestBuildAllClosesOnFailure(t *testing.T) {
	built := &stubSink{id: "first"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(_ context.Context, cfg SinkConfig, _ Logger) (Sink, error) {
			if cfg.ID == "second" {
				return nil, errors.New("cannot build")
			}
			return built, nil
		},
	})

	_, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "stub"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), `"second"`) {
		t.Fatalf("expected build error for second, got %v", err)
	}
	if !built.closed {
		t.Fatalf("previously built sink should be closed")
	}

	if _, err := reg.SinkFor(context.Background(), SinkConfig{ID: "x", Type: "carrier-pigeon"}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
