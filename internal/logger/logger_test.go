package logger

import (
	"testing"

	"github.com/samvad-hq/samvad-request/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitSetsPackageLogger(t *testing.T) {
	defer func() { S = nil }()

	sugar, err := Init(&config.Config{AppName: "test", LogLevel: "debug"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if sugar == nil || S != sugar {
		t.Fatalf("expected package logger to be set")
	}
}

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core).Sugar())

	log.WarnObj("request network failure", "request_network_error", map[string]any{"url": "http://x"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "request network failure" || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected entry %#v", entries[0])
	}
	if _, ok := entries[0].ContextMap()["request_network_error"]; !ok {
		t.Fatalf("missing structured field: %#v", entries[0].ContextMap())
	}
}

func TestNewNilIsNop(t *testing.T) {
	if _, ok := New(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil input")
	}
	// package helpers must not panic before Init
	S = nil
	InfoObj("x", "k", 1)
}
