package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextFieldsFlowThrough(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithFields(ctx, map[string]any{"seller_id": "abc"})
	logg.Info(ctx, "hello")

	line := buf.String()
	for _, want := range []string{`"request_id":"req-123"`, `"seller_id":"abc"`, `"service":"test"`, "hello"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected log line to contain %q, got %s", want, line)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("empty level should default to info")
	}
	if ParseLevel("DEBUG") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if ParseLevel("not-a-level") != zerolog.InfoLevel {
		t.Fatalf("garbage should default to info")
	}
}
