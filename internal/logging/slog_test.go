package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, nil)
	return NewSlogLogger(slog.New(h)), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return m
}

func TestSlogLogger_InfoWritesJSON(t *testing.T) {
	log, buf := newBufLogger()
	log.Info(context.Background(), "hello", "key", "value")

	m := decodeLine(t, buf)
	if m["msg"] != "hello" || m["key"] != "value" {
		t.Fatalf("unexpected log record: %v", m)
	}
	if m["level"] != "INFO" {
		t.Fatalf("unexpected level: %v", m["level"])
	}
}

func TestNewJSON_WritesJSONToWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewJSON(buf)
	log.Warn(context.Background(), "careful", "count", 3)

	m := decodeLine(t, buf)
	if m["msg"] != "careful" || m["level"] != "WARN" {
		t.Fatalf("unexpected log record: %v", m)
	}
	if m["count"] != float64(3) {
		t.Fatalf("unexpected count field: %v", m["count"])
	}
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	log, buf := newBufLogger()
	child := log.With("module", "auth")
	child.Error(context.Background(), "boom")

	m := decodeLine(t, buf)
	if m["module"] != "auth" {
		t.Fatalf("expected module field, got %v", m)
	}
	if m["level"] != "ERROR" {
		t.Fatalf("unexpected level: %v", m["level"])
	}
}
