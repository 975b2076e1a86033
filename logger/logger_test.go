package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "engine-connector", buf)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("hidden")
	l.Warn("retrying", AttemptFields("/v1.41/info", 1, 3))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["message"] != "retrying" {
		t.Errorf("unexpected message %v", lines[0]["message"])
	}
	if lines[0][FieldAttempt] != float64(1) || lines[0][FieldMaxAttempts] != float64(3) {
		t.Errorf("expected attempt 1/3, got %v/%v", lines[0][FieldAttempt], lines[0][FieldMaxAttempts])
	}
	if lines[0][FieldEndpoint] != "/v1.41/info" {
		t.Errorf("expected endpoint field, got %v", lines[0][FieldEndpoint])
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "nonsense")
	l.Debug("hidden")
	l.Info("shown")
	if got := len(decodeLines(t, &buf)); got != 1 {
		t.Errorf("expected 1 line at info level, got %d", got)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info").WithComponent("httpclient")
	l.Info("hello")
	lines := decodeLines(t, &buf)
	if lines[0][FieldComponent] != "httpclient" {
		t.Errorf("expected component field, got %v", lines[0][FieldComponent])
	}
	if l.service != "engine-connector" {
		t.Errorf("service should be preserved, got %q", l.service)
	}
}

func TestWithContext_Invocation(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithInvocation(context.Background(), "inv-1", "list_containers")
	jsonLogger(&buf, "info").WithContext(ctx).Info("dispatch")

	lines := decodeLines(t, &buf)
	if lines[0][FieldInvocationID] != "inv-1" {
		t.Errorf("expected invocation id, got %v", lines[0][FieldInvocationID])
	}
	if lines[0][FieldOperation] != "list_containers" {
		t.Errorf("expected operation, got %v", lines[0][FieldOperation])
	}
	if InvocationIDFromContext(ctx) != "inv-1" {
		t.Error("expected InvocationIDFromContext to return the stored id")
	}
	if InvocationIDFromContext(context.Background()) != "" {
		t.Error("expected empty id for a bare context")
	}
}

func TestWithContext_TraceIDs(t *testing.T) {
	var buf bytes.Buffer
	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	jsonLogger(&buf, "info").WithContext(ctx).Info("traced")
	lines := decodeLines(t, &buf)
	if lines[0][FieldTraceID] != traceID.String() {
		t.Errorf("expected trace id, got %v", lines[0][FieldTraceID])
	}
	if lines[0][FieldSpanID] != spanID.String() {
		t.Errorf("expected span id, got %v", lines[0][FieldSpanID])
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").
		WithFields(map[string]interface{}{FieldStatusCode: 503}).
		WithError(errors.New("boom")).
		Error("request failed")

	lines := decodeLines(t, &buf)
	if lines[0][FieldStatusCode] != float64(503) {
		t.Errorf("expected status_code 503, got %v", lines[0][FieldStatusCode])
	}
	if lines[0]["error"] != "boom" {
		t.Errorf("expected error field, got %v", lines[0]["error"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded")
	if l.WithComponent("x") == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestInitAndGlobal(t *testing.T) {
	Init(Config{Level: "info", Format: "json", Output: "stderr"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")

	custom := NewDefault("custom")
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stderr"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stdout"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsoleFormatWritesLevelTag(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "engine-connector", &buf)
	l.Warn("careful")
	if !strings.Contains(buf.String(), "[ENG][WRN]") {
		t.Errorf("expected service and level tag, got %q", buf.String())
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		kvs  []interface{}
		want int
	}{
		{"pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"odd count drops tail", []interface{}{"a", 1, "b"}, 1},
		{"non-string key skipped", []interface{}{1, "x", "a", 2}, 1},
		{"empty", nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(Fields(tc.kvs...)); got != tc.want {
				t.Errorf("expected %d fields, got %d", tc.want, got)
			}
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	rf := RequestFields("POST", "/containers/create")
	if rf[FieldMethod] != "POST" || rf[FieldEndpoint] != "/containers/create" {
		t.Errorf("unexpected request fields %v", rf)
	}

	ef := ErrorFields("inspect_image", errors.New("nope"))
	if ef[FieldOperation] != "inspect_image" || ef[FieldError] != "nope" {
		t.Errorf("unexpected error fields %v", ef)
	}

	merged := MergeWithDuration(MergeWithError(nil, errors.New("x")), 1500*time.Millisecond)
	if merged[FieldError] != "x" || merged[FieldDuration] != int64(1500) {
		t.Errorf("unexpected merged fields %v", merged)
	}
}

func TestWithContext_BareContextKeepsLogger(t *testing.T) {
	l := jsonLogger(&bytes.Buffer{}, "info")
	if l.WithContext(context.Background()) != l {
		t.Error("expected a context without ids to return the same logger")
	}
	ctx := ContextWithInvocation(context.Background(), "inv-2", "")
	if OperationFromContext(ctx) != "" || InvocationIDFromContext(ctx) != "inv-2" {
		t.Error("unexpected invocation values")
	}
}

func TestConsoleFormat_ShortServiceHasNoPrefix(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&Config{Level: "info", Format: "pretty", NoColor: true}, "ec", &buf).Info("hi")
	if !strings.Contains(buf.String(), "[INF]") || strings.Contains(buf.String(), "[EC]") {
		t.Errorf("unexpected console line %q", buf.String())
	}
}
