package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentLedger, Output: &buf})
	l.Info("sale recorded", FieldKind, "sales")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v (%s)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentLedger || rec[FieldKind] != "sales" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Format: "text", Component: ComponentApp, Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "pretty", Component: ComponentCLI, Output: &buf})
	l.Info("payroll computed")
	if !strings.Contains(buf.String(), "payroll computed") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error")
	}
}

func TestLogHTTPEnd(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}))
	r := httptest.NewRequest(http.MethodPost, "/api/purchases?x=1", nil)
	sl.LogHTTPEnd(context.Background(), r, http.StatusInternalServerError, 12, "10.0.0.1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if rec["level"] != "ERROR" || rec[FieldComponent] != ComponentHTTP || rec[FieldClientIP] != "10.0.0.1" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected default logger")
	}
	l := Nop()
	if FromContext(WithLogger(context.Background(), l)) != l {
		t.Fatal("expected stored logger")
	}
}
