package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:      LevelDebug,
		Output:     &buf,
		JSON:       true,
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}

	logger := New(cfg)
	if logger == nil {
		t.Fatal("New logger should not be nil")
	}

	t.Run("Levels", func(t *testing.T) {
		buf.Reset()
		logger.Debug("debug msg")
		if !strings.Contains(buf.String(), "debug msg") {
			t.Error("debug logging failed")
		}

		buf.Reset()
		logger.Info("info msg")
		if !strings.Contains(buf.String(), "info msg") {
			t.Error("info logging failed")
		}

		buf.Reset()
		logger.Warn("warn msg")
		if !strings.Contains(buf.String(), "warn msg") {
			t.Error("warn logging failed")
		}

		buf.Reset()
		logger.Error("error msg")
		if !strings.Contains(buf.String(), "error msg") {
			t.Error("error logging failed")
		}
	})

	t.Run("DynamicLevel", func(t *testing.T) {
		logger.SetLevel(LevelError)
		if logger.GetLevel() != LevelError {
			t.Error("SetLevel failed")
		}

		buf.Reset()
		logger.Info("should not appear")
		if buf.Len() > 0 {
			t.Error("logged info message when level was Error")
		}

		logger.SetLevel(LevelDebug)
	})

	t.Run("WithComponent", func(t *testing.T) {
		buf.Reset()
		l := logger.WithComponent("mirror")
		l.Info("msg")
		if !strings.Contains(buf.String(), "mirror") {
			t.Error("WithComponent missing component field")
		}
	})

	t.Run("WithDomain", func(t *testing.T) {
		buf.Reset()
		l := logger.WithDomain("example.com")
		l.Info("msg")
		if !strings.Contains(buf.String(), "example.com") {
			t.Error("WithDomain missing domain field")
		}
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		l := logger.WithFields(map[string]any{"foo": "bar"})
		l.Info("msg")
		if !strings.Contains(buf.String(), "foo") || !strings.Contains(buf.String(), "bar") {
			t.Error("WithFields missing fields")
		}
	})

	t.Run("JSONOutput", func(t *testing.T) {
		buf.Reset()
		logger.Info("json check", "count", 3)

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if entry["msg"] != "json check" {
			t.Errorf("unexpected msg field: %v", entry["msg"])
		}
		if entry["count"] != float64(3) {
			t.Errorf("unexpected count field: %v", entry["count"])
		}
	})
}

func TestConsoleHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  LevelDebug,
		Output: &buf,
		JSON:   false,
	})

	t.Run("Format", func(t *testing.T) {
		buf.Reset()
		logger.Info("hello", "ip", "1.2.3.4")
		line := buf.String()
		if !strings.Contains(line, "[info]") {
			t.Errorf("missing level label: %q", line)
		}
		if !strings.Contains(line, "hello") {
			t.Errorf("missing message: %q", line)
		}
		if !strings.Contains(line, "ip=1.2.3.4") {
			t.Errorf("missing attr: %q", line)
		}
	})

	t.Run("ComponentPrefix", func(t *testing.T) {
		buf.Reset()
		logger.WithComponent("firewall").Info("scanned chains")
		line := buf.String()
		if !strings.Contains(line, "firewall: scanned chains") {
			t.Errorf("component not promoted to prefix: %q", line)
		}
	})

	t.Run("ComponentWithDomain", func(t *testing.T) {
		buf.Reset()
		logger.WithComponent("mirror").WithDomain("example.com").Info("replaced list")
		line := buf.String()
		if !strings.Contains(line, "mirror(example.com): replaced list") {
			t.Errorf("domain not folded into prefix: %q", line)
		}
	})

	t.Run("QuotedValues", func(t *testing.T) {
		buf.Reset()
		logger.Info("msg", "err", "connection refused")
		line := buf.String()
		if !strings.Contains(line, `err="connection refused"`) {
			t.Errorf("value with spaces not quoted: %q", line)
		}
	})

	t.Run("LevelFilter", func(t *testing.T) {
		var out bytes.Buffer
		h := NewConsoleHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn})
		if h.Enabled(nil, slog.LevelInfo) {
			t.Error("info should be disabled at warn level")
		}
		if !h.Enabled(nil, slog.LevelError) {
			t.Error("error should be enabled at warn level")
		}
	})

	t.Run("CustomTimeFormat", func(t *testing.T) {
		var out bytes.Buffer
		h := NewConsoleHandler(&out, nil)
		h.timeFormat = "2006-01-02"
		r := slog.NewRecord(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), slog.LevelInfo, "msg", 0)
		if err := h.Handle(context.Background(), r); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(out.String(), "2026-03-14 ") {
			t.Errorf("custom time format not applied: %q", out.String())
		}
	})
}

func TestDefaultLogger(t *testing.T) {
	l1 := Default()
	l2 := Default()
	if l1 != l2 {
		t.Error("Default should return the same logger instance")
	}

	var buf bytes.Buffer
	custom := New(Config{Level: LevelDebug, Output: &buf})
	SetDefault(custom)
	defer SetDefault(l1)

	Info("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Error("package-level Info did not use the default logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"ERROR", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
