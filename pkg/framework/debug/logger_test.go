package debug

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	t.Run("BasicLogging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "TEST")

		logger.Info("Hello %s", "World")

		output := buf.String()
		if !strings.Contains(output, "level=INFO") {
			t.Error("Missing log level")
		}
		if !strings.Contains(output, "component=TEST") {
			t.Error("Missing prefix")
		}
		if !strings.Contains(output, "Hello World") {
			t.Error("Missing message")
		}
	})

	t.Run("LogLevels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "")
		logger.SetLevel(LogLevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("Debug message should not be logged")
		}
		if strings.Contains(output, "info message") {
			t.Error("Info message should not be logged")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("Warn message should be logged")
		}
		if !strings.Contains(output, "error message") {
			t.Error("Error message should be logged")
		}
	})

	t.Run("Off", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "")
		logger.SetLevel(LogLevelOff)

		logger.Error("should not appear")

		if buf.Len() > 0 {
			t.Error("LogLevelOff should suppress errors")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "")
		logger.SetEnabled(false)

		logger.Info("should not appear")

		if buf.Len() > 0 {
			t.Error("Disabled logger should not write")
		}
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "host")
		logger.SetFormat(FormatJSON)

		logger.With("block", 3).Warn("late by %d samples", 12)

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
		}
		if record["msg"] != "late by 12 samples" {
			t.Errorf("unexpected msg %v", record["msg"])
		}
		if record["component"] != "host" {
			t.Errorf("unexpected component %v", record["component"])
		}
		if record["block"] != float64(3) {
			t.Errorf("unexpected block %v", record["block"])
		}
	})

	t.Run("DefaultLogger", func(t *testing.T) {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetLevel(LogLevelDebug)
		defer func() {
			SetOutput(os.Stderr)
			SetLevel(LogLevelInfo)
		}()

		Debug("should appear")
		SetLevel(LogLevelWarn)
		Info("should not appear")

		output := buf.String()
		if !strings.Contains(output, "should appear") {
			t.Error("Debug message missing")
		}
		if strings.Contains(output, "should not appear") {
			t.Error("Info message below warn level should not appear")
		}
	})
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
		}
		if tt.level == LogLevel(99) {
			continue
		}
		parsed, err := ParseLevel(strings.ToLower(tt.expected))
		if err != nil || parsed != tt.level {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.expected, parsed, err)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, " JSON ": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func BenchmarkLogger(b *testing.B) {
	logger := New(bytes.NewBuffer(nil), "BENCH")

	b.Run("Enabled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("Benchmark message %d", i)
		}
	})

	b.Run("Disabled", func(b *testing.B) {
		logger.SetEnabled(false)
		for i := 0; i < b.N; i++ {
			logger.Info("Benchmark message %d", i)
		}
	})

	b.Run("BelowLevel", func(b *testing.B) {
		logger.SetEnabled(true)
		logger.SetLevel(LogLevelError)
		for i := 0; i < b.N; i++ {
			logger.Info("Benchmark message %d", i)
		}
	})
}
