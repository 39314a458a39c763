package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info().Msg("hidden")
	logger.Warn().Str("endpoint", "http://x/ai").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	line := strings.TrimSpace(out)
	if gjson.Get(line, "message").String() != "shown" {
		t.Errorf("unexpected log line: %s", line)
	}
	if gjson.Get(line, "endpoint").String() != "http://x/ai" {
		t.Errorf("missing field in log line: %s", line)
	}
	if !gjson.Get(line, "time").Exists() {
		t.Errorf("missing timestamp in log line: %s", line)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, closeFn, err := NewFile(path, "info")
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Info().Msg("written")
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}

	_, _, err = NewFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "info")
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestEffectiveLevel(t *testing.T) {
	if got := EffectiveLevel("info", true); got != "debug" {
		t.Errorf("EffectiveLevel(info, true) = %q, want debug", got)
	}
	if got := EffectiveLevel("trace", true); got != "trace" {
		t.Errorf("EffectiveLevel(trace, true) = %q, want trace", got)
	}
	if got := EffectiveLevel("warn", false); got != "warn" {
		t.Errorf("EffectiveLevel(warn, false) = %q, want warn", got)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, "debug")
	logger.Debug().Str("outcome", "success").Msg("exchange finished")

	out := buf.String()
	if !strings.Contains(out, "exchange finished") || !strings.Contains(out, "outcome=success") {
		t.Errorf("unexpected console output: %q", out)
	}
}
