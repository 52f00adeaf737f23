package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud", Format: "json", Output: "stdout"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestWriterLoggerEmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.DebugLevel).With(String("endpoint", "/prophet"))
	l.Info("forecast done", Int("rows", 24), Float64("cutoff", 45600), Error(errors.New("boom")))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["endpoint"] != "/prophet" || entry["rows"] != float64(24) || entry["error"] != "boom" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["message"] != "forecast done" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
}

func TestLevelIsPerLogger(t *testing.T) {
	var quiet, loud bytes.Buffer
	NewWriter(&quiet, zerolog.ErrorLevel).Info("dropped")
	NewWriter(&loud, zerolog.DebugLevel).Debug("kept")
	if quiet.Len() != 0 {
		t.Fatalf("info must be filtered at error level")
	}
	if loud.Len() == 0 {
		t.Fatalf("debug must pass at debug level")
	}
}
