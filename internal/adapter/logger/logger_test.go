package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lgr := NewWithOutput("order-service", "info", &buf)

	lgr.Debug("hidden", "not written at info level", "", nil)
	lgr.Error("store_write_failed", "Failed to persist orders", "req-1", map[string]interface{}{"orders": 3}, errors.New("disk full"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON line, got %v", err)
	}

	for key, want := range map[string]string{
		"level":      "error",
		"service":    "order-service",
		"action":     "store_write_failed",
		"message":    "Failed to persist orders",
		"request_id": "req-1",
	} {
		if got, _ := entry[key].(string); got != want {
			t.Fatalf("expected %s=%q, got %q", key, want, got)
		}
	}

	errInfo, ok := entry["error"].(map[string]interface{})
	if !ok || errInfo["msg"] != "disk full" {
		t.Fatalf("expected error.msg=disk full, got %v", entry["error"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("expected timestamp field")
	}
}

func TestNewFallsBackToInfoOnUnknownLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lgr := NewWithOutput("svc", "loud", &buf)
	lgr.Debug("x", "dropped", "", nil)
	lgr.Info("y", "kept", "", nil)

	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("debug entry should be filtered at info level")
	}
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("info entry missing: %q", buf.String())
	}
}
