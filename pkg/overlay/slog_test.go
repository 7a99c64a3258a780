package overlay

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	adapter.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("Debug below level logged: %s", buf.String())
	}

	adapter.Warn("window bounds query failed", "op", "Bounds")
	out := buf.String()
	if !strings.Contains(out, "window bounds query failed") || !strings.Contains(out, "op=Bounds") {
		t.Errorf("Warn output = %q", out)
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	JSONLogger(&buf, slog.LevelDebug).Info("scene reloaded", "widgets", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "scene reloaded" || rec["widgets"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}
