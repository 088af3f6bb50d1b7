package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("warn", &buf)

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info record emitted at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)

	logger.Info("booking created", "tenant_id", "t-1", "status", "confirmed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "booking created" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["tenant_id"] != "t-1" {
		t.Errorf("tenant_id = %v", record["tenant_id"])
	}
}

func TestComponentTag(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf).Component("notify")

	logger.Info("event emitted")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["component"] != "notify" {
		t.Errorf("component = %v, want notify", record["component"])
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("bogus", &buf)

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record emitted at default level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info record missing")
	}
}
