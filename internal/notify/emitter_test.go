package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agendly/booking-platform/pkg/logging"
)

func TestLogEmitter(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewLogEmitter(logging.NewWithWriter("info", &buf))

	evt := Event{
		AppointmentID: uuid.New(),
		TenantID:      "tenant-1",
		Status:        "confirmed",
		OccurredAt:    time.Now(),
	}
	emitter.BookingCreated(context.Background(), evt)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "booking created" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["tenant_id"] != "tenant-1" {
		t.Errorf("tenant_id = %v", record["tenant_id"])
	}
	if record["component"] != "notify" {
		t.Errorf("component = %v", record["component"])
	}

	buf.Reset()
	emitter.StatusChanged(context.Background(), evt)
	if !bytes.Contains(buf.Bytes(), []byte("status changed")) {
		t.Error("status change record missing")
	}
}
