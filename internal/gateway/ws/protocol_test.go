package ws

import (
	"encoding/json"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	f := Frame{
		Type:   FrameTypeRequest,
		ID:     "42",
		Method: "history",
		Params: json.RawMessage(`{"limit":10}`),
	}

	data, err := MarshalFrame(f)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}

	got, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}
	if got.Type != FrameTypeRequest || got.ID != "42" || got.Method != "history" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestNewEventFrame(t *testing.T) {
	f, err := NewEventFrame("catalog.reloaded", map[string]any{"skills": 3})
	if err != nil {
		t.Fatalf("NewEventFrame: %v", err)
	}
	if f.Type != FrameTypeEvent {
		t.Fatalf("Type = %s", f.Type)
	}
	if f.Event != "catalog.reloaded" {
		t.Fatalf("Event = %s", f.Event)
	}

	var payload map[string]any
	if err := json.Unmarshal(f.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["skills"] != float64(3) {
		t.Fatalf("payload = %v", payload)
	}
}

func TestNewResponseFrame(t *testing.T) {
	ok, err := NewResponseFrame("1", true, map[string]string{"status": "ok"}, "")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if ok.OK == nil || !*ok.OK {
		t.Fatal("OK flag not set")
	}

	fail, err := NewResponseFrame("2", false, nil, "boom")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if fail.OK == nil || *fail.OK {
		t.Fatal("OK flag should be false")
	}
	if fail.Error != "boom" {
		t.Fatalf("Error = %q", fail.Error)
	}
	if len(fail.Payload) != 0 {
		t.Fatal("nil payload must stay empty")
	}
}

func TestUnmarshalFrame_Invalid(t *testing.T) {
	if _, err := UnmarshalFrame([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
