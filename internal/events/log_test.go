package events

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger_WritesJSONL(t *testing.T) {
	dir := t.TempDir()
	bus := NewBus(16)
	defer bus.Close()

	logger := NewLogger(dir, bus)
	defer logger.Close()

	bus.Publish(NewEvent(EventCatalogReloaded, SourceCatalog, map[string]any{
		"skills": 7,
	}))

	path := filepath.Join(dir, "events.jsonl")
	deadline := time.Now().Add(2 * time.Second)
	var data []byte
	for time.Now().Before(deadline) {
		data, _ = os.ReadFile(path)
		if len(data) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(data) == 0 {
		t.Fatal("no event written")
	}

	line := strings.TrimSpace(string(data))
	var e Event
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatalf("invalid JSONL line %q: %v", line, err)
	}
	if e.Type != EventCatalogReloaded {
		t.Fatalf("Type = %s", e.Type)
	}
}
