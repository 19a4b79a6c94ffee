package events

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Logger persists bus events to a JSONL file, one line per event.
type Logger struct {
	dir         string
	unsubscribe func()
}

// NewLogger creates a Logger that subscribes to all bus events and
// appends them to events.jsonl under dir.
func NewLogger(dir string, bus *Bus) *Logger {
	l := &Logger{dir: dir}
	l.unsubscribe = bus.Subscribe(l.handleEvent)
	return l
}

// Close unsubscribes the logger from the event bus.
func (l *Logger) Close() {
	if l.unsubscribe != nil {
		l.unsubscribe()
	}
}

func (l *Logger) handleEvent(e Event) {
	_ = l.writeEvent(e)
}

func (l *Logger) writeEvent(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := filepath.Join(l.dir, "events.jsonl")

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}
