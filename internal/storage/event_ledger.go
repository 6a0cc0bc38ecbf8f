package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventLedger records Eventarc event ids that have already been processed so
// redeliveries are acknowledged without repeating side effects. Backed by a
// JSON file written atomically (temp file + rename).
type EventLedger struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]time.Time
	maxAge   time.Duration
}

func NewEventLedger(dataDir, filename string, maxAge time.Duration) (*EventLedger, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	l := &EventLedger{
		filePath: filepath.Join(dataDir, filename),
		seen:     make(map[string]time.Time),
		maxAge:   maxAge,
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// Seen reports whether the event id was already processed.
func (l *EventLedger) Seen(eventID string) bool {
	if eventID == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	_, ok := l.seen[eventID]
	return ok
}

// MarkProcessed records the event id. Call only after side effects have
// completed, so a failed delivery is retried rather than acked.
func (l *EventLedger) MarkProcessed(eventID string) error {
	if eventID == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	l.seen[eventID] = time.Now().UTC()
	return l.save()
}

func (l *EventLedger) prune() {
	if l.maxAge <= 0 {
		return
	}
	cutoff := time.Now().UTC().Add(-l.maxAge)
	for id, at := range l.seen {
		if at.Before(cutoff) {
			delete(l.seen, id)
		}
	}
}

func (l *EventLedger) load() error {
	file, err := os.Open(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(&l.seen)
}

func (l *EventLedger) save() error {
	tempFile := l.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l.seen); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}
	return os.Rename(tempFile, l.filePath)
}
