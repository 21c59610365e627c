package main

import (
	"context"
	"sync"
	"time"

	"github.com/calathea/tendril/pkg/lifecycle"
)

// EventLogEntry is one recorded lifecycle emission.
type EventLogEntry struct {
	ID    string          `json:"id"`
	Event lifecycle.Event `json:"event"`
	Time  time.Time       `json:"time"`
	Data  map[string]any  `json:"data,omitempty"`
}

// EventLog keeps the most recent lifecycle emissions in a bounded ring
// buffer for inspection over the API.
// All methods are concurrent-safe.
type EventLog struct {
	mu      sync.RWMutex
	entries []EventLogEntry
	next    int
	full    bool
}

// NewEventLog creates a log holding at most size entries and subscribes
// it to every event on the bus.
func NewEventLog(size int, bus *lifecycle.Bus) *EventLog {
	if size <= 0 {
		size = 256
	}
	el := &EventLog{entries: make([]EventLogEntry, size)}
	bus.SubscribeAll(func(ctx context.Context, em lifecycle.Emission) {
		el.record(em)
	})
	return el
}

func (el *EventLog) record(em lifecycle.Emission) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.entries[el.next] = EventLogEntry{
		ID:    em.ID,
		Event: em.Event,
		Time:  em.Time,
		Data:  em.Data,
	}
	el.next++
	if el.next == len(el.entries) {
		el.next = 0
		el.full = true
	}
}

// Recent returns the recorded emissions, oldest first.
func (el *EventLog) Recent() []EventLogEntry {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if !el.full {
		out := make([]EventLogEntry, el.next)
		copy(out, el.entries[:el.next])
		return out
	}
	out := make([]EventLogEntry, 0, len(el.entries))
	out = append(out, el.entries[el.next:]...)
	out = append(out, el.entries[:el.next]...)
	return out
}
