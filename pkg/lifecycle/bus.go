package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Emission is a single published event as delivered to handlers.
type Emission struct {
	// ID uniquely identifies this emission across the process lifetime.
	ID string

	// Event is the lifecycle event that was published.
	Event Event

	// Time is when Publish was called.
	Time time.Time

	// Data carries event-specific fields. May be nil. Handlers must not
	// mutate it; the same map is shared by every subscriber.
	Data map[string]any
}

// Handler receives emissions for the events it is subscribed to.
// Handlers run synchronously on the publisher's goroutine.
type Handler func(ctx context.Context, em Emission)

// Bus fans lifecycle emissions out to subscribers. Only events from the
// defined set can be subscribed to or published.
// All methods are concurrent-safe.
type Bus struct {
	logger *slog.Logger
	mu     sync.RWMutex
	nextID int
	subs   map[Event]map[int]Handler
}

// NewBus returns an empty bus that logs through the given logger.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger: logger,
		subs:   make(map[Event]map[int]Handler),
	}
}

// Subscribe registers h for e and returns a subscription id usable with
// Unsubscribe. Events outside the defined set are rejected.
func (b *Bus) Subscribe(e Event, h Handler) (int, error) {
	if !e.Valid() {
		return 0, fmt.Errorf("cannot subscribe to invalid lifecycle event %d", int(e))
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[e] == nil {
		b.subs[e] = make(map[int]Handler)
	}
	b.subs[e][id] = h
	return id, nil
}

// SubscribeAll registers h for every defined event and returns the
// per-event subscription ids, indexed like Events().
func (b *Bus) SubscribeAll(h Handler) []int {
	ids := make([]int, 0, len(eventNames))
	for _, e := range Events() {
		id, _ := b.Subscribe(e, h)
		ids = append(ids, id)
	}
	return ids
}

// Unsubscribe removes a subscription. Unknown ids are a no-op.
func (b *Bus) Unsubscribe(e Event, id int) {
	if !e.Valid() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[e], id)
}

// SubscriberCount returns the number of handlers subscribed to e.
func (b *Bus) SubscriberCount(e Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[e])
}

// Publish delivers an emission of e to every subscriber, synchronously and
// in subscription order. Publishing an event outside the defined set is
// dropped with a warning rather than delivered.
func (b *Bus) Publish(ctx context.Context, e Event, data map[string]any) {
	if !e.Valid() {
		b.logger.Warn("Dropping publish of invalid lifecycle event", "event", int(e))
		return
	}

	em := Emission{
		ID:    uuid.NewString(),
		Event: e,
		Time:  time.Now(),
		Data:  data,
	}

	// Snapshot under the read lock so handlers can subscribe/unsubscribe
	// without deadlocking.
	b.mu.RLock()
	ids := make([]int, 0, len(b.subs[e]))
	for id := range b.subs[e] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.subs[e][id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, em)
	}
}
