package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestBus() *Bus {
	return NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBus_PublishDelivers(t *testing.T) {
	bus := newTestBus()

	var got []Emission
	_, err := bus.Subscribe(ServerStarted, func(ctx context.Context, em Emission) {
		got = append(got, em)
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	bus.Publish(context.Background(), ServerStarted, map[string]any{"addr": ":7280"})
	bus.Publish(context.Background(), PageNotFound, nil) // different event, not delivered

	if len(got) != 1 {
		t.Fatalf("expected 1 emission, got %d", len(got))
	}
	em := got[0]
	if em.Event != ServerStarted {
		t.Errorf("expected ServerStarted, got %v", em.Event)
	}
	if em.ID == "" {
		t.Error("emission should carry a non-empty ID")
	}
	if em.Time.IsZero() {
		t.Error("emission should carry a timestamp")
	}
	if em.Data["addr"] != ":7280" {
		t.Errorf("emission data not carried through: %v", em.Data)
	}
}

func TestBus_DeliveryOrder(t *testing.T) {
	bus := newTestBus()

	var order []int
	for i := 1; i <= 5; i++ {
		n := i
		if _, err := bus.Subscribe(BeforeRoutes, func(ctx context.Context, em Emission) {
			order = append(order, n)
		}); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	bus.Publish(context.Background(), BeforeRoutes, nil)

	if len(order) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(order))
	}
	for i, n := range order {
		if n != i+1 {
			t.Fatalf("handlers ran out of subscription order: %v", order)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := newTestBus()

	calls := 0
	id, err := bus.Subscribe(AfterRequestHandler, func(ctx context.Context, em Emission) {
		calls++
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	bus.Publish(context.Background(), AfterRequestHandler, nil)
	bus.Unsubscribe(AfterRequestHandler, id)
	bus.Publish(context.Background(), AfterRequestHandler, nil)

	if calls != 1 {
		t.Errorf("expected exactly 1 call after unsubscribe, got %d", calls)
	}
	if bus.SubscriberCount(AfterRequestHandler) != 0 {
		t.Error("subscriber count should be 0 after unsubscribe")
	}
}

func TestBus_RejectsInvalidEvents(t *testing.T) {
	bus := newTestBus()

	if _, err := bus.Subscribe(Event(99), func(ctx context.Context, em Emission) {}); err == nil {
		t.Error("Subscribe should reject events outside the set")
	}

	delivered := false
	for _, e := range Events() {
		if _, err := bus.Subscribe(e, func(ctx context.Context, em Emission) {
			delivered = true
		}); err != nil {
			t.Fatalf("Subscribe(%v) failed: %v", e, err)
		}
	}

	// Invalid publishes must be dropped, not delivered to anyone.
	bus.Publish(context.Background(), Event(99), nil)
	bus.Publish(context.Background(), Event(-1), nil)
	if delivered {
		t.Error("invalid event was delivered to a subscriber")
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := newTestBus()

	seen := make(map[Event]int)
	ids := bus.SubscribeAll(func(ctx context.Context, em Emission) {
		seen[em.Event]++
	})
	if len(ids) != len(Events()) {
		t.Fatalf("SubscribeAll returned %d ids, expected %d", len(ids), len(Events()))
	}

	for _, e := range Events() {
		bus.Publish(context.Background(), e, nil)
	}

	for _, e := range Events() {
		if seen[e] != 1 {
			t.Errorf("event %q delivered %d times, expected 1", e, seen[e])
		}
	}
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := newTestBus()

	var count atomic.Int64
	if _, err := bus.Subscribe(DocumentCreated, func(ctx context.Context, em Emission) {
		count.Add(1)
	}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	const publishers, perPublisher = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				bus.Publish(context.Background(), DocumentCreated, nil)
			}
		}()
	}
	wg.Wait()

	if count.Load() != publishers*perPublisher {
		t.Errorf("expected %d deliveries, got %d", publishers*perPublisher, count.Load())
	}
}
