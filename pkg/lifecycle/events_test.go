package lifecycle

import (
	"encoding/json"
	"testing"
)

func TestEvents_ClosedSet(t *testing.T) {
	all := Events()
	if len(all) != 11 {
		t.Fatalf("expected exactly 11 lifecycle events, got %d", len(all))
	}

	expected := []string{
		"serverStarted",
		"beforeRequestHandler",
		"afterRequestHandler",
		"beforeRoutes",
		"afterRoutes",
		"beforeComponentsLoad",
		"afterComponentsLoaded",
		"documentCreated",
		"beforeAssetAccess",
		"afterAssetAccess",
		"pageNotFound",
	}
	for i, e := range all {
		if e.String() != expected[i] {
			t.Errorf("event %d: expected name %q, got %q", i, expected[i], e.String())
		}
		if !e.Valid() {
			t.Errorf("event %q should be valid", e)
		}
	}

	if Event(len(all)).Valid() {
		t.Error("value one past the last event should be invalid")
	}
	if Event(-1).Valid() {
		t.Error("negative value should be invalid")
	}
}

func TestParseEvent(t *testing.T) {
	for _, e := range Events() {
		parsed, err := ParseEvent(e.String())
		if err != nil {
			t.Fatalf("ParseEvent(%q) failed: %v", e.String(), err)
		}
		if parsed != e {
			t.Errorf("ParseEvent(%q) = %v, expected %v", e.String(), parsed, e)
		}
	}

	if _, err := ParseEvent("serverstarted"); err == nil {
		t.Error("ParseEvent should be case-sensitive and reject 'serverstarted'")
	}
	if _, err := ParseEvent("beforeMiddleware"); err == nil {
		t.Error("ParseEvent should reject names outside the set")
	}
}

func TestEvent_TextMarshalling(t *testing.T) {
	data, err := json.Marshal(DocumentCreated)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"documentCreated"` {
		t.Errorf("expected \"documentCreated\", got %s", data)
	}

	var e Event
	if err = json.Unmarshal([]byte(`"pageNotFound"`), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e != PageNotFound {
		t.Errorf("expected PageNotFound, got %v", e)
	}

	if err = json.Unmarshal([]byte(`"notAnEvent"`), &e); err == nil {
		t.Error("Unmarshal should reject names outside the set")
	}

	if _, err = Event(99).MarshalText(); err == nil {
		t.Error("MarshalText should reject invalid events")
	}
}

func TestEvent_StringInvalid(t *testing.T) {
	got := Event(42).String()
	if got != "lifecycle.Event(42)" {
		t.Errorf("unexpected String for invalid event: %q", got)
	}
}
