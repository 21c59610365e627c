package lifecycle

import "fmt"

// Event identifies a single point in the application's startup and
// request-handling timeline. The zero value is ServerStarted; use Valid
// to check values that arrive from outside the package.
type Event int

const (
	// ServerStarted fires once, after all listeners have been started.
	ServerStarted Event = iota

	// BeforeRequestHandler fires before a page request is dispatched.
	BeforeRequestHandler

	// AfterRequestHandler fires after a page request has been handled,
	// whether or not a page was found.
	AfterRequestHandler

	// BeforeRoutes fires before routes are registered on the muxes.
	BeforeRoutes

	// AfterRoutes fires once route registration is complete.
	AfterRoutes

	// BeforeComponentsLoad fires before helper sources are loaded.
	BeforeComponentsLoad

	// AfterComponentsLoaded fires once all helper sources are loaded.
	AfterComponentsLoaded

	// DocumentCreated fires after a page has been rendered successfully.
	DocumentCreated

	// BeforeAssetAccess fires before a static asset is served.
	BeforeAssetAccess

	// AfterAssetAccess fires after a static asset has been served.
	AfterAssetAccess

	// PageNotFound fires when a request matches no stored page.
	PageNotFound
)

// eventNames holds the wire/display form of each event. The array length
// pins the enum: adding an event without a name fails to compile.
var eventNames = [...]string{
	ServerStarted:         "serverStarted",
	BeforeRequestHandler:  "beforeRequestHandler",
	AfterRequestHandler:   "afterRequestHandler",
	BeforeRoutes:          "beforeRoutes",
	AfterRoutes:           "afterRoutes",
	BeforeComponentsLoad:  "beforeComponentsLoad",
	AfterComponentsLoaded: "afterComponentsLoaded",
	DocumentCreated:       "documentCreated",
	BeforeAssetAccess:     "beforeAssetAccess",
	AfterAssetAccess:      "afterAssetAccess",
	PageNotFound:          "pageNotFound",
}

// Valid reports whether e is one of the defined lifecycle events.
func (e Event) Valid() bool {
	return e >= 0 && int(e) < len(eventNames)
}

// String returns the event's canonical name, or a placeholder for
// out-of-range values.
func (e Event) String() string {
	if !e.Valid() {
		return fmt.Sprintf("lifecycle.Event(%d)", int(e))
	}
	return eventNames[e]
}

// ParseEvent returns the event whose canonical name is s.
func ParseEvent(s string) (Event, error) {
	for i, name := range eventNames {
		if name == s {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lifecycle event %q", s)
}

// Events returns all defined events in declaration order.
func Events() []Event {
	all := make([]Event, len(eventNames))
	for i := range eventNames {
		all[i] = Event(i)
	}
	return all
}

// MarshalText implements encoding.TextMarshaler so events serialize by name.
func (e Event) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid lifecycle event %d", int(e))
	}
	return []byte(eventNames[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
