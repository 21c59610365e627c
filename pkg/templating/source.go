package templating

import (
	"fmt"
	"html/template"
	"sort"
	"sync"
)

// HelperSource yields a named set of helpers for registration. Sources are
// how helper sets are plugged in: the application resolves configured
// source names through a Catalog at startup instead of loading code from
// arbitrary paths.
type HelperSource interface {
	// Name identifies the source, e.g. in a Catalog or an error.
	Name() string

	// Helpers returns the mapping to register. A nil or empty map is a
	// contract violation and fails the load.
	Helpers() (template.FuncMap, error)
}

// LoadError reports a helper source that failed to yield its helpers.
// The underlying failure is reachable via errors.Unwrap.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load helpers from source %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FuncSource is a HelperSource backed by a static map.
type FuncSource struct {
	name    string
	helpers template.FuncMap
}

// NewFuncSource wraps a helper map as a source.
func NewFuncSource(name string, helpers template.FuncMap) *FuncSource {
	return &FuncSource{name: name, helpers: helpers}
}

// Name implements HelperSource.
func (s *FuncSource) Name() string { return s.name }

// Helpers implements HelperSource.
func (s *FuncSource) Helpers() (template.FuncMap, error) { return s.helpers, nil }

// Catalog is a lookup table of helper sources keyed by name. It backs
// configuration-driven loading: the config names sources, the catalog
// resolves them.
// All methods are concurrent-safe.
type Catalog struct {
	mu      sync.RWMutex
	sources map[string]HelperSource
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{sources: make(map[string]HelperSource)}
}

// DefaultCatalog returns a catalog holding the built-in helper sources.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	c.Add(TextSource())
	c.Add(MathSource())
	c.Add(LogicSource())
	return c
}

// Add registers src under its own name, replacing any previous source
// with that name.
func (c *Catalog) Add(src HelperSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[src.Name()] = src
}

// Get returns the source registered under name.
func (c *Catalog) Get(name string) (HelperSource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.sources[name]
	return src, ok
}

// Names returns the registered source names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
