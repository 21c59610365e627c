package templating

import (
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry owns a named set of template helper functions and keeps it
// mirrored onto a single held engine instance. The same helper set can be
// copied onto other engine instances with ApplyTo, so one registry can
// drive several independent template sets.
//
// The held instance is injected at construction and owned by the caller;
// the registry never parses or executes it directly. Registering helpers
// on the instance outside the registry bypasses the side-table and is not
// supported.
// All methods are concurrent-safe.
type Registry struct {
	logger  *slog.Logger
	base    *template.Template
	helpers template.FuncMap
	mu      sync.RWMutex
}

// NewRegistry returns a registry bound to the given engine instance.
// The instance must not have been executed yet: Compile clones it, and
// html/template forbids cloning after execution.
func NewRegistry(logger *slog.Logger, base *template.Template) *Registry {
	return &Registry{
		logger:  logger,
		base:    base,
		helpers: template.FuncMap{},
	}
}

// Register stores fn under name and mirrors it onto the held engine
// instance. A helper already registered under the same name is replaced.
// Both updates happen under one lock, so the side-table and the instance
// never disagree.
func (r *Registry) Register(name string, fn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[name] = fn
	r.base.Funcs(template.FuncMap{name: fn})
}

// Load registers every helper yielded by src, in sorted name order.
// A source that fails to yield returns a *LoadError wrapping the cause;
// a source that yields nothing is a contract violation and fails with a
// fixed message. Helpers registered before a failure stay registered.
func (r *Registry) Load(src HelperSource) error {
	helpers, err := src.Helpers()
	if err != nil {
		return &LoadError{Source: src.Name(), Err: err}
	}
	if len(helpers) == 0 {
		return fmt.Errorf("helper source %q provided no helpers", src.Name())
	}

	names := make([]string, 0, len(helpers))
	for name := range helpers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r.Register(name, helpers[name])
	}
	r.logger.Info("Loaded helper source", "source", src.Name(), "helpers", len(names))
	return nil
}

// ApplyTo copies every currently-registered helper onto dst and returns
// dst. The registry's own state and its held instance are unaffected, so
// a single helper set can be shared across engine instances.
func (r *Registry) ApplyTo(dst *template.Template) *template.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return dst.Funcs(r.helpers)
}

// Compile parses text as a template and immediately renders it against
// data, returning the output. Parsing happens on a clone of the held
// instance, so templates already defined on it remain invocable and no
// execution state ever reaches the instance itself. Output follows
// html/template's contextual escaping; parse and execute errors propagate
// untranslated.
func (r *Registry) Compile(text string, data any) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, err := r.base.Clone()
	if err != nil {
		return "", fmt.Errorf("failed to clone engine instance for compilation: %w", err)
	}

	t, err := set.Parse(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err = t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Helpers returns a copy of the internal helper mapping.
func (r *Registry) Helpers() template.FuncMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(template.FuncMap, len(r.helpers))
	for name, fn := range r.helpers {
		out[name] = fn
	}
	return out
}

// Lookup returns the helper registered under name, if any.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.helpers[name]
	return fn, ok
}

// Names returns the registered helper names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.helpers))
	for name := range r.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
