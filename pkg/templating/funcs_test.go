package templating

import (
	"testing"
)

// TestHelperFunctions validates the behavior of each built-in helper source.
func TestHelperFunctions(t *testing.T) {

	t.Run("TextFuncs", func(t *testing.T) {
		if upper("abc") != "ABC" {
			t.Error("upper failed")
		}
		if lower("ABC") != "abc" {
			t.Error("lower failed")
		}
		if title("hello wide world") != "Hello Wide World" {
			t.Error("title failed")
		}
		if trim("  x  ") != "x" {
			t.Error("trim failed")
		}
		if truncate("hello", 3) != "hel…" {
			t.Error("truncate failed to cut and mark")
		}
		if truncate("hi", 10) != "hi" {
			t.Error("truncate should leave short strings alone")
		}
		if truncate("hi", 0) != "hi" {
			t.Error("truncate should ignore non-positive limits")
		}
		if replace("a-b-c", "-", "+") != "a+b+c" {
			t.Error("replace failed")
		}
		if join(", ", []string{"a", "b"}) != "a, b" {
			t.Error("join failed")
		}
		if parts := split(",", "a,b,c"); len(parts) != 3 || parts[1] != "b" {
			t.Error("split failed")
		}
		if defaultVal("fallback", "") != "fallback" {
			t.Error("default should apply for empty strings")
		}
		if defaultVal("fallback", nil) != "fallback" {
			t.Error("default should apply for nil")
		}
		if defaultVal("fallback", 42) != "42" {
			t.Error("default should stringify present values")
		}
	})

	t.Run("MathFuncs", func(t *testing.T) {
		if add(2, 3) != 5 {
			t.Error("add failed")
		}
		if sub(5, 3) != 2 {
			t.Error("sub failed")
		}
		if div(10, 0) != 0 {
			t.Error("div should return 0 on division by zero")
		}
		if mult(4, 3) != 12 {
			t.Error("mult failed")
		}
		if mod(10, 3) != 1 {
			t.Error("mod failed")
		}
		if maxInt(2, 3) != 3 || minInt(2, 3) != 2 {
			t.Error("max/min failed")
		}
		if inc(1) != 2 || dec(1) != 0 {
			t.Error("inc/dec failed")
		}
	})

	t.Run("LogicFuncs", func(t *testing.T) {
		if !all(true, true) || all(true, false) {
			t.Error("all failed")
		}
		if !anyOf(false, true) || anyOf(false, false) {
			t.Error("any failed")
		}
		if negate(true) {
			t.Error("negate failed")
		}
		if isSet("") || isSet(0) || isSet(nil) {
			t.Error("isSet should be false for zero values")
		}
		if !isSet("x") || !isSet(1) {
			t.Error("isSet should be true for non-zero values")
		}
	})
}

// TestBuiltinSourcesLoad ensures every built-in source registers cleanly
// and its helpers are invocable from a template.
func TestBuiltinSourcesLoad(t *testing.T) {
	r := setupTestRegistry(t)
	c := DefaultCatalog()

	for _, name := range c.Names() {
		src, ok := c.Get(name)
		if !ok {
			t.Fatalf("catalog lost source %q", name)
		}
		if err := r.Load(src); err != nil {
			t.Fatalf("failed to load built-in source %q: %v", name, err)
		}
	}

	out, err := r.Compile(`{{upper (default "n/a" .missing)}} {{add 1 2}} {{if isSet .name}}set{{end}}`,
		map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if out != "N/A 3 set" {
		t.Errorf("unexpected output: %q", out)
	}
}
