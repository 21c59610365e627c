package templating

import (
	"fmt"
	"html/template"
	"strings"
)

// TextSource returns the built-in string-formatting helpers.
func TextSource() *FuncSource {
	return NewFuncSource("text", template.FuncMap{
		"upper":    upper,
		"lower":    lower,
		"title":    title,
		"trim":     trim,
		"truncate": truncate,
		"replace":  replace,
		"join":     join,
		"split":    split,
		"default":  defaultVal,
	})
}

// upper returns s uppercased.
func upper(s string) string {
	return strings.ToUpper(s)
}

// lower returns s lowercased.
func lower(s string) string {
	return strings.ToLower(s)
}

// title uppercases the first letter of every space-separated word.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// trim returns s with leading and trailing whitespace removed.
func trim(s string) string {
	return strings.TrimSpace(s)
}

// truncate returns at most n runes of s, appending an ellipsis when
// anything was cut. Returns s unchanged for non-positive n.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// replace returns s with all occurrences of old replaced by new.
func replace(s, old, new string) string {
	return strings.ReplaceAll(s, old, new)
}

// join concatenates the elements of parts with sep between them.
func join(sep string, parts []string) string {
	return strings.Join(parts, sep)
}

// split slices s around each instance of sep.
func split(sep, s string) []string {
	return strings.Split(s, sep)
}

// defaultVal returns fallback when val is nil or an empty string,
// otherwise val rendered as a string.
func defaultVal(fallback string, val any) string {
	if val == nil {
		return fallback
	}
	s := fmt.Sprint(val)
	if s == "" {
		return fallback
	}
	return s
}
