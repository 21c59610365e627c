package templating

import (
	"html/template"
	"reflect"
)

// LogicSource returns the built-in boolean and presence helpers.
func LogicSource() *FuncSource {
	return NewFuncSource("logic", template.FuncMap{
		"all":    all,
		"any":    anyOf,
		"negate": negate,
		"isSet":  isSet,
	})
}

// all returns true only if all arguments are true.
func all(args ...bool) bool {
	for _, arg := range args {
		if !arg {
			return false
		}
	}
	return true
}

// anyOf returns true if any argument is true.
func anyOf(args ...bool) bool {
	for _, arg := range args {
		if arg {
			return true
		}
	}
	return false
}

// negate returns the boolean opposite of its argument.
func negate(arg bool) bool {
	return !arg
}

// isSet returns true if a value is not its zero value.
func isSet(val any) bool {
	v := reflect.ValueOf(val)
	if !v.IsValid() {
		return false
	}
	return !v.IsZero()
}
