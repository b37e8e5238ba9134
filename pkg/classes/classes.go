// Package classes flattens conditional class-name values into a single
// space-joined class attribute.
//
//	classes.Join("btn", classes.If("active", selected), []string{"a", "b"})
package classes

import (
	"fmt"
	"sort"
	"strings"
)

// Value is one of: string, Cond, []Cond, map[string]bool, []string,
// []Value, Values, or nil.
type Value = any

// Values is a nested list of class values.
type Values []Value

// Cond includes Name when On is true.
type Cond struct {
	Name string
	On   bool
}

// If is shorthand for Cond{name, on}.
func If(name string, on bool) Cond {
	return Cond{Name: name, On: on}
}

// Join flattens values into a space-joined class string. Empty names are
// skipped. Maps contribute their enabled names in sorted order.
func Join(values ...Value) string {
	var names []string
	for _, v := range values {
		names = appendNames(names, v)
	}
	return strings.Join(names, " ")
}

func appendNames(names []string, v Value) []string {
	switch x := v.(type) {
	case nil:
	case string:
		names = append(names, strings.Fields(x)...)
	case Cond:
		if x.On {
			names = appendNames(names, x.Name)
		}
	case []Cond:
		for _, c := range x {
			names = appendNames(names, c)
		}
	case map[string]bool:
		keys := make([]string, 0, len(x))
		for k, on := range x {
			if on {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			names = appendNames(names, k)
		}
	case []string:
		for _, s := range x {
			names = appendNames(names, s)
		}
	case Values:
		for _, item := range x {
			names = appendNames(names, item)
		}
	case []Value:
		for _, item := range x {
			names = appendNames(names, item)
		}
	case fmt.Stringer:
		names = appendNames(names, x.String())
	}
	return names
}
