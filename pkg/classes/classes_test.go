package classes

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   string
	}{
		{"empty", nil, ""},
		{"strings", []Value{"a", "b c", ""}, "a b c"},
		{"conditions", []Value{If("on", true), If("off", false)}, "on"},
		{"cond slice", []Value{[]Cond{{"x", true}, {"y", false}, {"z", true}}}, "x z"},
		{"map sorted", []Value{map[string]bool{"b": true, "a": true, "c": false}}, "a b"},
		{"nested", []Value{Values{"a", Values{"b", If("c", true)}, nil}, []string{"d"}}, "a b c d"},
		{"any slice", []Value{[]Value{"e", map[string]bool{"f": true}}}, "e f"},
		{"unsupported ignored", []Value{42, "ok"}, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.values...); got != tt.want {
				t.Errorf("Join = %q, want %q", got, tt.want)
			}
		})
	}
}
