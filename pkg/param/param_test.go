package param

import (
	"strconv"
	"testing"
)

func TestConstAndFunc(t *testing.T) {
	c := Const(3)
	if !c.IsConstant() || c.IsComputed() {
		t.Error("Const should be constant")
	}
	if c.Value() != 3 {
		t.Errorf("Value = %d, want 3", c.Value())
	}

	calls := 0
	f := Func(func() int { calls++; return calls })
	if !f.IsComputed() || f.Kind() != Computed {
		t.Error("Func should be computed")
	}
	if f.Value() != 1 || f.Value() != 2 {
		t.Error("Value should re-evaluate on every read")
	}
}

func TestZeroAndNilProducer(t *testing.T) {
	var zero Param[string]
	if !zero.IsConstant() || zero.Value() != "" {
		t.Error("zero Param should be the constant zero value")
	}
	if Func[int](nil).IsComputed() {
		t.Error("nil producer should yield a constant")
	}
}

func TestBind(t *testing.T) {
	var got []int

	update := Bind(Const(7), func(v int) { got = append(got, v) })
	if update != nil {
		t.Error("Bind on a constant should return no updater")
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("got = %v, want [7]", got)
	}

	n := 1
	got = nil
	update = Bind(Func(func() int { return n }), func(v int) { got = append(got, v) })
	if update == nil {
		t.Fatal("Bind on a producer should return an updater")
	}
	n = 2
	update()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got = %v, want [1 2]", got)
	}
}

func TestBindSource(t *testing.T) {
	var s Source = Func(func() string { return "x" })
	var got any
	update := BindSource(s, func(v any) { got = v })
	if got != "x" || update == nil {
		t.Errorf("got = %v, updater nil = %v", got, update == nil)
	}
	if BindSource(Const(1), func(any) {}) != nil {
		t.Error("constant source should return no updater")
	}
}

func TestMapConstantAppliesOnce(t *testing.T) {
	calls := 0
	m := Map(Const(4), func(v int) string { calls++; return strconv.Itoa(v) })
	if !m.IsConstant() {
		t.Error("Map of a constant should be constant")
	}
	m.Value()
	m.Value()
	if calls != 1 {
		t.Errorf("transform calls = %d, want 1", calls)
	}
}

func TestMapComputedIsLazy(t *testing.T) {
	n := 1
	calls := 0
	m := Map(Func(func() int { return n }), func(v int) int { calls++; return v * 10 })
	if calls != 0 {
		t.Error("computed Map should not evaluate eagerly")
	}
	n = 5
	if m.Value() != 50 {
		t.Errorf("Value = %d, want 50", m.Value())
	}
}

func TestMap2AndMap3(t *testing.T) {
	sum := Map2(Const(1), Const(2), func(a, b int) int { return a + b })
	if !sum.IsConstant() || sum.Value() != 3 {
		t.Errorf("Map2 constant = %v", sum.Value())
	}

	x := 1
	mixed := Map3(Const("a"), Func(func() int { return x }), Const(true), func(s string, n int, b bool) string {
		return s + strconv.Itoa(n) + strconv.FormatBool(b)
	})
	if !mixed.IsComputed() {
		t.Error("Map3 with a producer should be computed")
	}
	x = 9
	if mixed.Value() != "a9true" {
		t.Errorf("Value = %q, want a9true", mixed.Value())
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name     string
		ps       []Param[int]
		want     int
		computed bool
	}{
		{"empty", nil, 0, false},
		{"constants", []Param[int]{Const(1), Const(2), Const(3)}, 6, false},
		{"mixed", []Param[int]{Const(1), Func(func() int { return 10 })}, 11, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Combine(tt.ps, func(vs []int) int {
				s := 0
				for _, v := range vs {
					s += v
				}
				return s
			})
			if p.Value() != tt.want {
				t.Errorf("Value = %d, want %d", p.Value(), tt.want)
			}
			if p.IsComputed() != tt.computed {
				t.Errorf("IsComputed = %v, want %v", p.IsComputed(), tt.computed)
			}
		})
	}
}
