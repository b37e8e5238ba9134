// Package param provides reactive values: a value that is either fixed or
// re-computed on demand by a zero-argument producer.
//
// There is no dependency graph and no invalidation. A computed Param simply
// calls its producer every time it is read, so composition with Map and
// Combine is lazy by deferring invocation.
//
//	count := 0
//	label := param.Map(param.Func(func() int { return count }), strconv.Itoa)
//	label.Value() // "0"
//	count++
//	label.Value() // "1"
package param

// Kind discriminates constant and computed params.
type Kind uint8

const (
	Constant Kind = iota
	Computed
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Constant:
		return "Constant"
	case Computed:
		return "Computed"
	default:
		return "Unknown"
	}
}

// Param is a tagged union of a constant value and a producer.
// The zero Param is the constant zero value of T.
type Param[T any] struct {
	kind  Kind
	value T
	fn    func() T
}

// Source is the type-erased view of a Param, used where heterogeneous
// values share a container (attribute maps, child lists).
type Source interface {
	IsComputed() bool
	Any() any
}

// Const wraps a fixed value.
func Const[T any](v T) Param[T] {
	return Param[T]{kind: Constant, value: v}
}

// Func wraps a producer. A nil producer yields the constant zero value.
func Func[T any](fn func() T) Param[T] {
	if fn == nil {
		return Param[T]{}
	}
	return Param[T]{kind: Computed, fn: fn}
}

// Kind returns the variant tag.
func (p Param[T]) Kind() Kind { return p.kind }

// IsConstant reports whether p holds a fixed value.
func (p Param[T]) IsConstant() bool { return p.kind == Constant }

// IsComputed reports whether p holds a producer.
func (p Param[T]) IsComputed() bool { return p.kind == Computed }

// Value returns the constant, or invokes the producer. Results are never cached.
func (p Param[T]) Value() T {
	if p.kind == Computed {
		return p.fn()
	}
	return p.value
}

// Any implements Source.
func (p Param[T]) Any() any { return p.Value() }

// Bind applies the current value of p immediately. When p is computed it
// returns an updater that re-applies the latest value; otherwise nil.
func Bind[T any](p Param[T], apply func(T)) func() {
	apply(p.Value())
	if p.kind != Computed {
		return nil
	}
	return func() { apply(p.fn()) }
}

// BindSource is Bind over a type-erased Source.
func BindSource(s Source, apply func(any)) func() {
	apply(s.Any())
	if !s.IsComputed() {
		return nil
	}
	return func() { apply(s.Any()) }
}

// Map derives a param from p. The result is constant, with f applied once,
// when p is constant.
func Map[T, R any](p Param[T], f func(T) R) Param[R] {
	if p.kind != Computed {
		return Const(f(p.value))
	}
	return Func(func() R { return f(p.fn()) })
}

// Map2 derives a param from two inputs.
func Map2[T1, T2, R any](p1 Param[T1], p2 Param[T2], f func(T1, T2) R) Param[R] {
	if p1.kind != Computed && p2.kind != Computed {
		return Const(f(p1.value, p2.value))
	}
	return Func(func() R { return f(p1.Value(), p2.Value()) })
}

// Map3 derives a param from three inputs.
func Map3[T1, T2, T3, R any](p1 Param[T1], p2 Param[T2], p3 Param[T3], f func(T1, T2, T3) R) Param[R] {
	if p1.kind != Computed && p2.kind != Computed && p3.kind != Computed {
		return Const(f(p1.value, p2.value, p3.value))
	}
	return Func(func() R { return f(p1.Value(), p2.Value(), p3.Value()) })
}

// Combine derives a param from any number of same-typed inputs.
func Combine[T, R any](ps []Param[T], f func([]T) R) Param[R] {
	computed := false
	for _, p := range ps {
		if p.kind == Computed {
			computed = true
			break
		}
	}
	eval := func() R {
		vs := make([]T, len(ps))
		for i, p := range ps {
			vs[i] = p.Value()
		}
		return f(vs)
	}
	if !computed {
		return Const(eval())
	}
	return Func(eval)
}
