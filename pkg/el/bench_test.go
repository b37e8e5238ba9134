package el

import (
	"fmt"
	"slices"
	"testing"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/param"
)

func BenchmarkElementCreation(b *testing.B) {
	bld := NewBuilder(dom.NewDocument())
	handler := func() {}

	b.Run("simple div", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			n, _ := bld.El("div", Attrs{"class": "card"})
			n.Dispose()
		}
	})

	b.Run("with event handler", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			n, _ := bld.El("button", Attrs{"onclick": handler}, "Click")
			n.Dispose()
		}
	})

	b.Run("bound text", func(b *testing.B) {
		label := param.Func(func() string { return "count" })
		for i := 0; i < b.N; i++ {
			n, _ := bld.El("span", nil, label)
			n.Dispose()
		}
	})
}

func benchRows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{ID: i, Label: fmt.Sprint("row ", i)}
	}
	return out
}

func benchList(b *testing.B, size int) (*ListElement[row], *[]row) {
	b.Helper()
	doc := dom.NewDocument()
	bld := NewBuilder(doc)
	items := benchRows(size)
	list, err := List(bld,
		param.Func(func() []row { return items }),
		func(it *Item[row]) (Element, error) {
			return bld.El("li", nil, param.Func(func() string { return it.Value().Label }))
		},
		func(r row, _ int) any { return r.ID },
	)
	if err != nil {
		b.Fatal(err)
	}
	if err := Append(doc.Body(), list); err != nil {
		b.Fatal(err)
	}
	return list, &items
}

func BenchmarkListUpdate(b *testing.B) {
	for _, size := range []int{100, 1000} {
		b.Run(fmt.Sprintf("unchanged %d", size), func(b *testing.B) {
			list, _ := benchList(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := list.Update(); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("reverse %d", size), func(b *testing.B) {
			list, items := benchList(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				next := slices.Clone(*items)
				slices.Reverse(next)
				*items = next
				if err := list.Update(); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("swap ends %d", size), func(b *testing.B) {
			list, items := benchList(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				next := slices.Clone(*items)
				next[0], next[len(next)-1] = next[len(next)-1], next[0]
				*items = next
				if err := list.Update(); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("replace all %d", size), func(b *testing.B) {
			list, items := benchList(b, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				next := benchRows(size)
				for j := range next {
					next[j].ID += (i + 1) * size
				}
				*items = next
				if err := list.Update(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
