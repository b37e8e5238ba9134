// Package demo is a todo list built on livedom. The CLI serves it, renders
// it and snapshots it.
package demo

import (
	"fmt"

	"github.com/vango-dev/livedom/pkg/classes"
	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/param"
	"github.com/vango-dev/livedom/pkg/server"
	"github.com/vango-dev/livedom/pkg/style"
)

// DefaultSeed are the todos every new session starts with.
var DefaultSeed = []string{"Read the docs", "Build something", "Ship it"}

// App returns a server.App giving each session its own store seeded with
// titles.
func App(titles ...string) server.App {
	return func(s *server.Session) (el.Element, error) {
		return Build(s.Builder(), s.Sheet(), NewStore(titles...), s.ListObserver())
	}
}

// Document builds the todo list into a fresh document with its styles
// flushed into the head.
func Document(store *Store) (*dom.Document, error) {
	doc := dom.NewDocument()
	b := el.NewBuilder(doc)
	frames := &style.ManualFrames{}
	root, err := Build(b, style.NewSheet(b, frames), store, nil)
	if err != nil {
		return nil, err
	}
	if err := el.Append(doc.Body(), root); err != nil {
		root.Dispose()
		return nil, err
	}
	frames.Flush()
	return doc, nil
}

// Build creates the todo list element for store. observer, if not nil,
// receives the statistics of every list pass.
func Build(b *el.Builder, sheet *style.Sheet, store *Store, observer el.ListObserver) (el.Element, error) {
	fade := sheet.Keyframes(
		style.Frame{At: "from", Props: style.Rules{"opacity": 0}},
		style.Frame{At: "to", Props: style.Rules{"opacity": 1}},
	)
	layout := sheet.Class("todo", style.Rules{
		"maxWidth":   "32rem",
		"margin":     "2rem auto",
		"fontFamily": "system-ui, sans-serif",
		" ul": style.Rules{"listStyle": "none", "padding": 0},
	})
	itemClass := sheet.Class("item", style.Rules{
		"display":    "flex",
		"alignItems": "center",
		"gap":        "0.5rem",
		".done":      style.Rules{"color": "#888", "textDecoration": "line-through"},
	})
	filterClass := sheet.Class("filter", style.Rules{
		"border":     "none",
		"background": "none",
		".selected":  style.Rules{"fontWeight": 600, "textDecoration": "underline"},
	})
	bannerClass := sheet.Class("banner", style.Rules{
		"animation": fade + " 0.3s ease-in",
		"color":     "#2a7",
	})

	title, err := b.El("h1", nil, "Todos")
	if err != nil {
		return nil, err
	}

	form, err := newTodoForm(b, store)
	if err != nil {
		return nil, err
	}

	filters := make([]any, 0, 3)
	for _, f := range []Filter{FilterAll, FilterActive, FilterDone} {
		btn, err := b.El("button", el.Attrs{
			"type": "button",
			"class": param.Func(func() string {
				return classes.Join(filterClass, classes.If("selected", store.Filter() == f))
			}),
			"onclick": func() { store.SetFilter(f) },
		}, f.String())
		if err != nil {
			return nil, err
		}
		filters = append(filters, btn)
	}
	nav, err := b.El("nav", nil, filters...)
	if err != nil {
		return nil, err
	}

	progress, err := b.El("div", el.Attrs{
		"class": "progress",
		"style": style.Inline(style.Props{
			"height":     "4px",
			"background": "#2a7",
			"width": param.Func(func() string {
				all := store.All()
				if len(all) == 0 {
					return "0%"
				}
				return fmt.Sprintf("%d%%", 100*(len(all)-store.Remaining())/len(all))
			}),
		}),
	})
	if err != nil {
		return nil, err
	}

	items, err := el.List(b, param.Func(store.Visible),
		func(it *el.Item[Todo]) (el.Element, error) { return todoItem(b, store, itemClass, it) },
		func(t Todo, _ int) any { return t.ID },
		el.WithLabel("todos"), el.WithObserver(observer))
	if err != nil {
		return nil, err
	}
	list, err := b.El("ul", nil, items)
	if err != nil {
		return nil, err
	}

	banner, err := el.When(b, param.Func(func() bool {
		return len(store.All()) > 0 && store.Remaining() == 0
	}), func() (el.Element, error) {
		return b.El("p", el.Attrs{"class": bannerClass}, "All done!")
	})
	if err != nil {
		return nil, err
	}

	footer, err := newFooter(b, store)
	if err != nil {
		return nil, err
	}

	return b.El("main", el.Attrs{"class": layout}, title, form, nav, progress, list, banner, footer)
}

func newTodoForm(b *el.Builder, store *Store) (*el.Node, error) {
	input, err := b.El("input", el.Attrs{
		"name":         "title",
		"placeholder":  "What needs doing?",
		"autocomplete": "off",
		"value":        param.Func(store.Draft),
		"oninput":      func(e *dom.Event) { store.SetDraft(e.Value()) },
	})
	if err != nil {
		return nil, err
	}
	add, err := b.El("button", el.Attrs{"type": "submit"}, "Add")
	if err != nil {
		return nil, err
	}
	return b.El("form", el.Attrs{"onsubmit": func() { store.Submit() }}, input, add)
}

func todoItem(b *el.Builder, store *Store, class string, it *el.Item[Todo]) (el.Element, error) {
	id := it.Value().ID

	check, err := b.El("input", el.Attrs{
		"type":     "checkbox",
		"checked":  param.Func(func() bool { return it.Value().Done }),
		"onchange": func() { store.Toggle(id) },
	})
	if err != nil {
		return nil, err
	}
	up, err := b.El("button", el.Attrs{
		"type":     "button",
		"title":    "Move up",
		"disabled": param.Func(func() bool { return it.Index() == 0 }),
		"onclick":  func() { store.MoveUp(id) },
	}, "↑")
	if err != nil {
		return nil, err
	}
	remove, err := b.El("button", el.Attrs{
		"type":    "button",
		"title":   "Remove",
		"onclick": func() { store.Remove(id) },
	}, "×")
	if err != nil {
		return nil, err
	}

	return b.El("li", el.Attrs{
		"data-id": id,
		"class": param.Func(func() string {
			return classes.Join(class, classes.If("done", it.Value().Done))
		}),
	}, check, param.Func(func() string { return it.Value().Title }), up, remove)
}

func newFooter(b *el.Builder, store *Store) (*el.Node, error) {
	left := param.Func(func() string {
		if n := store.Remaining(); n != 1 {
			return fmt.Sprintf("%d items left", n)
		}
		return "1 item left"
	})
	clearDone, err := b.El("button", el.Attrs{
		"type":     "button",
		"disabled": param.Func(func() bool { return len(store.All()) == store.Remaining() }),
		"onclick":  func() { store.ClearDone() },
	}, "Clear done")
	if err != nil {
		return nil, err
	}
	return b.El("footer", nil, b.Text(left), " ", clearDone)
}
