// Package el builds live node trees without a virtual DOM.
//
// An Element owns a range of sibling nodes in a dom.Document: a single node,
// a span of nodes between a first and last sibling, or nothing at all. Every
// element supports the same operations regardless of its shape:
//
//	Update()  re-applies every reactive binding (attributes, text, children)
//	Dispose() releases listeners and disposes children
//
// and the range helpers Append, Prepend, InsertBefore, InsertAfter, Detach
// and Remove move or drop the whole range atomically.
//
// # Building
//
// A Builder is bound to one document:
//
//	b := el.NewBuilder(doc)
//	count := 0
//	btn, err := b.El("button", el.Attrs{
//	    "class":   "counter",
//	    "title":   param.Func(func() string { return fmt.Sprint(count) }),
//	    "onclick": el.Handler(func(*dom.Event) { count++ }),
//	}, "clicked ", param.Func(func() int { return count }), " times")
//
// Nothing re-renders automatically. After changing state, call Update on the
// element (or an ancestor) to push new values into the tree.
//
// # Lists
//
// List keeps a keyed collection of elements in sync with a slice:
//
//	todos, err := el.List(b, param.Func(func() []Todo { return state.Todos }),
//	    func(it *el.Item[Todo]) (el.Element, error) {
//	        return b.El("li", nil, param.Func(func() string { return it.Value().Title }))
//	    },
//	    func(t Todo, _ int) any { return t.ID },
//	)
//
// Each Update matches items to existing elements by key, refreshes them in
// place, builds elements for new keys, removes elements for vanished keys and
// repositions nodes only when an item was added or changed position.
package el
