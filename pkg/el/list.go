package el

import (
	"reflect"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/param"
)

// Item is the per-item handle passed to a list factory. Its value and index
// are refreshed in place on every pass, so bindings created by the factory
// should read them through the handle.
type Item[T any] struct {
	value T
	index int
	list  *ListElement[T]
}

// Value returns the item's current value.
func (it *Item[T]) Value() T { return it.value }

// Index returns the item's current position.
func (it *Item[T]) Index() int { return it.index }

// All returns the whole slice of the latest pass.
func (it *Item[T]) All() []T { return it.list.items }

// Factory builds the element for a newly seen key.
type Factory[T any] func(item *Item[T]) (Element, error)

// KeyFunc derives the identity of an item. Keys must be comparable.
type KeyFunc[T any] func(v T, index int) any

// PassStats describes one reconciliation pass.
type PassStats struct {
	Label   string
	Items   int
	Created int
	Updated int
	Evicted int
	Moved   int
	Dirty   bool
	Err     error
}

// ListObserver is notified after every pass, including aborted ones.
type ListObserver interface {
	ObservePass(PassStats)
}

// ListObserverFunc adapts a function to ListObserver.
type ListObserverFunc func(PassStats)

// ObservePass implements ListObserver.
func (f ListObserverFunc) ObservePass(s PassStats) { f(s) }

// ListOption configures a list.
type ListOption func(*listOptions)

type listOptions struct {
	label    string
	observer ListObserver
}

// WithObserver reports pass statistics to o.
func WithObserver(o ListObserver) ListOption {
	return func(opts *listOptions) { opts.observer = o }
}

// WithLabel sets the text of the sentinel comments and the label reported
// in PassStats. The default is "list".
func WithLabel(label string) ListOption {
	return func(opts *listOptions) { opts.label = label }
}

type entry[T any] struct {
	el   Element
	item *Item[T]
}

// ListElement renders one element per item of a slice between two comment
// sentinels, reusing elements across passes by key.
type ListElement[T any] struct {
	data    param.Param[[]T]
	factory Factory[T]
	key     KeyFunc[T]
	opts    listOptions

	begin *dom.Node
	end   *dom.Node

	entries map[any]*entry[T]
	order   []any
	items   []T
}

// List creates a keyed list and runs the first pass. A nil key function
// keys items by position.
//
// Sentinel comments bracket the list so it can be positioned before it has
// any items. An empty list therefore still owns two nodes.
func List[T any](b *Builder, data param.Param[[]T], factory Factory[T], key KeyFunc[T], opts ...ListOption) (*ListElement[T], error) {
	l := &ListElement[T]{
		data:    data,
		factory: factory,
		key:     key,
		opts:    listOptions{label: "list"},
		entries: make(map[any]*entry[T]),
	}
	for _, opt := range opts {
		opt(&l.opts)
	}

	frag := b.doc.CreateDocumentFragment()
	l.begin = b.doc.CreateComment(l.opts.label)
	l.end = b.doc.CreateComment("/" + l.opts.label)
	if err := frag.AppendChild(l.begin); err != nil {
		return nil, treeError(err)
	}
	if err := frag.AppendChild(l.end); err != nil {
		return nil, treeError(err)
	}

	if err := l.Update(); err != nil {
		return nil, err
	}
	return l, nil
}

// Range implements Element.
func (l *ListElement[T]) Range() Range { return Span{First: l.begin, Last: l.end} }

// Len returns the number of items rendered.
func (l *ListElement[T]) Len() int { return len(l.order) }

// Keys returns the keys in rendered order.
func (l *ListElement[T]) Keys() []any {
	out := make([]any, len(l.order))
	copy(out, l.order)
	return out
}

// ElementFor returns the element rendered for key.
func (l *ListElement[T]) ElementFor(key any) (Element, bool) {
	if !isComparable(key) {
		return nil, false
	}
	e, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	return e.el, true
}

// Items returns the slice of the latest successful pass.
func (l *ListElement[T]) Items() []T { return l.items }

// Update reconciles the rendered elements with the current slice.
//
// Keys are resolved and checked for duplicates before anything is touched,
// so a rejected pass leaves the list exactly as it was. Elements for
// surviving keys are updated in place, new keys go through the factory and
// vanished keys are disposed and detached. Nodes are repositioned only
// when some item is new or changed index; ranges already following the
// placement cursor are left alone.
//
// A factory or item update error aborts the pass. Elements built during it
// are removed, and item handles touched during it get their previous index
// and value back. Nodes already refreshed keep their content until the
// next successful pass, and nothing is repositioned.
func (l *ListElement[T]) Update() error {
	items := l.data.Value()
	stats := PassStats{Label: l.opts.label, Items: len(items)}

	keys, seen, err := l.resolveKeys(items)
	if err != nil {
		stats.Err = err
		l.observe(stats)
		return err
	}

	type snapshot struct {
		index int
		value T
	}
	touched := make(map[any]snapshot)
	var created []any
	rollback := func() {
		for k, s := range touched {
			e := l.entries[k]
			e.item.index, e.item.value = s.index, s.value
		}
		for _, k := range created {
			Remove(l.entries[k].el)
			delete(l.entries, k)
		}
	}

	prevItems := l.items
	l.items = items
	for i, v := range items {
		k := keys[i]
		if e, ok := l.entries[k]; ok {
			touched[k] = snapshot{index: e.item.index, value: e.item.value}
			if e.item.index != i {
				stats.Dirty = true
			}
			e.item.index, e.item.value = i, v
			if err := e.el.Update(); err != nil {
				rollback()
				l.items = prevItems
				stats.Err = err
				l.observe(stats)
				return err
			}
			stats.Updated++
			continue
		}

		it := &Item[T]{value: v, index: i, list: l}
		el, err := l.factory(it)
		if err != nil {
			rollback()
			l.items = prevItems
			err = factoryError(i, err)
			stats.Err = err
			l.observe(stats)
			return err
		}
		l.entries[k] = &entry[T]{el: el, item: it}
		created = append(created, k)
		stats.Created++
		stats.Dirty = true
	}

	for _, k := range l.order {
		if _, ok := seen[k]; ok {
			continue
		}
		Remove(l.entries[k].el)
		delete(l.entries, k)
		stats.Evicted++
	}
	l.order = keys

	if stats.Dirty {
		cursor := l.begin
		for _, k := range keys {
			nodes := Nodes(l.entries[k].el)
			if len(nodes) == 0 {
				continue
			}
			moved, err := insertNodesAfter(cursor, nodes)
			if err != nil {
				stats.Err = err
				l.observe(stats)
				return err
			}
			if moved {
				stats.Moved++
			}
			cursor = nodes[len(nodes)-1]
		}
	}

	l.observe(stats)
	return nil
}

// Dispose disposes every item element. The sentinels stay in place.
func (l *ListElement[T]) Dispose() {
	for _, k := range l.order {
		l.entries[k].el.Dispose()
	}
}

func (l *ListElement[T]) resolveKeys(items []T) ([]any, map[any]int, error) {
	keys := make([]any, len(items))
	seen := make(map[any]int, len(items))
	for i, v := range items {
		var k any = i
		if l.key != nil {
			k = l.key(v, i)
		}
		if !isComparable(k) {
			return nil, nil, invalidKey(k, i)
		}
		if first, dup := seen[k]; dup {
			return nil, nil, duplicateKey(k, first, i)
		}
		seen[k] = i
		keys[i] = k
	}
	return keys, seen, nil
}

func (l *ListElement[T]) observe(s PassStats) {
	if l.opts.observer != nil {
		l.opts.observer.ObservePass(s)
	}
}

// isComparable reports whether k can be used as a map key. The dynamic
// value is checked, so interfaces holding slices or maps are rejected too.
func isComparable(k any) bool {
	return k == nil || reflect.ValueOf(k).Comparable()
}
