package el

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/livedom/pkg/classes"
	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/param"
)

// Attrs maps attribute names to values. A value may be a literal, a
// param.Param of any type, or, for "on…" keys, an event handler.
//
// Literal conversion: nil and false remove the attribute, true sets it to
// its own name, numbers are formatted in decimal and anything else goes
// through fmt. The "class" (alias "className") attribute also accepts any
// classes.Value.
type Attrs map[string]any

// Handler is an event callback.
type Handler func(*dom.Event)

// Builder creates elements inside one document.
type Builder struct {
	doc *dom.Document
}

// NewBuilder returns a Builder for doc.
func NewBuilder(doc *dom.Document) *Builder {
	return &Builder{doc: doc}
}

// Document returns the document the builder creates nodes in.
func (b *Builder) Document() *dom.Document { return b.doc }

// Empty returns an element that owns no nodes.
func (b *Builder) Empty() Element {
	return &empty{frag: b.doc.CreateDocumentFragment()}
}

// Node is the element produced by the builder: one tagged node with its
// attribute bindings, listeners and child content.
type Node struct {
	node        *dom.Node
	updaters    []func() error
	destructors []func()
}

// Range implements Element.
func (n *Node) Range() Range { return Single{Node: n.node} }

// DOM returns the underlying node.
func (n *Node) DOM() *dom.Node { return n.node }

// Update runs every binding in registration order: attributes first, then
// the child content.
func (n *Node) Update() error {
	for _, u := range n.updaters {
		if err := u(); err != nil {
			return err
		}
	}
	return nil
}

// Dispose removes bound listeners and disposes the child content.
func (n *Node) Dispose() {
	for _, d := range n.destructors {
		d()
	}
	n.destructors = nil
}

// El creates an HTML element.
func (b *Builder) El(tag string, attrs Attrs, children ...any) (*Node, error) {
	return b.Element(tag, "", attrs, children...)
}

// SVG creates an element in the SVG namespace.
func (b *Builder) SVG(tag string, attrs Attrs, children ...any) (*Node, error) {
	return b.Element(tag, dom.SVGNamespace, attrs, children...)
}

// MustEl is like El but panics on error. It is meant for static markup
// whose attributes are known to be valid.
func (b *Builder) MustEl(tag string, attrs Attrs, children ...any) *Node {
	n, err := b.El(tag, attrs, children...)
	if err != nil {
		panic(err)
	}
	return n
}

// Element creates a tagged node in namespace ns (empty for HTML), binds
// attrs and appends children as aggregated by Children.
//
// Keys are processed in sorted order so repeated builds produce identical
// trees. An invalid handler fails the build before any listener is bound.
func (b *Builder) Element(tag, ns string, attrs Attrs, children ...any) (*Node, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	handlers := make(map[string]func(*dom.Event))
	for _, k := range keys {
		if !isEventAttr(k) {
			if isFunc(attrs[k]) {
				return nil, invalidAttr(k, attrs[k])
			}
			continue
		}
		fn, ok := toHandler(attrs[k])
		if !ok {
			return nil, invalidHandler(k, attrs[k])
		}
		handlers[k] = fn
	}

	content, err := b.Children(children...)
	if err != nil {
		return nil, err
	}

	var node *dom.Node
	if ns == "" {
		node = b.doc.CreateElement(tag)
	} else {
		node = b.doc.CreateElementNS(ns, tag)
	}
	n := &Node{node: node}

	for _, k := range keys {
		fn, ok := handlers[k]
		if !ok {
			continue
		}
		l := node.AddEventListener(k[2:], fn)
		n.destructors = append(n.destructors, func() { node.RemoveEventListener(l) })
	}

	for _, k := range keys {
		if _, ok := handlers[k]; ok {
			continue
		}
		n.bindAttr(attrName(k), attrs[k])
	}

	if err := Append(node, content); err != nil {
		n.Dispose()
		content.Dispose()
		return nil, err
	}
	n.updaters = append(n.updaters, content.Update)
	n.destructors = append(n.destructors, content.Dispose)
	return n, nil
}

func (n *Node) bindAttr(name string, v any) {
	src, ok := v.(param.Source)
	if !ok {
		setAttr(n.node, name, v)
		return
	}
	if u := param.BindSource(src, func(v any) { setAttr(n.node, name, v) }); u != nil {
		n.updaters = append(n.updaters, func() error { u(); return nil })
	}
}

func isEventAttr(k string) bool {
	return len(k) > 2 && strings.EqualFold(k[:2], "on")
}

func toHandler(v any) (func(*dom.Event), bool) {
	switch fn := v.(type) {
	case Handler:
		if fn != nil {
			return fn, true
		}
	case func(*dom.Event):
		if fn != nil {
			return fn, true
		}
	case func():
		if fn != nil {
			return func(*dom.Event) { fn() }, true
		}
	}
	return nil, false
}

// isFunc reports whether v is a function. Functions are only valid as
// event handlers; param.Param values are not functions.
func isFunc(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

func attrName(k string) string {
	if k == "className" {
		return "class"
	}
	return k
}

// setAttr applies one attribute value. It writes only when the serialized
// value differs from what the node already carries.
func setAttr(node *dom.Node, name string, v any) {
	value, ok := attrValue(name, v)
	if !ok {
		if node.HasAttribute(name) {
			node.RemoveAttribute(name)
		}
		return
	}
	if cur, has := node.GetAttribute(name); has && cur == value {
		return
	}
	node.SetAttribute(name, value)
}

// attrValue serializes v for attribute name. ok is false when the
// attribute should be absent.
func attrValue(name string, v any) (value string, ok bool) {
	if isFunc(v) {
		return "", false
	}
	if name == "class" {
		switch v.(type) {
		case nil, string, bool:
		default:
			return classes.Join(v), true
		}
	}
	switch x := v.(type) {
	case nil:
		return "", false
	case bool:
		if name == "contenteditable" {
			return strconv.FormatBool(x), true
		}
		if !x {
			return "", false
		}
		return name, true
	case string:
		return x, true
	}
	if s, ok := formatNumber(v); ok {
		return s, true
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	return fmt.Sprint(v), true
}

func formatNumber(v any) (string, bool) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}
