package dom

import (
	"errors"
	"strings"
)

// NodeType is the node kind discriminator.
type NodeType uint8

const (
	DocumentNode NodeType = iota // Tree root
	ElementNode                  // <div>, <svg:path>, etc.
	TextNode                     // Character data
	CommentNode                  // <!-- marker -->
	FragmentNode                 // Detached container, transparent on insert
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Well-known element namespaces.
const (
	HTMLNamespace = "http://www.w3.org/1999/xhtml"
	SVGNamespace  = "http://www.w3.org/2000/svg"
)

// Tree errors.
var (
	ErrHierarchy     = errors.New("dom: hierarchy request error")
	ErrNotFound      = errors.New("dom: node is not a child of this node")
	ErrWrongDocument = errors.New("dom: node belongs to another document")
)

// Attr is a single attribute in insertion order.
type Attr struct {
	Name  string
	Value string
}

// Node is a live node in a Document tree.
type Node struct {
	id   uint64
	typ  NodeType
	tag  string
	ns   string
	data string

	attrs     []Attr
	listeners map[string][]*Listener

	doc         *Document
	parent      *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node kind.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the element tag name, or "" for non-elements.
func (n *Node) Tag() string { return n.tag }

// Namespace returns the element namespace; "" means HTML.
func (n *Node) Namespace() string { return n.ns }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) FirstChild() *Node  { return n.firstChild }
func (n *Node) LastChild() *Node   { return n.lastChild }
func (n *Node) NextSibling() *Node { return n.nextSibling }
func (n *Node) PrevSibling() *Node { return n.prevSibling }

// Children returns a snapshot of the node's children.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// HasChildNodes reports whether the node has at least one child.
func (n *Node) HasChildNodes() bool { return n.firstChild != nil }

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether the node is attached to its document's tree.
func (n *Node) IsConnected() bool {
	p := n
	for p.parent != nil {
		p = p.parent
	}
	return p == n.doc.root
}

func (n *Node) canHaveChildren() bool {
	return n.typ == DocumentNode || n.typ == ElementNode || n.typ == FragmentNode
}

// AppendChild inserts child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child immediately before ref. A nil ref appends.
// A child that already has a parent is moved. A fragment child transfers
// all of its children in order.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == nil || !n.canHaveChildren() {
		return ErrHierarchy
	}
	if child.doc != n.doc {
		return ErrWrongDocument
	}
	if child.typ == DocumentNode || child.Contains(n) {
		return ErrHierarchy
	}
	if ref != nil && ref.parent != n {
		return ErrNotFound
	}

	if child.typ == FragmentNode {
		for c := child.firstChild; c != nil; {
			next := c.nextSibling
			if err := n.InsertBefore(c, ref); err != nil {
				return err
			}
			c = next
		}
		return nil
	}

	if ref == child {
		ref = child.nextSibling
	}
	if child.parent != nil {
		child.parent.unlink(child)
	}
	n.link(child, ref)
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrNotFound
	}
	n.unlink(child)
	return nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.unlink(n)
	}
}

// link attaches an orphan child before ref and reports the insertion.
func (n *Node) link(child, ref *Node) {
	child.parent = n
	child.nextSibling = ref
	if ref == nil {
		child.prevSibling = n.lastChild
		if n.lastChild != nil {
			n.lastChild.nextSibling = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
	} else {
		child.prevSibling = ref.prevSibling
		if ref.prevSibling != nil {
			ref.prevSibling.nextSibling = child
		} else {
			n.firstChild = child
		}
		ref.prevSibling = child
	}

	connected := n.IsConnected()
	if connected {
		n.doc.indexSubtree(child)
	}
	n.doc.notify(Mutation{Op: MutInsert, Target: n, Node: child, Before: ref, Connected: connected})
}

// unlink detaches a child and reports the removal.
func (n *Node) unlink(child *Node) {
	connected := n.IsConnected()
	next := child.nextSibling

	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parent = nil
	child.prevSibling = nil
	child.nextSibling = nil

	if connected {
		n.doc.unindexSubtree(child)
	}
	n.doc.notify(Mutation{Op: MutRemove, Target: n, Node: child, Before: next, Connected: connected})
}

// Attributes returns a copy of the element's attributes in insertion order.
func (n *Node) Attributes() []Attr {
	if len(n.attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute on an element. It is a no-op on other node types.
func (n *Node) SetAttribute(name, value string) {
	if n.typ != ElementNode {
		return
	}
	found := false
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}
	n.doc.notify(Mutation{Op: MutSetAttr, Target: n, Name: name, Value: value, Connected: n.IsConnected()})
}

// RemoveAttribute removes an attribute. Removing an absent attribute is silent.
func (n *Node) RemoveAttribute(name string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.notify(Mutation{Op: MutRemoveAttr, Target: n, Name: name, Connected: n.IsConnected()})
			return
		}
	}
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string { return n.data }

// TextContent returns the node's text: its own data for text and comment
// nodes, the concatenated descendant text otherwise.
func (n *Node) TextContent() string {
	switch n.typ {
	case TextNode, CommentNode:
		return n.data
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.firstChild; c != nil; c = c.nextSibling {
			switch c.typ {
			case TextNode:
				b.WriteString(c.data)
			case ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// SetTextContent writes the node's text. On text and comment nodes it
// replaces the data; on containers it replaces all children with one text node.
func (n *Node) SetTextContent(s string) {
	switch n.typ {
	case TextNode, CommentNode:
		n.data = s
		n.doc.notify(Mutation{Op: MutSetText, Target: n, Value: s, Connected: n.IsConnected()})
		return
	}
	for n.firstChild != nil {
		n.unlink(n.firstChild)
	}
	if s != "" {
		n.link(n.doc.CreateTextNode(s), nil)
	}
}
