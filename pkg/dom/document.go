package dom

import "strings"

// MutationOp identifies the kind of tree mutation.
type MutationOp uint8

const (
	MutInsert     MutationOp = iota + 1 // Child linked into Target
	MutRemove                           // Child unlinked from Target
	MutSetAttr                          // Attribute Name set to Value on Target
	MutRemoveAttr                       // Attribute Name removed from Target
	MutSetText                          // Target's character data set to Value
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutInsert:
		return "Insert"
	case MutRemove:
		return "Remove"
	case MutSetAttr:
		return "SetAttr"
	case MutRemoveAttr:
		return "RemoveAttr"
	case MutSetText:
		return "SetText"
	default:
		return "Unknown"
	}
}

// Mutation describes one change to the tree.
type Mutation struct {
	Op MutationOp

	// Target is the parent for Insert/Remove and the changed node otherwise.
	Target *Node

	// Node is the inserted or removed child.
	Node *Node

	// Before is the sibling the child was inserted before (Insert), or the
	// sibling that followed it before removal (Remove). Nil means the end.
	Before *Node

	Name  string
	Value string

	// Connected reports whether Target was attached to the document tree
	// when the mutation happened.
	Connected bool
}

// Document owns node allocation and the root of a live tree.
type Document struct {
	nextID uint64

	root *Node
	html *Node
	head *Node
	body *Node

	index     map[uint64]*Node
	observers []*observer
}

type observer struct {
	fn func(Mutation)
}

// NewDocument creates a document with <html>, <head> and <body> in place.
func NewDocument() *Document {
	d := &Document{index: make(map[uint64]*Node)}
	d.root = d.newNode(DocumentNode)
	d.index[d.root.id] = d.root
	d.html = d.CreateElement("html")
	d.head = d.CreateElement("head")
	d.body = d.CreateElement("body")
	d.root.link(d.html, nil)
	d.html.link(d.head, nil)
	d.html.link(d.body, nil)
	return d
}

func (d *Document) Root() *Node { return d.root }
func (d *Document) HTML() *Node { return d.html }
func (d *Document) Head() *Node { return d.head }
func (d *Document) Body() *Node { return d.body }

func (d *Document) newNode(t NodeType) *Node {
	d.nextID++
	return &Node{id: d.nextID, typ: t, doc: d}
}

// CreateElement creates an HTML element. The tag is lower-cased.
func (d *Document) CreateElement(tag string) *Node {
	n := d.newNode(ElementNode)
	n.tag = strings.ToLower(tag)
	return n
}

// CreateElementNS creates an element in the given namespace. An empty
// namespace is equivalent to CreateElement. Namespaced tags keep their case.
func (d *Document) CreateElementNS(ns, tag string) *Node {
	if ns == "" || ns == HTMLNamespace {
		return d.CreateElement(tag)
	}
	n := d.newNode(ElementNode)
	n.tag = tag
	n.ns = ns
	return n
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(s string) *Node {
	n := d.newNode(TextNode)
	n.data = s
	return n
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(s string) *Node {
	n := d.newNode(CommentNode)
	n.data = s
	return n
}

// CreateDocumentFragment creates an empty fragment.
func (d *Document) CreateDocumentFragment() *Node {
	return d.newNode(FragmentNode)
}

// NodeByID returns an attached node by id.
func (d *Document) NodeByID(id uint64) (*Node, bool) {
	n, ok := d.index[id]
	return n, ok
}

// Observe registers fn to receive every mutation. The returned function
// unregisters it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	o := &observer{fn: fn}
	d.observers = append(d.observers, o)
	return func() {
		for i, cur := range d.observers {
			if cur == o {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify(m Mutation) {
	for _, o := range d.observers {
		o.fn(m)
	}
}

func (d *Document) indexSubtree(n *Node) {
	d.index[n.id] = n
	for c := n.firstChild; c != nil; c = c.nextSibling {
		d.indexSubtree(c)
	}
}

func (d *Document) unindexSubtree(n *Node) {
	delete(d.index, n.id)
	for c := n.firstChild; c != nil; c = c.nextSibling {
		d.unindexSubtree(c)
	}
}
