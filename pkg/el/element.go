package el

import (
	"github.com/vango-dev/livedom/pkg/dom"
)

// Range is the set of contiguous sibling nodes an Element owns.
// It is either Single or Span; every consumer handles both.
type Range interface {
	isRange()
}

// Single is a range of exactly one node. A fragment node stands for its
// (possibly empty) children.
type Single struct {
	Node *dom.Node
}

// Span is a range from First to Last inclusive. Both are siblings under the
// same parent and First does not follow Last.
type Span struct {
	First *dom.Node
	Last  *dom.Node
}

func (Single) isRange() {}
func (Span) isRange()   {}

// Element is the fundamental unit of a livedom tree.
type Element interface {
	// Range returns the nodes this element owns.
	Range() Range

	// Update re-applies every reactive binding of the element.
	Update() error

	// Dispose releases resources bound to the element. It must be called at
	// most once, normally right before the element's nodes are detached.
	Dispose()
}

// FirstNode returns the first node of the element's range.
func FirstNode(e Element) *dom.Node {
	switch r := e.Range().(type) {
	case Single:
		return r.Node
	case Span:
		return r.First
	}
	return nil
}

// LastNode returns the last node of the element's range.
func LastNode(e Element) *dom.Node {
	switch r := e.Range().(type) {
	case Single:
		return r.Node
	case Span:
		return r.Last
	}
	return nil
}

// Nodes returns the nodes of the element's range in sibling order.
func Nodes(e Element) []*dom.Node {
	return rangeNodes(e.Range())
}

func rangeNodes(r Range) []*dom.Node {
	switch r := r.(type) {
	case Single:
		if r.Node == nil {
			return nil
		}
		if r.Node.Type() == dom.FragmentNode {
			return r.Node.Children()
		}
		return []*dom.Node{r.Node}
	case Span:
		var out []*dom.Node
		for n := r.First; n != nil; n = n.NextSibling() {
			out = append(out, n)
			if n == r.Last {
				break
			}
		}
		return out
	}
	return nil
}

// Append moves the element's nodes to the end of parent.
func Append(parent *dom.Node, e Element) error {
	for _, n := range Nodes(e) {
		if err := parent.AppendChild(n); err != nil {
			return treeError(err)
		}
	}
	return nil
}

// Prepend moves the element's nodes to the start of parent.
func Prepend(parent *dom.Node, e Element) error {
	nodes := Nodes(e)
	if len(nodes) == 0 {
		return nil
	}
	anchor := parent.FirstChild()
	if anchor == nodes[0] {
		return nil
	}
	for _, n := range nodes {
		if err := parent.InsertBefore(n, anchor); err != nil {
			return treeError(err)
		}
	}
	return nil
}

// InsertBefore moves the element's nodes immediately before ref.
func InsertBefore(ref *dom.Node, e Element) error {
	parent := ref.Parent()
	if parent == nil {
		return treeError(dom.ErrHierarchy)
	}
	for _, n := range Nodes(e) {
		if err := parent.InsertBefore(n, ref); err != nil {
			return treeError(err)
		}
	}
	return nil
}

// InsertAfter moves the element's nodes immediately after ref.
func InsertAfter(ref *dom.Node, e Element) error {
	_, err := insertNodesAfter(ref, Nodes(e))
	return err
}

// insertNodesAfter places nodes in order after ref, leaving nodes that are
// already in position untouched. It reports whether any node moved.
func insertNodesAfter(ref *dom.Node, nodes []*dom.Node) (bool, error) {
	parent := ref.Parent()
	if parent == nil {
		return false, treeError(dom.ErrHierarchy)
	}
	moved := false
	cursor := ref
	for _, n := range nodes {
		if next := cursor.NextSibling(); next != n {
			if err := parent.InsertBefore(n, next); err != nil {
				return moved, treeError(err)
			}
			moved = true
		}
		cursor = n
	}
	return moved, nil
}

// Detach removes the element's nodes from their parent without disposing.
func Detach(e Element) {
	for _, n := range Nodes(e) {
		n.Remove()
	}
}

// Remove disposes the element and detaches its nodes.
func Remove(e Element) {
	e.Dispose()
	Detach(e)
}

// empty is the element with no nodes.
type empty struct {
	frag *dom.Node
}

func (e *empty) Range() Range  { return Single{Node: e.frag} }
func (e *empty) Update() error { return nil }
func (e *empty) Dispose()      {}
