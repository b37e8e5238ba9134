package el

import (
	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/param"
)

// Conditional swaps between two branches when its condition flips. The
// mounted branch lives between two comment sentinels.
type Conditional struct {
	cond      param.Param[bool]
	then      func() (Element, error)
	otherwise func() (Element, error)

	begin   *dom.Node
	end     *dom.Node
	current Element
	state   int
}

const (
	branchNone = iota
	branchThen
	branchElse
)

// When renders then while cond holds and nothing otherwise.
func When(b *Builder, cond param.Param[bool], then func() (Element, error)) (*Conditional, error) {
	return Optional(b, cond, then, nil)
}

// Optional renders then while cond holds and otherwise when it does not.
// A nil branch renders nothing. Branches are built lazily on every flip and
// the outgoing branch is disposed.
func Optional(b *Builder, cond param.Param[bool], then, otherwise func() (Element, error)) (*Conditional, error) {
	c := &Conditional{cond: cond, then: then, otherwise: otherwise}
	frag := b.doc.CreateDocumentFragment()
	c.begin = b.doc.CreateComment("when")
	c.end = b.doc.CreateComment("/when")
	if err := frag.AppendChild(c.begin); err != nil {
		return nil, treeError(err)
	}
	if err := frag.AppendChild(c.end); err != nil {
		return nil, treeError(err)
	}
	if err := c.Update(); err != nil {
		return nil, err
	}
	return c, nil
}

// Range implements Element.
func (c *Conditional) Range() Range { return Span{First: c.begin, Last: c.end} }

// Current returns the mounted branch, or nil.
func (c *Conditional) Current() Element { return c.current }

// Update mounts the branch matching the condition, or updates the mounted
// branch when the condition is unchanged.
func (c *Conditional) Update() error {
	want, build := branchElse, c.otherwise
	if c.cond.Value() {
		want, build = branchThen, c.then
	}
	if want == c.state {
		if c.current != nil {
			return c.current.Update()
		}
		return nil
	}

	if c.current != nil {
		Remove(c.current)
		c.current = nil
	}
	c.state = want
	if build == nil {
		return nil
	}
	e, err := build()
	if err != nil {
		c.state = branchNone
		return err
	}
	if err := InsertAfter(c.begin, e); err != nil {
		e.Dispose()
		c.state = branchNone
		return err
	}
	c.current = e
	return nil
}

// Dispose disposes the mounted branch.
func (c *Conditional) Dispose() {
	if c.current != nil {
		c.current.Dispose()
	}
}
