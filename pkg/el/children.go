package el

// group is an element aggregating several child elements under one span.
type group struct {
	rng   Range
	items []Element
}

func (g *group) Range() Range { return g.rng }

func (g *group) Update() error {
	for _, e := range g.items {
		if err := e.Update(); err != nil {
			return err
		}
	}
	return nil
}

func (g *group) Dispose() {
	for _, e := range g.items {
		e.Dispose()
	}
}

// Children aggregates heterogeneous child values into one element.
//
// Items may be Elements, text-like values (strings, numbers, booleans,
// fmt.Stringers, param.Params) or nested []any / []Element slices, which are
// flattened. nil items are skipped. No children yields an empty element, a
// single child is returned as is, and several children are gathered into a
// fragment owned as a span.
func (b *Builder) Children(items ...any) (Element, error) {
	els, err := b.flatten(nil, items)
	if err != nil {
		return nil, err
	}
	switch len(els) {
	case 0:
		return b.Empty(), nil
	case 1:
		return els[0], nil
	}

	frag := b.doc.CreateDocumentFragment()
	for _, e := range els {
		if err := Append(frag, e); err != nil {
			return nil, err
		}
	}
	g := &group{items: els}
	if frag.FirstChild() == nil {
		g.rng = Single{Node: frag}
	} else {
		g.rng = Span{First: frag.FirstChild(), Last: frag.LastChild()}
	}
	return g, nil
}

func (b *Builder) flatten(out []Element, items []any) ([]Element, error) {
	var err error
	for _, item := range items {
		switch x := item.(type) {
		case nil:
		case Element:
			out = append(out, x)
		case []Element:
			out = append(out, x...)
		case []any:
			if out, err = b.flatten(out, x); err != nil {
				return nil, err
			}
		default:
			if !isTextLike(x) {
				return nil, invalidChild(x)
			}
			out = append(out, b.Text(x))
		}
	}
	return out, nil
}
