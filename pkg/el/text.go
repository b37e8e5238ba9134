package el

import (
	"fmt"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/param"
)

// Text is an element owning one text node.
type Text struct {
	node    *dom.Node
	src     param.Source
	content string
}

// Text creates a text element. v may be a literal or a param.Param; a
// computed param is re-read on every Update and the node is written only
// when the rendered string changes.
func (b *Builder) Text(v any) *Text {
	t := &Text{}
	if src, ok := v.(param.Source); ok {
		t.content = textString(src.Any())
		if src.IsComputed() {
			t.src = src
		}
	} else {
		t.content = textString(v)
	}
	t.node = b.doc.CreateTextNode(t.content)
	return t
}

// Range implements Element.
func (t *Text) Range() Range { return Single{Node: t.node} }

// DOM returns the text node.
func (t *Text) DOM() *dom.Node { return t.node }

// Update re-reads a computed source.
func (t *Text) Update() error {
	if t.src == nil {
		return nil
	}
	if s := textString(t.src.Any()); s != t.content {
		t.content = s
		t.node.SetTextContent(s)
	}
	return nil
}

// Dispose implements Element.
func (t *Text) Dispose() {}

// textString renders a text value. nil and false render empty.
func textString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if !x {
			return ""
		}
		return "true"
	}
	if s, ok := formatNumber(v); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// isTextLike reports whether a child value renders as a text node.
func isTextLike(v any) bool {
	switch v.(type) {
	case string, bool, param.Source, fmt.Stringer:
		return true
	}
	_, ok := formatNumber(v)
	return ok
}
