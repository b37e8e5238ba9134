package el

import (
	"errors"
	"testing"

	lerrors "github.com/vango-dev/livedom/internal/errors"
	"github.com/vango-dev/livedom/pkg/classes"
	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/param"
)

func attr(t *testing.T, n *dom.Node, name string) (string, bool) {
	t.Helper()
	return n.GetAttribute(name)
}

func TestElementStaticAttributes(t *testing.T) {
	b := NewBuilder(dom.NewDocument())

	n, err := b.El("input", Attrs{
		"className": "field",
		"value":     42,
		"ratio":     1.5,
		"disabled":  true,
		"hidden":    false,
		"title":     nil,
		"name":      "q",
	})
	if err != nil {
		t.Fatalf("El: %v", err)
	}

	tests := []struct {
		name    string
		want    string
		present bool
	}{
		{"class", "field", true},
		{"value", "42", true},
		{"ratio", "1.5", true},
		{"disabled", "disabled", true},
		{"hidden", "", false},
		{"title", "", false},
		{"name", "q", true},
		{"className", "", false},
	}
	for _, tt := range tests {
		got, ok := attr(t, n.DOM(), tt.name)
		if ok != tt.present || got != tt.want {
			t.Errorf("%s = %q (present %v), want %q (present %v)", tt.name, got, ok, tt.want, tt.present)
		}
	}
}

func TestContentEditablePolicy(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	editable := true
	n, err := b.El("div", Attrs{
		"contenteditable": param.Func(func() bool { return editable }),
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := n.DOM().GetAttribute("contenteditable"); v != "true" {
		t.Errorf("contenteditable = %q, want true", v)
	}
	editable = false
	if err := n.Update(); err != nil {
		t.Fatal(err)
	}
	if v, ok := n.DOM().GetAttribute("contenteditable"); !ok || v != "false" {
		t.Errorf("contenteditable = %q (present %v), want \"false\"", v, ok)
	}
}

func TestDynamicAttributeRoundTrip(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	var title any = "a"
	n, err := b.El("div", Attrs{"title": param.Func(func() any { return title })})
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		value   any
		want    string
		present bool
	}{
		{"b", "b", true},
		{nil, "", false},
		{7, "7", true},
		{false, "", false},
		{"c", "c", true},
	}
	for _, s := range steps {
		title = s.value
		if err := n.Update(); err != nil {
			t.Fatal(err)
		}
		got, ok := n.DOM().GetAttribute("title")
		if ok != s.present || got != s.want {
			t.Errorf("after %v: title = %q (present %v), want %q (present %v)", s.value, got, ok, s.want, s.present)
		}
	}
}

func TestDynamicAttributeWritesOnlyOnChange(t *testing.T) {
	doc := dom.NewDocument()
	b := NewBuilder(doc)
	title := "x"
	n, err := b.El("div", Attrs{"title": param.Func(func() string { return title })})
	if err != nil {
		t.Fatal(err)
	}

	writes := 0
	cancel := doc.Observe(func(m dom.Mutation) {
		if m.Op == dom.MutSetAttr {
			writes++
		}
	})
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := n.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if writes != 0 {
		t.Errorf("writes = %d for unchanged value, want 0", writes)
	}
	title = "y"
	_ = n.Update()
	if writes != 1 {
		t.Errorf("writes = %d after change, want 1", writes)
	}
}

func TestClassValues(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	active := false
	n, err := b.El("li", Attrs{
		"class": param.Func(func() classes.Value {
			return classes.Values{"item", classes.If("active", active)}
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := n.DOM().GetAttribute("class"); v != "item" {
		t.Errorf("class = %q, want item", v)
	}
	active = true
	_ = n.Update()
	if v, _ := n.DOM().GetAttribute("class"); v != "item active" {
		t.Errorf("class = %q, want \"item active\"", v)
	}
}

func TestEventHandlers(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	clicks, inputs := 0, 0
	n, err := b.El("button", Attrs{
		"onClick": Handler(func(*dom.Event) { clicks++ }),
		"oninput": func() { inputs++ },
	})
	if err != nil {
		t.Fatal(err)
	}

	node := n.DOM()
	node.Dispatch(&dom.Event{Type: "click"})
	node.Dispatch(&dom.Event{Type: "input"})
	if clicks != 1 || inputs != 1 {
		t.Errorf("clicks = %d, inputs = %d, want 1, 1", clicks, inputs)
	}
	if node.HasAttribute("onclick") || node.HasAttribute("onClick") {
		t.Error("handler keys must not become attributes")
	}

	n.Dispose()
	if c := node.ListenerCount("click"); c != 0 {
		t.Errorf("ListenerCount after Dispose = %d, want 0", c)
	}
}

func TestInvalidHandler(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	tests := []struct {
		name  string
		value any
	}{
		{"string", "alert(1)"},
		{"nil", nil},
		{"number", 3},
		{"nil handler", Handler(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.El("button", Attrs{
				"onclick": tt.value,
				"onkeyup": func() {},
			})
			if !errors.Is(err, ErrInvalidHandler) {
				t.Fatalf("err = %v, want ErrInvalidHandler", err)
			}
			if lerrors.Code(err) != "L101" {
				t.Errorf("code = %q, want L101", lerrors.Code(err))
			}
		})
	}
}

func TestInvalidAttributeValue(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"getter", "title", func() string { return "x" }},
		{"thunk", "value", func() {}},
		{"handler", "data-action", Handler(func(*dom.Event) {})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.El("input", Attrs{tt.key: tt.value})
			if !errors.Is(err, ErrInvalidAttr) {
				t.Fatalf("err = %v, want ErrInvalidAttr", err)
			}
			if lerrors.Code(err) != "L108" {
				t.Errorf("code = %q, want L108", lerrors.Code(err))
			}
		})
	}
}

func TestParamYieldingFuncRemovesAttribute(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	n, err := b.El("div", Attrs{"title": param.Func(func() any { return func() {} })})
	if err != nil {
		t.Fatalf("El: %v", err)
	}
	if v, ok := attr(t, n.DOM(), "title"); ok {
		t.Errorf("title = %q, want absent", v)
	}
}

func TestElementDisposesContentOnAppendFailure(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	foreign := NewBuilder(dom.NewDocument())
	disposed := 0
	child := &disposeCounter{Element: foreign.Text("x"), n: &disposed}

	_, err := b.El("div", nil, child)
	if lerrors.Code(err) != "L106" {
		t.Fatalf("code = %q, want L106 (err = %v)", lerrors.Code(err), err)
	}
	if disposed != 1 {
		t.Errorf("child disposed %d times, want 1", disposed)
	}
}

func TestElementChildren(t *testing.T) {
	doc := dom.NewDocument()
	b := NewBuilder(doc)
	count := 1
	inner := b.MustEl("b", nil, "bold")
	n, err := b.El("p", nil, "count: ", param.Func(func() int { return count }), inner)
	if err != nil {
		t.Fatal(err)
	}
	if got := n.DOM().TextContent(); got != "count: 1bold" {
		t.Errorf("TextContent = %q", got)
	}
	if len(n.DOM().Children()) != 3 {
		t.Errorf("children = %d, want 3", len(n.DOM().Children()))
	}

	count = 2
	if err := n.Update(); err != nil {
		t.Fatal(err)
	}
	if got := n.DOM().TextContent(); got != "count: 2bold" {
		t.Errorf("TextContent after update = %q", got)
	}
}

func TestSVGNamespace(t *testing.T) {
	b := NewBuilder(dom.NewDocument())
	n, err := b.SVG("circle", Attrs{"r": 4})
	if err != nil {
		t.Fatal(err)
	}
	if n.DOM().Namespace() != dom.SVGNamespace {
		t.Errorf("Namespace = %q", n.DOM().Namespace())
	}
}

func TestMustElPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustEl should panic on an invalid handler")
		}
	}()
	NewBuilder(dom.NewDocument()).MustEl("a", Attrs{"onclick": 1})
}
