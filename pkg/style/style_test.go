package style

import (
	"strings"
	"testing"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/param"
)

func newSheet() (*Sheet, *ManualFrames, *dom.Document) {
	doc := dom.NewDocument()
	frames := &ManualFrames{}
	return NewSheet(el.NewBuilder(doc), frames), frames, doc
}

func TestClassNames(t *testing.T) {
	s, _, _ := newSheet()
	if got := s.Class("btn", Rules{"color": "red"}); got != "btn-c0" {
		t.Errorf("Class = %q, want btn-c0", got)
	}
	if got := s.Class("", Rules{"color": "blue"}); got != "c1" {
		t.Errorf("Class = %q, want c1", got)
	}
	if got := s.Keyframes(Frame{At: "from", Props: Rules{"opacity": 0}}); got != "c2" {
		t.Errorf("Keyframes = %q, want c2", got)
	}
}

func TestStringify(t *testing.T) {
	got := stringify(".x", Rules{
		"backgroundColor": "#fff",
		"zIndex":          2,
		"margin":          "",
		":hover":          Rules{"color": "red"},
	})
	want := ".x {\n\tbackground-color: #fff;\n\tz-index: 2;\n}\n.x:hover {\n\tcolor: red;\n}\n"
	if got != want {
		t.Errorf("stringify =\n%s\nwant\n%s", got, want)
	}
}

func TestFlushBatchesIntoOneStyleElement(t *testing.T) {
	s, frames, doc := newSheet()
	s.Class("a", Rules{"color": "red"})
	s.Class("b", Rules{"color": "blue"}, Rules{"margin": 0})
	s.Keyframes(Frame{At: "0%", Props: Rules{"opacity": 0}}, Frame{At: "100%", Props: Rules{"opacity": 1}})

	if frames.Pending() != 1 {
		t.Fatalf("Pending = %d, want one frame request", frames.Pending())
	}
	if s.Queued() != 4 {
		t.Errorf("Queued = %d, want 4", s.Queued())
	}
	frames.Flush()

	styles := doc.Head().Children()
	if len(styles) != 1 || styles[0].Tag() != "style" {
		t.Fatalf("head children = %d, want one <style>", len(styles))
	}
	if v, _ := styles[0].GetAttribute("type"); v != "text/css" {
		t.Errorf("type = %q", v)
	}
	css := styles[0].TextContent()
	for _, want := range []string{".a-c0 {", ".b-c1 {", "margin: 0;", "@keyframes c2 {", "100% {", "/***/"} {
		if !strings.Contains(css, want) {
			t.Errorf("css missing %q:\n%s", want, css)
		}
	}
	if s.Queued() != 0 {
		t.Error("queue should be empty after flush")
	}

	s.Class("c", Rules{"color": "green"})
	if frames.Pending() != 1 {
		t.Errorf("a new queue should request a new frame")
	}
	frames.Flush()
	if len(doc.Head().Children()) != 2 {
		t.Errorf("head children = %d, want 2", len(doc.Head().Children()))
	}
}

func TestInline(t *testing.T) {
	constant := Inline(Props{"fontSize": "12px", "marginTop": 0, "color": ""})
	if !constant.IsConstant() || constant.Value() != "font-size: 12px; margin-top: 0;" {
		t.Errorf("Inline = %q (constant %v)", constant.Value(), constant.IsConstant())
	}

	width := 10
	color := ""
	dyn := Inline(Props{
		"display": "block",
		"width":   param.Func(func() string { return strings.Repeat("1", width/10) + "0px" }),
		"color":   param.Func(func() string { return color }),
	})
	if !dyn.IsComputed() {
		t.Fatal("Inline with a computed property should be computed")
	}
	if got := dyn.Value(); got != "display: block; width: 10px;" {
		t.Errorf("Inline = %q", got)
	}
	color = "red"
	if got := dyn.Value(); got != "display: block; color: red; width: 10px;" {
		t.Errorf("Inline = %q", got)
	}
}

func TestStyled(t *testing.T) {
	s, _, _ := newSheet()
	button := s.Styled(el.NewBuilder(s.b.Document()), "button", Rules{"padding": "4px"}, el.Attrs{"type": "button"})

	n, err := button(el.Attrs{"className": "primary"}, "Go")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := n.DOM().GetAttribute("class"); v != "button-c0 primary" {
		t.Errorf("class = %q", v)
	}
	if v, _ := n.DOM().GetAttribute("type"); v != "button" {
		t.Errorf("type = %q", v)
	}

	active := false
	n, err = button(el.Attrs{"class": param.Func(func() any { return map[string]bool{"on": active} })})
	if err != nil {
		t.Fatal(err)
	}
	active = true
	_ = n.Update()
	if v, _ := n.DOM().GetAttribute("class"); v != "button-c0 on" {
		t.Errorf("class = %q", v)
	}

	n, _ = button(nil)
	if v, _ := n.DOM().GetAttribute("class"); v != "button-c0" {
		t.Errorf("class = %q", v)
	}
}

func TestDefaultSheet(t *testing.T) {
	Reset()
	defer Reset()
	if got := Class("x"); got != "x-c0" {
		t.Errorf("Class = %q, want x-c0", got)
	}
	if got := Keyframes(); got != "c1" {
		t.Errorf("Keyframes = %q, want c1", got)
	}
	Reset()
	if got := Class("x"); got != "x-c0" {
		t.Errorf("after Reset Class = %q, want x-c0", got)
	}
}
