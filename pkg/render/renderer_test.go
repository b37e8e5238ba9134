package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vango-dev/livedom/pkg/dom"
)

func element(doc *dom.Document, tag string, attrs map[string]string, children ...*dom.Node) *dom.Node {
	n := doc.CreateElement(tag)
	for k, v := range attrs {
		n.SetAttribute(k, v)
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func TestRenderText(t *testing.T) {
	doc := dom.NewDocument()
	html, err := RenderToString(doc.CreateTextNode("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	doc := dom.NewDocument()
	html, err := RenderToString(doc.CreateTextNode("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	doc := dom.NewDocument()
	node := element(doc, "div", map[string]string{"class": "container"},
		element(doc, "h1", nil, doc.CreateTextNode("Title")),
		element(doc, "p", nil, doc.CreateTextNode("Content")),
	)
	html, err := RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderAttributeOrderAndEscaping(t *testing.T) {
	doc := dom.NewDocument()
	n := doc.CreateElement("a")
	n.SetAttribute("title", `say "hi"`+"\n")
	n.SetAttribute("href", "/x?a=1&b=2")
	html, _ := RenderToString(n)
	want := `<a title="say &quot;hi&quot;&#10;" href="/x?a=1&amp;b=2"></a>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
	if v := extractAttrValue(t, html, "href"); v != "/x?a=1&amp;b=2" {
		t.Errorf("href = %q", v)
	}
}

func TestRenderVoidElements(t *testing.T) {
	doc := dom.NewDocument()
	tests := []struct {
		name string
		node *dom.Node
		want string
	}{
		{"input", element(doc, "input", map[string]string{"type": "text"}), `<input type="text">`},
		{"br", element(doc, "br", nil), `<br>`},
		{"img", element(doc, "img", map[string]string{"src": "a.png"}), `<img src="a.png">`},
		{"svg void name", doc.CreateElementNS(dom.SVGNamespace, "source"), `<source></source>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if html != tt.want {
				t.Errorf("got %q, want %q", html, tt.want)
			}
		})
	}
}

func TestRenderCommentsAndFragments(t *testing.T) {
	doc := dom.NewDocument()
	frag := doc.CreateDocumentFragment()
	frag.AppendChild(doc.CreateComment("list"))
	frag.AppendChild(element(doc, "li", nil, doc.CreateTextNode("a")))
	frag.AppendChild(doc.CreateComment("a-->b"))

	html, err := RenderToString(frag)
	if err != nil {
		t.Fatal(err)
	}
	want := `<!--list--><li>a</li><!--a- -&gt;b-->`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderRawText(t *testing.T) {
	doc := dom.NewDocument()
	style := element(doc, "style", nil, doc.CreateTextNode("ul > li { color: red }</style><b>"))
	html, _ := RenderToString(style)
	want := `<style>ul > li { color: red }<\/style><b></style>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderNodeIDs(t *testing.T) {
	doc := dom.NewDocument()
	a := doc.CreateTextNode("a")
	b := doc.CreateTextNode("b")
	c := doc.CreateComment("list")
	p := element(doc, "p", nil, a, b, c)

	r := NewRenderer(RendererConfig{NodeIDs: true, Pretty: true})
	html, err := r.RenderToString(p)
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf(`<p data-nid="%d"><!--t:%d-->a<!--t:%d-->b<!--c:%d:list--></p>`, p.ID(), a.ID(), b.ID(), c.ID())
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}

	style := element(doc, "style", nil, doc.CreateTextNode("x{}"))
	html, _ = r.RenderToString(style)
	if got := extractAttrValue(t, html, TextIDAttr); got != fmt.Sprint(style.FirstChild().ID()) {
		t.Errorf("%s = %q", TextIDAttr, got)
	}
}

func TestRenderPretty(t *testing.T) {
	doc := dom.NewDocument()
	node := element(doc, "ul", nil,
		element(doc, "li", nil, element(doc, "span", nil, doc.CreateTextNode("x"))),
	)
	html, _ := NewRenderer(RendererConfig{Pretty: true}).RenderToString(node)
	want := "<ul>\n  <li>\n    <span>x</span>\n  </li>\n</ul>\n"
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}
