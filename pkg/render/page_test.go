package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vango-dev/livedom/pkg/dom"
)

func pageDoc() *dom.Document {
	doc := dom.NewDocument()
	doc.Body().SetAttribute("class", "app")
	doc.Body().AppendChild(element(doc, "h1", nil, doc.CreateTextNode("Todos")))
	doc.Head().AppendChild(element(doc, "style", map[string]string{"type": "text/css"}, doc.CreateTextNode(".a{}")))
	return doc
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(RendererConfig{})
	err := r.RenderPage(&buf, PageData{
		Doc:         pageDoc(),
		Title:       "Todos & more",
		Meta:        []MetaTag{{Name: "description", Content: "demo"}},
		StyleSheets: []string{"/app.css"},
		Scripts: []ScriptTag{
			{Src: "/head.js", Defer: true},
			{Inline: "console.log(1)"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>\n",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		"<title>Todos &amp; more</title>",
		`<meta name="description" content="demo">`,
		`<link rel="stylesheet" href="/app.css">`,
		`<script src="/head.js" defer></script>`,
		`<style type="text/css">.a{}</style>`,
		`<body class="app"><h1>Todos</h1>`,
		"<script>console.log(1)</script>",
		"</body>\n</html>\n",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "__LIVEDOM_SESSION__") {
		t.Error("static page should not include the live client")
	}
	if strings.Index(html, "/head.js") > strings.Index(html, "</head>") {
		t.Error("deferred script should be in the head")
	}
}

func TestRenderPageLive(t *testing.T) {
	doc := pageDoc()
	doc.HTML().SetAttribute("lang", "de")
	var buf bytes.Buffer
	r := NewRenderer(RendererConfig{NodeIDs: true})
	if err := r.RenderPage(&buf, PageData{Doc: doc, SessionID: `s"1`}); err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	for _, want := range []string{
		`<html lang="de">`,
		`window.__LIVEDOM_SESSION__="s&quot;1"`,
		`<script src="` + DefaultClientScript + `" defer></script>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
	if got := extractAttrValue(t, html, "<body class=\"app\" data-nid"); got == "" {
		t.Error("body should carry a node id")
	}
}

func TestRenderDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDocument(&buf, pageDoc()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>") {
		t.Errorf("RenderDocument = %q", buf.String())
	}
}
