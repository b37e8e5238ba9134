package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/livedom/pkg/dom"
)

// PageData contains all data needed to render a complete HTML page around
// a live document.
type PageData struct {
	// Doc supplies the <head> and <body> content and their attributes.
	Doc *dom.Document

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Scripts contains script tags. Deferred and async scripts go in the
	// head, the rest at the end of the body.
	Scripts []ScriptTag

	// SessionID is exposed to the client script for the live connection.
	SessionID string

	// ClientScript is the path to the live patch client.
	// Defaults to "/_livedom/client.js" when SessionID is set.
	ClientScript string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Module bool   // type="module"
	Inline string // inline script content
}

// DefaultClientScript is where the server mounts the patch client.
const DefaultClientScript = "/_livedom/client.js"

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderPreamble(w, page); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	return r.renderBody(w, page)
}

// RenderDocument renders doc as a complete page with default settings.
func RenderDocument(w io.Writer, doc *dom.Document) error {
	return NewRenderer(RendererConfig{}).RenderPage(w, PageData{Doc: doc})
}

func (r *Renderer) renderPreamble(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	if v, ok := page.Doc.HTML().GetAttribute("lang"); ok {
		lang = v
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang))
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if err := r.openTag(w, page.Doc.Head()); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"+`  <meta charset="utf-8">`+"\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if err := renderMetaTag(w, meta); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}

	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			if err := renderScriptTag(w, script); err != nil {
				return err
			}
		}
	}

	if err := r.renderChildren(w, page.Doc.Head(), 1); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

func (r *Renderer) renderBody(w io.Writer, page PageData) error {
	if err := r.openTag(w, page.Doc.Body()); err != nil {
		return err
	}
	if err := r.renderChildren(w, page.Doc.Body(), 1); err != nil {
		return err
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderMetaTag renders a meta element.
func renderMetaTag(w io.Writer, meta MetaTag) error {
	if _, err := io.WriteString(w, "  <meta"); err != nil {
		return err
	}
	for _, a := range [...]struct{ name, value string }{
		{"name", meta.Name},
		{"property", meta.Property},
		{"content", meta.Content},
	} {
		if a.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.name, escapeAttr(a.value)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

// renderScriptTag renders a script element.
func renderScriptTag(w io.Writer, script ScriptTag) error {
	if _, err := io.WriteString(w, "<script"); err != nil {
		return err
	}
	if script.Src != "" {
		if _, err := fmt.Fprintf(w, ` src="%s"`, escapeAttr(script.Src)); err != nil {
			return err
		}
	}
	if script.Module {
		if _, err := io.WriteString(w, ` type="module"`); err != nil {
			return err
		}
	}
	if script.Defer {
		if _, err := io.WriteString(w, " defer"); err != nil {
			return err
		}
	}
	if script.Async {
		if _, err := io.WriteString(w, " async"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, ">%s</script>\n", script.Inline); err != nil {
		return err
	}
	return nil
}

// renderClientScript injects body scripts and, for live pages, the session
// id and patch client.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	for _, script := range page.Scripts {
		if !script.Defer && !script.Async {
			if err := renderScriptTag(w, script); err != nil {
				return err
			}
		}
	}
	if page.SessionID == "" {
		return nil
	}

	if _, err := fmt.Fprintf(w, `<script>window.__LIVEDOM_SESSION__="%s";</script>`+"\n",
		escapeAttr(page.SessionID)); err != nil {
		return err
	}
	clientPath := page.ClientScript
	if clientPath == "" {
		clientPath = DefaultClientScript
	}
	_, err := fmt.Fprintf(w, `<script src="%s" defer></script>`+"\n", escapeAttr(clientPath))
	return err
}
