// Package render serializes live dom trees to HTML.
//
// It handles the parts of producing valid, safe markup:
//
//   - text and attribute escaping
//   - void elements (input, br, img, etc.)
//   - raw text bodies of script and style
//   - optional node addressing for live patching
//   - full pages with DOCTYPE, head and body
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Node Addressing
//
// With NodeIDs set, every node in the output can be found again by the
// browser client: elements carry data-nid, text nodes are preceded by a
// <!--t:ID--> marker (which also keeps adjacent text nodes apart) and
// comments are written as <!--c:ID:data-->. Patches reference nodes by
// these ids.
//
// # Full Page Rendering
//
//	err := renderer.RenderPage(w, render.PageData{
//	    Doc:       doc,
//	    Title:     "Todos",
//	    SessionID: sess.ID(),
//	})
//
// For large pages, StreamingRenderer flushes the head before the body.
package render
