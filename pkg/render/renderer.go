package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/livedom/pkg/dom"
)

// NodeIDAttr is the attribute carrying an element's node id when
// RendererConfig.NodeIDs is set.
const NodeIDAttr = "data-nid"

// TextIDAttr carries the id of the text child of a script or style element.
const TextIDAttr = "data-tid"

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Ignored when NodeIDs is set, since added whitespace would become
	// text nodes on the client.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// NodeIDs addresses every node for live patching: elements get a
	// data-nid attribute, text nodes are preceded by a <!--t:ID--> marker
	// and comments are written as <!--c:ID:data-->.
	NodeIDs bool
}

// Renderer serializes dom trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.NodeIDs {
		config.Pretty = false
	}
	return &Renderer{config: config}
}

// RenderToString renders a node and its subtree to a string.
func (r *Renderer) RenderToString(node *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node and its subtree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *dom.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderToString renders node with a default renderer.
func RenderToString(node *dom.Node) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(node)
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, node *dom.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Type() {
	case dom.ElementNode:
		return r.renderElement(w, node, depth)
	case dom.TextNode:
		return r.renderText(w, node)
	case dom.CommentNode:
		return r.renderComment(w, node)
	case dom.FragmentNode, dom.DocumentNode:
		return r.renderChildren(w, node, depth)
	default:
		return fmt.Errorf("render: unknown node type %v", node.Type())
	}
}

func (r *Renderer) renderChildren(w io.Writer, node *dom.Node, depth int) error {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if err := r.renderNode(w, c, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *dom.Node, depth int) error {
	tag := node.Tag()

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if err := r.openTag(w, node); err != nil {
		return err
	}

	if isVoidElement(tag) && node.Namespace() == "" {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if isRawTextElement(tag) {
		// Script and style bodies are not entity-decoded by browsers.
		if err := r.renderRawText(w, node); err != nil {
			return err
		}
	} else {
		hasBlockChildren := node.HasChildNodes() && !isInlineElement(tag)
		if r.config.Pretty && hasBlockChildren {
			w.Write([]byte{'\n'})
		}

		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if err := r.renderNode(w, c, depth+1); err != nil {
				return err
			}
		}

		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// openTag writes "<tag attrs...>".
func (r *Renderer) openTag(w io.Writer, node *dom.Node) error {
	if _, err := fmt.Fprintf(w, "<%s", node.Tag()); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	_, err := w.Write([]byte{'>'})
	return err
}

// renderAttributes writes attributes in insertion order, then the node id.
func (r *Renderer) renderAttributes(w io.Writer, node *dom.Node) error {
	for _, a := range node.Attributes() {
		if r.config.NodeIDs && (a.Name == NodeIDAttr || a.Name == TextIDAttr) {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if !r.config.NodeIDs {
		return nil
	}
	if _, err := fmt.Fprintf(w, ` %s="%d"`, NodeIDAttr, node.ID()); err != nil {
		return err
	}
	// Raw text bodies cannot carry markers, so the text node id rides on
	// the element.
	if c := node.FirstChild(); c != nil && c.Type() == dom.TextNode && isRawTextElement(node.Tag()) {
		if _, err := fmt.Fprintf(w, ` %s="%d"`, TextIDAttr, c.ID()); err != nil {
			return err
		}
	}
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *dom.Node) error {
	if r.config.NodeIDs {
		if _, err := fmt.Fprintf(w, "<!--t:%d-->", node.ID()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, escapeHTML(node.Data()))
	return err
}

func (r *Renderer) renderRawText(w io.Writer, node *dom.Node) error {
	text := node.TextContent()
	// "</" followed by the tag name would end the element early.
	text = strings.ReplaceAll(text, "</"+node.Tag(), `<\/`+node.Tag())
	_, err := io.WriteString(w, text)
	return err
}

// renderComment renders a comment. Sequences that would close the comment
// early are neutralized.
func (r *Renderer) renderComment(w io.Writer, node *dom.Node) error {
	data := escapeComment(node.Data())
	if r.config.NodeIDs {
		_, err := fmt.Fprintf(w, "<!--c:%s:%s-->", strconv.FormatUint(node.ID(), 10), data)
		return err
	}
	_, err := fmt.Fprintf(w, "<!--%s-->", data)
	return err
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.Write([]byte(r.config.Indent))
	}
}
