package livetest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/protocol"
	"github.com/vango-dev/livedom/pkg/render"
	"github.com/vango-dev/livedom/pkg/server"
)

// Session wraps a server.Session mounted for a test.
type Session struct {
	*server.Session
	tb testing.TB
}

// Option configures a test session.
type Option func(*server.ServerConfig)

// WithMiddleware adds update middleware.
func WithMiddleware(mw ...server.UpdateMiddleware) Option {
	return func(c *server.ServerConfig) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// WithListObserver sets the observer returned by Session.ListObserver.
func WithListObserver(o el.ListObserver) Option {
	return func(c *server.ServerConfig) {
		c.ListObserver = o
	}
}

// WithHooks sets the session lifecycle hooks.
func WithHooks(h server.Hooks) Option {
	return func(c *server.ServerConfig) {
		c.Hooks = h
	}
}

// Mount creates a session running app. The session and its manager are
// shut down when the test ends. Logs are discarded.
//
// Example:
//
//	s := livetest.Mount(t, app, livetest.WithListObserver(obs))
func Mount(tb testing.TB, app server.App, opts ...Option) *Session {
	tb.Helper()
	config := server.DefaultServerConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := server.NewSessionManager(app, config, logger)
	tb.Cleanup(func() {
		_ = manager.Shutdown(context.Background())
	})

	sess, err := manager.Create()
	if err != nil {
		tb.Fatalf("mount: %v", err)
	}
	return &Session{Session: sess, tb: tb}
}

// Body returns the document body.
func (s *Session) Body() *dom.Node {
	return s.Document().Body()
}

// HTML renders the body.
func (s *Session) HTML() string {
	s.tb.Helper()
	return RenderToString(s.tb, s.Body())
}

// Fire dispatches an event of type typ at n with detail as its payload.
// It fails the test when the update pass returns an error; use
// Session.Dispatch to inspect errors.
func (s *Session) Fire(n *dom.Node, typ string, detail map[string]string) {
	s.tb.Helper()
	if n == nil {
		s.tb.Fatalf("fire %s: nil node", typ)
	}
	ev := &protocol.ClientEvent{Target: n.ID(), Type: typ, Detail: detail}
	if err := s.Dispatch(context.Background(), ev); err != nil {
		s.tb.Fatalf("fire %s on <%s>: %v", typ, n.Tag(), err)
	}
}

// Click fires a click event at n.
func (s *Session) Click(n *dom.Node) {
	s.tb.Helper()
	s.Fire(n, "click", nil)
}

// Input fires an input event carrying value at n.
func (s *Session) Input(n *dom.Node, value string) {
	s.tb.Helper()
	s.Fire(n, "input", map[string]string{"value": value})
}

// Change fires a change event carrying value at n.
func (s *Session) Change(n *dom.Node, value string) {
	s.tb.Helper()
	s.Fire(n, "change", map[string]string{"value": value})
}

// Submit fires a submit event at n.
func (s *Session) Submit(n *dom.Node) {
	s.tb.Helper()
	s.Fire(n, "submit", nil)
}

// Find returns the first node below the body matching match, or nil.
func (s *Session) Find(match func(*dom.Node) bool) *dom.Node {
	return Find(s.Body(), match)
}

// FindAll returns every node below the body matching match.
func (s *Session) FindAll(match func(*dom.Node) bool) []*dom.Node {
	return FindAll(s.Body(), match)
}

// FindTag returns the first element with the given tag.
func (s *Session) FindTag(tag string) *dom.Node {
	s.tb.Helper()
	return s.must("<"+tag+">", s.Find(IsTag(tag)))
}

// FindText returns the first element whose trimmed text content equals text.
func (s *Session) FindText(tag, text string) *dom.Node {
	s.tb.Helper()
	return s.must("<"+tag+"> "+text, s.Find(func(n *dom.Node) bool {
		return n.Type() == dom.ElementNode && n.Tag() == tag &&
			strings.TrimSpace(n.TextContent()) == text
	}))
}

// FindAttr returns the first element with attribute name set to value.
func (s *Session) FindAttr(name, value string) *dom.Node {
	s.tb.Helper()
	return s.must("["+name+"="+value+"]", s.Find(func(n *dom.Node) bool {
		v, ok := n.GetAttribute(name)
		return ok && v == value
	}))
}

func (s *Session) must(what string, n *dom.Node) *dom.Node {
	s.tb.Helper()
	if n == nil {
		s.tb.Fatalf("no node matches %s in:\n%s", what, truncate(s.HTML(), 500))
	}
	return n
}

// IsTag matches elements with the given tag.
func IsTag(tag string) func(*dom.Node) bool {
	return func(n *dom.Node) bool {
		return n.Type() == dom.ElementNode && n.Tag() == tag
	}
}

// Find returns the first descendant of root matching match in document
// order, or nil.
func Find(root *dom.Node, match func(*dom.Node) bool) *dom.Node {
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if match(c) {
			return c
		}
		if n := Find(c, match); n != nil {
			return n
		}
	}
	return nil
}

// FindAll returns every descendant of root matching match in document order.
func FindAll(root *dom.Node, match func(*dom.Node) bool) []*dom.Node {
	var out []*dom.Node
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		if match(c) {
			out = append(out, c)
		}
		out = append(out, FindAll(c, match)...)
	}
	return out
}

// RenderToString renders n and fails the test on error.
func RenderToString(tb testing.TB, n *dom.Node) string {
	tb.Helper()
	html, err := render.RenderToString(n)
	if err != nil {
		tb.Fatalf("render: %v", err)
	}
	return html
}

// ExpectContains asserts that the rendered node contains expected.
func ExpectContains(tb testing.TB, n *dom.Node, expected string) {
	tb.Helper()
	html := RenderToString(tb, n)
	if !strings.Contains(html, expected) {
		tb.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered node does not contain unexpected.
func ExpectNotContains(tb testing.TB, n *dom.Node, unexpected string) {
	tb.Helper()
	html := RenderToString(tb, n)
	if strings.Contains(html, unexpected) {
		tb.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectText asserts the trimmed text content of n.
func ExpectText(tb testing.TB, n *dom.Node, want string) {
	tb.Helper()
	if got := strings.TrimSpace(n.TextContent()); got != want {
		tb.Errorf("text of <%s> = %q, want %q", n.Tag(), got, want)
	}
}

// ExpectAttribute asserts that n has attribute name set to want.
func ExpectAttribute(tb testing.TB, n *dom.Node, name, want string) {
	tb.Helper()
	got, ok := n.GetAttribute(name)
	if !ok {
		tb.Errorf("<%s> has no %s attribute, want %q", n.Tag(), name, want)
		return
	}
	if got != want {
		tb.Errorf("<%s> %s = %q, want %q", n.Tag(), name, got, want)
	}
}

// ExpectNoAttribute asserts that n does not have attribute name.
func ExpectNoAttribute(tb testing.TB, n *dom.Node, name string) {
	tb.Helper()
	if got, ok := n.GetAttribute(name); ok {
		tb.Errorf("<%s> %s = %q, want no attribute", n.Tag(), name, got)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
