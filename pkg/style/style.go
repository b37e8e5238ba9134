// Package style generates scoped CSS classes and keyframes and injects them
// into a document's <head> once per frame.
//
//	sheet := style.NewSheet(b, &style.ManualFrames{})
//	btn := sheet.Class("btn", style.Rules{
//	    "backgroundColor": "#222",
//	    ":hover":          style.Rules{"backgroundColor": "#444"},
//	})
//	// btn == "btn-c0"
//
// Rules are queued and written as a single <style> element when the frame
// scheduler fires, so many classes created during one update cost one
// insertion.
package style

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/livedom/pkg/el"
)

// Rules is a CSS declaration block. Values are strings, numbers, or nested
// Rules whose key is appended to the parent selector (":hover", " > li").
// Property names may be camelCase.
type Rules map[string]any

// Frame is one keyframe stop.
type Frame struct {
	At    string
	Props Rules
}

// FrameScheduler runs a callback at the next frame boundary. RequestFrame
// must not call fn before returning.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// ManualFrames is a FrameScheduler flushed explicitly by its owner.
type ManualFrames struct {
	mu      sync.Mutex
	pending []func()
}

// RequestFrame implements FrameScheduler.
func (m *ManualFrames) RequestFrame(fn func()) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (m *ManualFrames) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush runs every queued callback.
func (m *ManualFrames) Flush() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Sheet generates class names and batches CSS text for one document.
type Sheet struct {
	b     *el.Builder
	sched FrameScheduler

	mu        sync.Mutex
	counter   int
	queue     []string
	requested bool
}

// NewSheet returns a sheet writing into b's document.
func NewSheet(b *el.Builder, sched FrameScheduler) *Sheet {
	return &Sheet{b: b, sched: sched}
}

// Class returns a unique class name, prefixed with name when non-empty,
// and queues one rule block per Rules argument in order.
func (s *Sheet) Class(name string, rules ...Rules) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	class := s.nextID()
	if name != "" {
		class = name + "-" + class
	}
	for _, r := range rules {
		s.request(stringify("."+class, r))
	}
	return class
}

// Keyframes queues an @keyframes block and returns its generated name.
func (s *Sheet) Keyframes(frames ...Frame) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.nextID()
	var body strings.Builder
	for _, f := range frames {
		body.WriteString(f.At)
		body.WriteString(" {\n")
		writeProps(&body, f.Props, "\t")
		body.WriteString("}\n")
	}
	s.request(fmt.Sprintf("@keyframes %s {\n%s}\n", name, body.String()))
	return name
}

// Queued returns the number of blocks waiting for the next frame.
func (s *Sheet) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Sheet) nextID() string {
	id := "c" + strconv.Itoa(s.counter)
	s.counter++
	return id
}

func (s *Sheet) request(css string) {
	s.queue = append(s.queue, css)
	if !s.requested {
		s.requested = true
		s.sched.RequestFrame(s.flush)
	}
}

// flush appends the queued text to <head> as one <style> element.
func (s *Sheet) flush() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.requested = false
	s.mu.Unlock()
	if len(queue) == 0 {
		return
	}

	node := s.b.MustEl("style", el.Attrs{"type": "text/css"}, "\n"+strings.Join(queue, "/***/\n"))
	// Appending to a document-owned node cannot fail.
	_ = el.Append(s.b.Document().Head(), node)
}

func stringify(selector string, r Rules) string {
	var own, nested strings.Builder
	for _, k := range sortedKeys(r) {
		if sub, ok := nestedRules(r[k]); ok {
			nested.WriteString(stringify(selector+k, sub))
		}
	}
	writeProps(&own, r, "\t")
	return selector + " {\n" + own.String() + "}\n" + nested.String()
}

func writeProps(w *strings.Builder, r Rules, indent string) {
	for _, k := range sortedKeys(r) {
		v, ok := propValue(r[k])
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s%s: %s;\n", indent, kebab(k), v)
	}
}

func propValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil, Rules, map[string]any:
		return "", false
	case string:
		return x, x != ""
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case fmt.Stringer:
		return x.String(), true
	}
	return fmt.Sprint(v), true
}

func nestedRules(v any) (Rules, bool) {
	switch x := v.(type) {
	case Rules:
		return x, true
	case map[string]any:
		return Rules(x), true
	}
	return nil, false
}

// kebab converts a camelCase property name to kebab-case.
func kebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys(r Rules) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
