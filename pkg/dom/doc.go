// Package dom provides the live node tree that livedom elements are built on.
//
// A Document owns a mutable, ordered tree of addressable nodes: elements
// (optionally namespaced), text nodes, comments and document fragments.
// Nodes are linked parent/child/sibling structures, so insertion, removal
// and relocation are O(1) once the reference node is known.
//
// # Tree Operations
//
// The mutation API follows browser DOM semantics:
//
//	doc := dom.NewDocument()
//	div := doc.CreateElement("div")
//	div.SetAttribute("class", "card")
//	div.AppendChild(doc.CreateTextNode("hello"))
//	doc.Body().AppendChild(div)
//
// Inserting a node that already has a parent moves it. Inserting a fragment
// moves all of the fragment's children and leaves it empty.
//
// # Events
//
// Listeners are registered per node and event name. Dispatch bubbles an event
// from its target to the document root. Listeners are not released when a
// node is detached; callers remove them explicitly.
//
// # Observation
//
// Every structural, attribute and text mutation is reported synchronously to
// the document's observers. The server package uses this to stream patches
// to browsers; tests use it to count writes.
package dom
