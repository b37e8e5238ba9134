// Package livetest provides testing helpers for live sessions.
//
// A test session mounts an App without a WebSocket connection, so tests
// can fire events at nodes and assert on the resulting document.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    s := livetest.Mount(t, CounterApp)
//	    button := s.FindTag("button")
//	    s.Click(button)
//	    livetest.ExpectText(t, button, "clicked 1")
//	}
//
// # Queries
//
// FindTag, FindText and FindAttr search the body depth-first and fail the
// test when nothing matches. Find accepts any predicate and returns nil
// instead.
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	livetest.ExpectContains(t, s.Body(), "3 items left")
//	livetest.ExpectNotContains(t, s.Body(), "All done!")
package livetest
