// Package server serves live pages built from el elements.
//
// Each page request creates a Session: a dom.Document with the App's root
// element mounted in its body. The page is rendered with node ids, and the
// embedded client script connects back over a WebSocket. From then on:
//
//  1. The client reports DOM events as binary event frames
//  2. The session dispatches each event to the target node's listeners
//  3. The root element's Update runs through the UpdateMiddleware chain
//  4. Queued style rules are flushed into the document head
//  5. The recorded mutations are sent back as one patch batch
//
// # Example Usage
//
//	app := func(s *server.Session) (el.Element, error) {
//	    b := s.Builder()
//	    count := 0
//	    label := param.Func(func() string { return strconv.Itoa(count) })
//	    return b.El("button", el.Attrs{
//	        "onclick": func() { count++ },
//	    }, label)
//	}
//
//	srv := server.New(app, &server.ServerConfig{Address: ":8080"})
//	srv.Run()
//
// # Thread Safety
//
// Every session serializes access to its tree behind one lock: event
// dispatch, Session.Do callbacks and update passes never overlap. Writes to
// the connection are serialized separately, so heartbeats do not wait for
// update passes.
package server
