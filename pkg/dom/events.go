package dom

import "strings"

// Event is dispatched to listeners on a node and its ancestors.
type Event struct {
	// Type is the event name without the "on" prefix, e.g. "click".
	Type string

	// Target is the node the event was dispatched on.
	Target *Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *Node

	// Detail carries event payload values such as an input's value.
	Detail map[string]string

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

// Value is shorthand for Detail["value"].
func (e *Event) Value() string {
	if e.Detail == nil {
		return ""
	}
	return e.Detail["value"]
}

// Listener is a registered event callback. It doubles as the handle passed
// to RemoveEventListener.
type Listener struct {
	event   string
	fn      func(*Event)
	removed bool
}

// Event returns the event name the listener is bound to.
func (l *Listener) Event() string { return l.event }

// AddEventListener registers fn for the named event. Names are case-insensitive.
func (n *Node) AddEventListener(event string, fn func(*Event)) *Listener {
	event = strings.ToLower(event)
	l := &Listener{event: event, fn: fn}
	if n.listeners == nil {
		n.listeners = make(map[string][]*Listener)
	}
	n.listeners[event] = append(n.listeners[event], l)
	return l
}

// RemoveEventListener unregisters a listener. It reports whether the
// listener was registered on n.
func (n *Node) RemoveEventListener(l *Listener) bool {
	if l == nil {
		return false
	}
	list := n.listeners[l.event]
	for i, cur := range list {
		if cur == l {
			l.removed = true
			n.listeners[l.event] = append(list[:i:i], list[i+1:]...)
			if len(n.listeners[l.event]) == 0 {
				delete(n.listeners, l.event)
			}
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners registered for event.
func (n *Node) ListenerCount(event string) int {
	return len(n.listeners[strings.ToLower(event)])
}

// Dispatch delivers e to n's listeners, then bubbles to each ancestor until
// propagation is stopped. It reports whether any listener ran.
func (n *Node) Dispatch(e *Event) bool {
	if e.Target == nil {
		e.Target = n
	}
	event := strings.ToLower(e.Type)
	handled := false
	for cur := n; cur != nil && !e.stopped; cur = cur.parent {
		list := cur.listeners[event]
		if len(list) == 0 {
			continue
		}
		e.CurrentTarget = cur
		// Listeners removed during dispatch are skipped; added ones wait
		// for the next dispatch.
		snapshot := append([]*Listener(nil), list...)
		for _, l := range snapshot {
			if l.removed {
				continue
			}
			handled = true
			l.fn(e)
		}
	}
	e.CurrentTarget = nil
	return handled
}
