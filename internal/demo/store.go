package demo

import (
	"strings"
	"sync"
)

// Filter selects which todos are listed.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterDone
)

// String returns the filter's label.
func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterDone:
		return "Done"
	default:
		return "All"
	}
}

// Todo is one list item. ID is its list key.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// Store holds the state of one todo list.
type Store struct {
	mu     sync.Mutex
	todos  []Todo
	nextID int
	draft  string
	filter Filter
}

// NewStore returns a store seeded with titles.
func NewStore(titles ...string) *Store {
	s := &Store{}
	for _, t := range titles {
		s.Add(t)
	}
	return s
}

// Add appends a todo. Blank titles are ignored.
func (s *Store) Add(title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.todos = append(s.todos, Todo{ID: s.nextID, Title: title})
	return true
}

// Toggle flips the done state of the todo with id.
func (s *Store) Toggle(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Done = !s.todos[i].Done
			return
		}
	}
}

// Remove deletes the todo with id.
func (s *Store) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
			return
		}
	}
}

// ClearDone removes all finished todos.
func (s *Store) ClearDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.todos[:0:0]
	for _, t := range s.todos {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	s.todos = kept
}

// MoveUp swaps the todo with id and its predecessor.
func (s *Store) MoveUp(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 1; i < len(s.todos); i++ {
		if s.todos[i].ID == id {
			next := append([]Todo(nil), s.todos...)
			next[i-1], next[i] = next[i], next[i-1]
			s.todos = next
			return
		}
	}
}

// SetDraft records the text of the new-todo input.
func (s *Store) SetDraft(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = v
}

// Draft returns the text of the new-todo input.
func (s *Store) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit adds the draft as a todo and clears it.
func (s *Store) Submit() bool {
	if !s.Add(s.Draft()) {
		return false
	}
	s.SetDraft("")
	return true
}

// SetFilter changes the listed todos.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the current filter.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// All returns a copy of every todo.
func (s *Store) All() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Todo(nil), s.todos...)
}

// Visible returns the todos selected by the filter.
func (s *Store) Visible() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		switch {
		case s.filter == FilterActive && t.Done:
		case s.filter == FilterDone && !t.Done:
		default:
			out = append(out, t)
		}
	}
	return out
}

// Remaining returns the number of unfinished todos.
func (s *Store) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.todos {
		if !t.Done {
			n++
		}
	}
	return n
}
