package editor

import "cbuild/internal/element"

// Z-order follows the element slice: later elements paint over earlier ones.

// BringForward swaps the element with the one above it.
func (s *Store) BringForward(id string) bool {
	i := s.state.Index(id)
	if i < 0 || i == len(s.state.Elements)-1 {
		return false
	}
	return s.reorder(i, i+1)
}

// SendBackward swaps the element with the one below it.
func (s *Store) SendBackward(id string) bool {
	i := s.state.Index(id)
	if i <= 0 {
		return false
	}
	return s.reorder(i, i-1)
}

func (s *Store) BringToFront(id string) bool {
	i := s.state.Index(id)
	if i < 0 || i == len(s.state.Elements)-1 {
		return false
	}
	return s.reorder(i, len(s.state.Elements)-1)
}

func (s *Store) SendToBack(id string) bool {
	i := s.state.Index(id)
	if i <= 0 {
		return false
	}
	return s.reorder(i, 0)
}

// reorder moves the element at from to index to, shifting the rest.
func (s *Store) reorder(from, to int) bool {
	s.CancelDrag()
	next := s.state.Clone()
	e := next.Elements[from]
	next.Elements = append(next.Elements[:from], next.Elements[from+1:]...)
	next.Elements = append(next.Elements[:to], append([]element.Element{e}, next.Elements[to:]...)...)
	s.commit(next)
	return true
}
