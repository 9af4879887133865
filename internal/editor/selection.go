package editor

import "cbuild/internal/element"

// Select points the selection at id. Unknown ids are ignored and leave the
// current selection alone.
func (s *Store) Select(id string) bool {
	if s.state.Index(id) < 0 {
		return false
	}
	s.selected = id
	return true
}

func (s *Store) Deselect() { s.selected = "" }

func (s *Store) SelectedID() string { return s.selected }

// Selected returns the selected element, if any.
func (s *Store) Selected() (element.Element, bool) {
	if s.selected == "" {
		return element.Element{}, false
	}
	return s.Element(s.selected)
}

// SelectNext moves the selection one step up the z-order, wrapping around.
// With nothing selected it picks the bottom element.
func (s *Store) SelectNext() bool { return s.cycle(1) }

// SelectPrev moves the selection one step down the z-order, wrapping around.
// With nothing selected it picks the top element.
func (s *Store) SelectPrev() bool { return s.cycle(-1) }

func (s *Store) cycle(step int) bool {
	n := len(s.state.Elements)
	if n == 0 {
		return false
	}
	i := s.state.Index(s.selected)
	switch {
	case i < 0 && step > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = (i + step + n) % n
	}
	s.selected = s.state.Elements[i].ID
	return true
}

// HitTest returns the topmost element whose box contains (x, y).
func (s *Store) HitTest(x, y int) (string, bool) {
	for i := len(s.state.Elements) - 1; i >= 0; i-- {
		e := s.state.Elements[i]
		w, h := boxOf(e)
		if x >= e.X && x < e.X+w && y >= e.Y && y < e.Y+h {
			return e.ID, true
		}
	}
	return "", false
}
