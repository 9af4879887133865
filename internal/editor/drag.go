package editor

import (
	"cbuild/internal/element"
	"cbuild/internal/geometry"
)

// dragSession tracks one pointer drag. Intermediate positions only touch
// the visible state; EndDrag records a single history entry.
type dragSession struct {
	id     string
	origin geometry.Point
	before element.Element
	moved  bool
}

// BeginDrag starts dragging the element with id. It selects the element
// and fails in preview mode or for unknown ids.
func (s *Store) BeginDrag(id string) bool {
	if s.mode != geometry.ModeDesign {
		return false
	}
	e, ok := s.state.Find(id)
	if !ok {
		return false
	}
	s.CancelDrag()
	s.drag = &dragSession{
		id:     id,
		origin: geometry.Point{X: e.X, Y: e.Y},
		before: e.Clone(),
	}
	s.selected = id
	return true
}

func (s *Store) Dragging() (string, bool) {
	if s.drag == nil {
		return "", false
	}
	return s.drag.id, true
}

// DragTo moves the dragged element to its origin plus (dx, dy), snapped and
// clamped. It returns the new position.
func (s *Store) DragTo(dx, dy int) (geometry.Point, bool) {
	if s.drag == nil {
		return geometry.Point{}, false
	}
	i := s.state.Index(s.drag.id)
	if i < 0 {
		s.drag = nil
		return geometry.Point{}, false
	}
	e := &s.state.Elements[i]
	p := geometry.Place(s.drag.origin, dx, dy, s.mode, s.state.Size, e.Width, e.Height)
	if p.X != e.X || p.Y != e.Y {
		e.X, e.Y = p.X, p.Y
		s.drag.moved = true
	}
	return p, true
}

// EndDrag finishes the drag. A drag that ends where it started records
// nothing.
func (s *Store) EndDrag() bool {
	d := s.drag
	if d == nil {
		return false
	}
	s.drag = nil
	e, ok := s.state.Find(d.id)
	if !ok {
		return false
	}
	if e.X == d.origin.X && e.Y == d.origin.Y {
		return false
	}
	s.commit(s.state.Clone())
	s.logger.Debug("element moved", "id", d.id, "x", e.X, "y", e.Y)
	return true
}

// CancelDrag puts the dragged element back where the drag started.
func (s *Store) CancelDrag() {
	d := s.drag
	if d == nil {
		return
	}
	s.drag = nil
	if i := s.state.Index(d.id); i >= 0 && d.moved {
		s.state.Elements[i].X = d.before.X
		s.state.Elements[i].Y = d.before.Y
	}
}

// Nudge moves the element with id by (dx, dy) grid steps in design mode,
// snapping and clamping like a drag.
func (s *Store) Nudge(id string, dx, dy int) bool {
	if s.mode != geometry.ModeDesign || s.drag != nil {
		return false
	}
	e, ok := s.state.Find(id)
	if !ok {
		return false
	}
	origin := geometry.Point{X: e.X, Y: e.Y}
	p := geometry.Place(origin, dx*geometry.GridSize, dy*geometry.GridSize, s.mode, s.state.Size, e.Width, e.Height)
	if p == origin {
		return false
	}
	return s.Patch(id, element.Patch{X: &p.X, Y: &p.Y})
}

func boxOf(e element.Element) (int, int) {
	return geometry.BoxSize(e.Width, e.Height)
}
