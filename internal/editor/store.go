// Package editor owns the editing session: the ordered element collection,
// the selection, drag sessions and the undo/redo timeline.
//
// Every mutation goes through commit, which records a history entry and
// hands the new snapshot to the persister. A Store is driven from a single
// goroutine and does no locking.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"cbuild/internal/design"
	"cbuild/internal/element"
	"cbuild/internal/geometry"
	"cbuild/internal/history"

	"github.com/google/uuid"
)

// DuplicateOffset is how far a duplicate is shifted on both axes.
const DuplicateOffset = 20

const maxIDAttempts = 8

var ErrIDExhausted = errors.New("could not generate a unique element id")

// Persister receives every committed snapshot. Implementations must not
// block; the snapshot is the persister's own copy.
type Persister interface {
	Mirror(s design.Snapshot)
}

type Store struct {
	state    design.Snapshot
	history  *history.History[design.Snapshot]
	selected string
	mode     geometry.Mode
	drag     *dragSession

	newID   func() string
	persist Persister
	logger  *slog.Logger
	limit   int
}

type Option func(*Store)

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

// NewID returns a UUIDv7: a millisecond timestamp followed by 74 random bits.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New starts a session from initial, which becomes history entry 0.
func New(initial design.Snapshot, opts ...Option) *Store {
	s := &Store{
		mode:   geometry.ModeDesign,
		newID:  NewID,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if initial.Elements == nil {
		initial.Elements = []element.Element{}
	}
	if !initial.Size.Valid() {
		initial.Size = geometry.DefaultCanvas
	}
	if initial.Background == "" {
		initial.Background = design.DefaultBackground
	}
	s.state = initial.Clone()
	s.history = history.New(initial.Clone(), history.WithLimit(s.limit))
	return s
}

// commit records next as the new current state. Callers end any drag
// session before cloning so a transient position is never recorded.
func (s *Store) commit(next design.Snapshot) {
	s.state = next
	s.history.Commit(next.Clone())
	s.syncSelection()
	if s.persist != nil {
		s.persist.Mirror(next.Clone())
	}
}

// restore makes a history entry visible without recording a new one.
func (s *Store) restore(snap design.Snapshot) {
	s.drag = nil
	s.state = snap.Clone()
	s.syncSelection()
	if s.persist != nil {
		s.persist.Mirror(snap.Clone())
	}
}

func (s *Store) syncSelection() {
	if s.selected != "" && s.state.Index(s.selected) < 0 {
		s.selected = ""
	}
}

// Snapshot returns a copy of the visible state.
func (s *Store) Snapshot() design.Snapshot {
	return s.state.Clone()
}

// Elements returns a copy of the elements in z-order.
func (s *Store) Elements() []element.Element {
	return s.state.Clone().Elements
}

func (s *Store) Element(id string) (element.Element, bool) {
	e, ok := s.state.Find(id)
	if !ok {
		return element.Element{}, false
	}
	return e.Clone(), true
}

func (s *Store) Len() int { return len(s.state.Elements) }

func (s *Store) Background() string { return s.state.Background }

func (s *Store) CanvasSize() geometry.Size { return s.state.Size }

func (s *Store) Mode() geometry.Mode { return s.mode }

// SetMode switches between design and preview. Leaving design mode ends
// any drag in progress without moving the element.
func (s *Store) SetMode(m geometry.Mode) {
	if !m.Valid() || m == s.mode {
		return
	}
	if m == geometry.ModePreview {
		s.CancelDrag()
	}
	s.mode = m
}

func (s *Store) ToggleMode() geometry.Mode {
	if s.mode == geometry.ModeDesign {
		s.SetMode(geometry.ModePreview)
	} else {
		s.SetMode(geometry.ModeDesign)
	}
	return s.mode
}

// Add creates an element of type t with its defaults and the overrides
// applied, puts it on top of the z-order and selects it.
func (s *Store) Add(t element.Type, o element.Overrides) (string, error) {
	id, err := s.uniqueID()
	if err != nil {
		return "", err
	}
	e, err := element.New(id, t, o)
	if err != nil {
		return "", err
	}
	s.CancelDrag()
	next := s.state.Clone()
	next.Elements = append(next.Elements, e)
	s.commit(next)
	s.selected = id
	s.logger.Debug("element added", "id", id, "type", t)
	return id, nil
}

// Paste inserts a copy of e under a fresh id, on top, and selects it.
func (s *Store) Paste(e element.Element) (string, error) {
	e.Normalize()
	w, h := e.Width, e.Height
	content, src := e.Content, e.Src
	x, y := e.X, e.Y
	return s.Add(e.Type, element.Overrides{
		X: &x, Y: &y,
		Width: orZero(w), Height: orZero(h),
		Content: &content,
		Src:     &src,
		Style:   e.Style.Clone(),
	})
}

// orZero keeps an absent size absent through Overrides, where zero means auto.
func orZero(v *int) *int {
	if v == nil {
		zero := 0
		return &zero
	}
	return v
}

func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.state.Index(id) < 0 {
			return id, nil
		}
		s.logger.Warn("element id collision, retrying", "id", id)
	}
	return "", ErrIDExhausted
}

// Patch merges p into the element with id. A missing id is not an error:
// stale UI callbacks after a removal are expected. Position changes are
// clamped into the canvas. A patch that changes nothing records nothing.
func (s *Store) Patch(id string, p element.Patch) bool {
	i := s.state.Index(id)
	if i < 0 || p.Empty() {
		return false
	}
	s.CancelDrag()
	e := s.state.Elements[i].Apply(p)
	if p.X != nil || p.Y != nil {
		w, h := geometry.BoxSize(e.Width, e.Height)
		pt := geometry.Clamp(geometry.Point{X: e.X, Y: e.Y}, s.state.Size, w, h)
		e.X, e.Y = pt.X, pt.Y
	}
	if e.Equal(s.state.Elements[i]) {
		return false
	}
	next := s.state.Clone()
	next.Elements[i] = e
	s.commit(next)
	return true
}

// Remove deletes the element with id if present, clearing the selection
// when it pointed there.
func (s *Store) Remove(id string) bool {
	i := s.state.Index(id)
	if i < 0 {
		return false
	}
	s.CancelDrag()
	next := s.state.Clone()
	next.Elements = append(next.Elements[:i], next.Elements[i+1:]...)
	s.commit(next)
	return true
}

// Duplicate copies the element with id to a fresh id offset by
// DuplicateOffset, on top of the z-order, and selects the copy.
func (s *Store) Duplicate(id string) (string, bool) {
	if s.state.Index(id) < 0 {
		return "", false
	}
	newID, err := s.uniqueID()
	if err != nil {
		s.logger.Error("duplicate element", "id", id, "error", err)
		return "", false
	}
	s.CancelDrag()
	src, _ := s.state.Find(id)
	dup := src.Clone()
	dup.ID = newID
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset

	next := s.state.Clone()
	next.Elements = append(next.Elements, dup)
	s.commit(next)
	s.selected = newID
	return newID, true
}

// Clear removes every element and the selection. Clearing an empty design
// records nothing.
func (s *Store) Clear() {
	if len(s.state.Elements) == 0 {
		return
	}
	s.CancelDrag()
	next := s.state.Clone()
	next.Elements = []element.Element{}
	s.selected = ""
	s.commit(next)
}

func (s *Store) SetBackground(color string) bool {
	if color == "" || color == s.state.Background {
		return false
	}
	s.CancelDrag()
	next := s.state.Clone()
	next.Background = color
	s.commit(next)
	return true
}

func (s *Store) SetCanvasSize(size geometry.Size) error {
	if !size.Valid() {
		return fmt.Errorf("invalid canvas size %dx%d", size.Width, size.Height)
	}
	if size == s.state.Size {
		return nil
	}
	s.CancelDrag()
	next := s.state.Clone()
	next.Size = size
	s.commit(next)
	return nil
}

// Replace swaps in a whole design, as an import does, and clears the
// selection. The replacement is undoable.
func (s *Store) Replace(snap design.Snapshot) error {
	if err := design.ValidateElements(snap.Elements); err != nil {
		return fmt.Errorf("%w: %v", design.ErrInvalidDesign, err)
	}
	next := snap.Clone()
	if !next.Size.Valid() {
		next.Size = geometry.DefaultCanvas
	}
	if next.Background == "" {
		next.Background = design.DefaultBackground
	}
	s.CancelDrag()
	s.selected = ""
	s.commit(next)
	return nil
}

func (s *Store) Undo() bool {
	if s.drag != nil {
		s.CancelDrag()
	}
	snap, ok := s.history.Undo()
	if ok {
		s.restore(snap)
	}
	return ok
}

func (s *Store) Redo() bool {
	if s.drag != nil {
		s.CancelDrag()
	}
	snap, ok := s.history.Redo()
	if ok {
		s.restore(snap)
	}
	return ok
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }

func (s *Store) CanRedo() bool { return s.history.CanRedo() }
